package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attestantio/go-eth2-client/api"
	eth2http "github.com/attestantio/go-eth2-client/http"
	"github.com/rs/zerolog"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
	"github.com/Marketen/block-packing-forensics/internal/application/ports"
)

// requestTimeout bounds each block request; the source issues one per slot.
const requestTimeout = 20 * time.Second

// beaconHTTPSource implements ports.BlockSource using go-eth2-client.
type beaconHTTPSource struct {
	client *eth2http.Service
}

// NewBeaconHTTPSource connects to the beacon node REST API at endpoint.
func NewBeaconHTTPSource(ctx context.Context, endpoint string) (ports.BlockSource, error) {
	client, err := eth2http.New(
		ctx,
		eth2http.WithAddress(endpoint),
		eth2http.WithTimeout(requestTimeout),
		// Silence go-eth2-client logs unless they are warnings+.
		eth2http.WithLogLevel(zerolog.WarnLevel),
	)
	if err != nil {
		return nil, err
	}

	return &beaconHTTPSource{client: client.(*eth2http.Service)}, nil
}

// GetBlock fetches the block at slot. A 404 means the slot was missed.
func (b *beaconHTTPSource) GetBlock(ctx context.Context, slot domain.Slot) (*domain.Block, error) {
	resp, err := b.client.SignedBeaconBlock(ctx, &api.SignedBeaconBlockOpts{
		Block: fmt.Sprintf("%d", slot),
	})
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch block at slot %d: %w", slot, err)
	}
	if resp == nil || resp.Data == nil {
		return nil, nil
	}

	block, err := fromVersioned(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("convert block at slot %d: %w", slot, err)
	}
	return block, nil
}
