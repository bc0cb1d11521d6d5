package adapters

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	apiv1bellatrix "github.com/attestantio/go-eth2-client/api/v1/bellatrix"
	apiv1capella "github.com/attestantio/go-eth2-client/api/v1/capella"
	apiv1deneb "github.com/attestantio/go-eth2-client/api/v1/deneb"
	"github.com/attestantio/go-eth2-client/spec"
	"github.com/attestantio/go-eth2-client/spec/altair"
	"github.com/attestantio/go-eth2-client/spec/bellatrix"
	"github.com/attestantio/go-eth2-client/spec/capella"
	"github.com/attestantio/go-eth2-client/spec/deneb"
	"github.com/attestantio/go-eth2-client/spec/phase0"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
	"github.com/Marketen/block-packing-forensics/internal/application/ports"
)

// sszFileSource implements ports.BlockSource over a directory of SSZ files,
// one signed block per slot.
type sszFileSource struct {
	dir     string
	chain   domain.ChainSpec
	blinded bool
}

// NewSSZFileSource reads blocks from dir. When blinded is set, post-merge
// blocks are decoded as signed blinded blocks; pre-merge forks have no
// blinded form and are always decoded as full blocks.
func NewSSZFileSource(dir string, chain domain.ChainSpec, blinded bool) ports.BlockSource {
	return &sszFileSource{dir: dir, chain: chain, blinded: blinded}
}

// BlockFileName is the file name holding the block of slot.
func BlockFileName(slot domain.Slot) string {
	return fmt.Sprintf("block_mainnet_%d.ssz", slot)
}

// GetBlock treats a missing file as a slot without a block. Files that exist
// but fail to decode are returned as errors.
func (s *sszFileSource) GetBlock(_ context.Context, slot domain.Slot) (*domain.Block, error) {
	path := filepath.Join(s.dir, BlockFileName(slot))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	block, err := s.decode(s.chain.ForkAt(slot), data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return block, nil
}

func (s *sszFileSource) decode(fork spec.DataVersion, data []byte) (*domain.Block, error) {
	switch fork {
	case spec.DataVersionPhase0:
		b := &phase0.SignedBeaconBlock{}
		if err := b.UnmarshalSSZ(data); err != nil {
			return nil, err
		}
		return fromVersioned(&spec.VersionedSignedBeaconBlock{Version: fork, Phase0: b})
	case spec.DataVersionAltair:
		b := &altair.SignedBeaconBlock{}
		if err := b.UnmarshalSSZ(data); err != nil {
			return nil, err
		}
		return fromVersioned(&spec.VersionedSignedBeaconBlock{Version: fork, Altair: b})
	case spec.DataVersionBellatrix:
		if !s.blinded {
			b := &bellatrix.SignedBeaconBlock{}
			if err := b.UnmarshalSSZ(data); err != nil {
				return nil, err
			}
			return fromVersioned(&spec.VersionedSignedBeaconBlock{Version: fork, Bellatrix: b})
		}
		b := &apiv1bellatrix.SignedBlindedBeaconBlock{}
		if err := b.UnmarshalSSZ(data); err != nil {
			return nil, err
		}
		if b.Message == nil || b.Message.Body == nil {
			return nil, errIncompleteBlock
		}
		return toDomainBlock(b.Message.Slot, b.Message.Body.Graffiti, b.Message.Body.Attestations)
	case spec.DataVersionCapella:
		if !s.blinded {
			b := &capella.SignedBeaconBlock{}
			if err := b.UnmarshalSSZ(data); err != nil {
				return nil, err
			}
			return fromVersioned(&spec.VersionedSignedBeaconBlock{Version: fork, Capella: b})
		}
		b := &apiv1capella.SignedBlindedBeaconBlock{}
		if err := b.UnmarshalSSZ(data); err != nil {
			return nil, err
		}
		if b.Message == nil || b.Message.Body == nil {
			return nil, errIncompleteBlock
		}
		return toDomainBlock(b.Message.Slot, b.Message.Body.Graffiti, b.Message.Body.Attestations)
	case spec.DataVersionDeneb:
		if !s.blinded {
			b := &deneb.SignedBeaconBlock{}
			if err := b.UnmarshalSSZ(data); err != nil {
				return nil, err
			}
			return fromVersioned(&spec.VersionedSignedBeaconBlock{Version: fork, Deneb: b})
		}
		b := &apiv1deneb.SignedBlindedBeaconBlock{}
		if err := b.UnmarshalSSZ(data); err != nil {
			return nil, err
		}
		if b.Message == nil || b.Message.Body == nil {
			return nil, errIncompleteBlock
		}
		return toDomainBlock(b.Message.Slot, b.Message.Body.Graffiti, b.Message.Body.Attestations)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFork, fork)
	}
}
