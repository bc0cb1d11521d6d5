package ports

import (
	"context"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
)

// BlockSource is the hexagonal port for reading historical blocks.
// The analyzer depends only on this interface, not on any concrete storage.
type BlockSource interface {
	// GetBlock returns the block proposed at slot. A slot without a block
	// returns (nil, nil). Any error is unrecoverable for the analysis.
	GetBlock(ctx context.Context, slot domain.Slot) (*domain.Block, error)
}
