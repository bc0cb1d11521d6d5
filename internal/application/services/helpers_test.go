package services

import (
	"context"

	"github.com/prysmaticlabs/go-bitfield"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
)

var testChain = domain.MainnetChainSpec()

func att(dataSlot domain.Slot, index domain.CommitteeIndex, bits ...uint64) domain.Attestation {
	agg := bitfield.NewBitlist(16)
	for _, b := range bits {
		agg.SetBitAt(b, true)
	}
	return domain.Attestation{
		Data: domain.AttestationData{
			Slot:  dataSlot,
			Index: index,
		},
		AggregationBits: agg,
	}
}

func block(slot domain.Slot, graffitiText string, atts ...domain.Attestation) *domain.Block {
	return &domain.Block{Slot: slot, Graffiti: graffitiText, Attestations: atts}
}

// fakeSource serves blocks from memory; slots in errs fail.
type fakeSource struct {
	blocks map[domain.Slot]*domain.Block
	errs   map[domain.Slot]error
	calls  []domain.Slot
}

func (f *fakeSource) GetBlock(_ context.Context, slot domain.Slot) (*domain.Block, error) {
	f.calls = append(f.calls, slot)
	if err, ok := f.errs[slot]; ok {
		return nil, err
	}
	return f.blocks[slot], nil
}

func snapshot(s keySet) keySet {
	out := make(keySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}
