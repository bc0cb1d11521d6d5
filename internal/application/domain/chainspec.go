package domain

import (
	"github.com/attestantio/go-eth2-client/spec"
)

// FarFutureEpoch marks a fork that is not scheduled.
const FarFutureEpoch = Epoch(^uint64(0))

// ChainSpec holds the fixed chain parameters the analysis depends on.
type ChainSpec struct {
	SlotsPerEpoch      Slot
	AltairForkEpoch    Epoch
	BellatrixForkEpoch Epoch
	CapellaForkEpoch   Epoch
	DenebForkEpoch     Epoch
	ElectraForkEpoch   Epoch
}

// MainnetChainSpec returns the Ethereum mainnet parameters.
func MainnetChainSpec() ChainSpec {
	return ChainSpec{
		SlotsPerEpoch:      32,
		AltairForkEpoch:    74240,
		BellatrixForkEpoch: 144896,
		CapellaForkEpoch:   194048,
		DenebForkEpoch:     269568,
		ElectraForkEpoch:   364032,
	}
}

// EpochAt returns the epoch containing slot.
func (c ChainSpec) EpochAt(slot Slot) Epoch {
	return Epoch(slot / c.SlotsPerEpoch)
}

// ForkAt returns the fork active at slot.
func (c ChainSpec) ForkAt(slot Slot) spec.DataVersion {
	epoch := c.EpochAt(slot)
	switch {
	case epoch >= c.ElectraForkEpoch:
		return spec.DataVersionElectra
	case epoch >= c.DenebForkEpoch:
		return spec.DataVersionDeneb
	case epoch >= c.CapellaForkEpoch:
		return spec.DataVersionCapella
	case epoch >= c.BellatrixForkEpoch:
		return spec.DataVersionBellatrix
	case epoch >= c.AltairForkEpoch:
		return spec.DataVersionAltair
	default:
		return spec.DataVersionPhase0
	}
}
