package services

import (
	"github.com/Marketen/block-packing-forensics/internal/application/domain"
	"github.com/Marketen/block-packing-forensics/internal/logger"
)

// TimelySourceThreshold is the maximum inclusion delay, in slots, for an
// attestation to earn participation credit. It approximates the consensus
// TIMELY_SOURCE rule with integer sqrt(SLOTS_PER_EPOCH).
const TimelySourceThreshold = domain.Slot(5)

type keySet map[domain.ParticipationKey]struct{}

// Participation tracks which (slot, committee, bit) triples were already
// credited for the epoch of the last processed block and the one before.
type Participation struct {
	previous keySet
	current  keySet

	epoch    domain.Epoch
	hasEpoch bool
}

func NewParticipation() *Participation {
	return &Participation{
		previous: make(keySet),
		current:  make(keySet),
	}
}

// Roll moves the two-epoch window to blockEpoch. It must be called once per
// block, before scoring.
func (p *Participation) Roll(blockEpoch domain.Epoch) {
	switch {
	case !p.hasEpoch:
		p.reset()
	case blockEpoch == p.epoch:
	case blockEpoch == p.epoch+1:
		p.previous = p.current
		p.current = make(keySet)
	case blockEpoch > p.epoch+1:
		p.reset()
	default:
		logger.Warn("Block epoch %d is behind tracked epoch %d; keeping participation sets", blockEpoch, p.epoch)
	}
	p.epoch = blockEpoch
	p.hasEpoch = true
}

// Epoch returns the epoch of the last roll and whether any roll happened.
func (p *Participation) Epoch() (domain.Epoch, bool) {
	return p.epoch, p.hasEpoch
}

// Seen reports whether key is credited in the set selected for dataEpoch.
func (p *Participation) Seen(dataEpoch, blockEpoch domain.Epoch, key domain.ParticipationKey) bool {
	_, ok := p.setFor(dataEpoch, blockEpoch)[key]
	return ok
}

// Len returns the size of the previous and current sets.
func (p *Participation) Len() (previous, current int) {
	return len(p.previous), len(p.current)
}

func (p *Participation) setFor(dataEpoch, blockEpoch domain.Epoch) keySet {
	if dataEpoch == blockEpoch {
		return p.current
	}
	return p.previous
}

func (p *Participation) reset() {
	p.previous = make(keySet)
	p.current = make(keySet)
}

// Commit credits the participants of every timely attestation in block. It
// must run after scoring so scores reflect the pre-block view.
func (p *Participation) Commit(block *domain.Block, chain domain.ChainSpec) int {
	blockEpoch := chain.EpochAt(block.Slot)
	added := 0
	for _, att := range block.Attestations {
		if !isTimelySource(block.Slot, att.Data.Slot) {
			continue
		}
		set := p.setFor(chain.EpochAt(att.Data.Slot), blockEpoch)
		for _, bit := range att.SetBits() {
			key := participationKey(att.Data, bit)
			if _, ok := set[key]; ok {
				continue
			}
			set[key] = struct{}{}
			added++
		}
	}
	return added
}

func isTimelySource(blockSlot, dataSlot domain.Slot) bool {
	return inclusionDelay(blockSlot, dataSlot) <= TimelySourceThreshold
}

// inclusionDelay saturates at zero for data slots at or after the block slot.
func inclusionDelay(blockSlot, dataSlot domain.Slot) domain.Slot {
	if dataSlot >= blockSlot {
		return 0
	}
	return blockSlot - dataSlot
}

func participationKey(data domain.AttestationData, bit uint64) domain.ParticipationKey {
	return domain.ParticipationKey{
		Slot:           data.Slot,
		CommitteeIndex: data.Index,
		Bit:            bit,
	}
}
