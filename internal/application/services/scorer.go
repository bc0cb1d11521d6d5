package services

import (
	"github.com/Marketen/block-packing-forensics/internal/application/domain"
)

// Scores is the read-only evaluation of a block's attestations against the
// participation view the proposer had when building it.
type Scores struct {
	// Values holds one novelty score per attestation, in block order.
	Values []float64

	// Groups counts attestations per identical AttestationData.
	Groups map[domain.AttestationData]int
}

// ScoreBlock computes, for every attestation, the number of participants not
// yet credited divided by its inclusion delay. It never mutates p.
//
// A zero inclusion delay cannot happen on a valid chain; it produces +Inf, or
// NaN when no participant is new.
func ScoreBlock(block *domain.Block, p *Participation, chain domain.ChainSpec) Scores {
	blockEpoch := chain.EpochAt(block.Slot)
	out := Scores{
		Values: make([]float64, 0, len(block.Attestations)),
		Groups: make(map[domain.AttestationData]int),
	}

	for _, att := range block.Attestations {
		out.Groups[att.Data]++

		dataEpoch := chain.EpochAt(att.Data.Slot)
		notSeen := 0
		for _, bit := range att.SetBits() {
			if !p.Seen(dataEpoch, blockEpoch, participationKey(att.Data, bit)) {
				notSeen++
			}
		}
		delay := inclusionDelay(block.Slot, att.Data.Slot)
		out.Values = append(out.Values, float64(notSeen)/float64(delay))
	}
	return out
}
