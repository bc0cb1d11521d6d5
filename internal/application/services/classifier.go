package services

import (
	"github.com/Marketen/block-packing-forensics/internal/application/domain"
	"github.com/Marketen/block-packing-forensics/internal/graffiti"
)

// MaxAttestationsPerGroup is the most attestations with identical data the
// Lodestar packing algorithm includes in one block.
const MaxAttestationsPerGroup = 2

// Verdict holds the two independent labels computed for a block.
type Verdict struct {
	// WithinGroupLimit is false when some data group exceeds MaxAttestationsPerGroup.
	WithinGroupLimit bool
	// ScoresDescending is true when scores are non-increasing in block order.
	ScoresDescending bool
	// AlgorithmMatch is the structural verdict: both predicates hold.
	AlgorithmMatch bool
	// GraffitiProxy is the graffiti label. Proposers set graffiti freely, so
	// this is a proxy for the building client, not a ground truth.
	GraffitiProxy bool
}

// Classify applies the packing predicates to scores and the graffiti proxy to
// the block's graffiti text.
func Classify(scores Scores, graffitiText, token string) Verdict {
	v := Verdict{
		WithinGroupLimit: withinGroupLimit(scores.Groups),
		ScoresDescending: isSortedDesc(scores.Values),
		GraffitiProxy:    graffiti.ContainsToken(graffitiText, token),
	}
	v.AlgorithmMatch = v.WithinGroupLimit && v.ScoresDescending
	return v
}

func withinGroupLimit(groups map[domain.AttestationData]int) bool {
	for _, count := range groups {
		if count > MaxAttestationsPerGroup {
			return false
		}
	}
	return true
}

func isSortedDesc(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if !(values[i-1] >= values[i]) {
			return false
		}
	}
	return true
}
