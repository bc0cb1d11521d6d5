package domain

import (
	"github.com/prysmaticlabs/go-bitfield"
)

// Basic consensus types
type Epoch uint64
type Slot uint64
type CommitteeIndex uint64
type Root [32]byte

// Checkpoint is a (epoch, root) pair as voted in attestation source/target.
type Checkpoint struct {
	Epoch Epoch
	Root  Root
}

// AttestationData is the vote payload of an attestation. It is comparable, so
// two attestations belong to the same group iff their data values are equal.
type AttestationData struct {
	Slot            Slot
	Index           CommitteeIndex
	BeaconBlockRoot Root
	Source          Checkpoint
	Target          Checkpoint
}

// Attestation is a simplified representation of a beacon block attestation
// sufficient to score how much new participation it brings.
type Attestation struct {
	Data AttestationData

	// Bitfield of which committee members are aggregated in this attestation.
	AggregationBits bitfield.Bitlist
}

// SetBits returns the committee positions whose aggregation bit is set.
func (a Attestation) SetBits() []uint64 {
	var out []uint64
	for i := uint64(0); i < a.AggregationBits.Len(); i++ {
		if a.AggregationBits.BitAt(i) {
			out = append(out, i)
		}
	}
	return out
}

// Block is the decoded view of a beacon block the analysis needs.
type Block struct {
	Slot Slot

	// Graffiti is proposer-controlled text. It is an unverified label, never
	// a proof of which client built the block.
	Graffiti string

	Attestations []Attestation
}

// ParticipationKey identifies one validator's on-time attestation credit
// without resolving the validator index.
type ParticipationKey struct {
	Slot           Slot
	CommitteeIndex CommitteeIndex
	Bit            uint64
}
