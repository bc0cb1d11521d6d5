package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marketen/block-packing-forensics/internal/application/domain"
)

// seeded returns participation rolled to epoch 2 with two credited keys.
func seeded(t *testing.T) *Participation {
	t.Helper()
	p := NewParticipation()
	p.Roll(2)
	added := p.Commit(block(66, "", att(65, 0, 0, 1)), testChain)
	require.Equal(t, 2, added)
	return p
}

func TestRollFirstUse(t *testing.T) {
	p := NewParticipation()
	_, ok := p.Epoch()
	assert.False(t, ok)

	p.Roll(10)
	epoch, ok := p.Epoch()
	assert.True(t, ok)
	assert.Equal(t, domain.Epoch(10), epoch)
	prev, cur := p.Len()
	assert.Zero(t, prev)
	assert.Zero(t, cur)
}

func TestRollSameEpochKeepsSets(t *testing.T) {
	p := seeded(t)
	before := snapshot(p.current)

	p.Roll(2)
	assert.Equal(t, before, p.current)
	assert.Empty(t, p.previous)
}

func TestRollNextEpochShiftsSets(t *testing.T) {
	p := seeded(t)
	before := snapshot(p.current)

	p.Roll(3)
	assert.Equal(t, before, p.previous)
	assert.Empty(t, p.current)
}

func TestRollGapClearsSets(t *testing.T) {
	p := seeded(t)
	p.Roll(3)
	p.Commit(block(97, "", att(96, 1, 4)), testChain)

	p.Roll(5)
	assert.Empty(t, p.previous)
	assert.Empty(t, p.current)
}

func TestRollDecreasingEpochKeepsSets(t *testing.T) {
	p := seeded(t)
	p.Roll(3)
	prev := snapshot(p.previous)

	p.Roll(1)
	assert.Equal(t, prev, p.previous)
	assert.Empty(t, p.current)
	epoch, _ := p.Epoch()
	assert.Equal(t, domain.Epoch(1), epoch)
}

func TestCommitTimelyBoundary(t *testing.T) {
	p := NewParticipation()
	p.Roll(3)

	// delay == threshold is credited, threshold+1 is not
	b := block(101, "",
		att(101-TimelySourceThreshold, 0, 0),
		att(101-TimelySourceThreshold-1, 0, 1),
	)
	added := p.Commit(b, testChain)
	assert.Equal(t, 1, added)

	assert.True(t, p.Seen(3, 3, domain.ParticipationKey{Slot: 96, CommitteeIndex: 0, Bit: 0}))
	assert.False(t, p.Seen(3, 3, domain.ParticipationKey{Slot: 95, CommitteeIndex: 0, Bit: 1}))
	assert.False(t, p.Seen(2, 3, domain.ParticipationKey{Slot: 95, CommitteeIndex: 0, Bit: 1}))
}

func TestCommitSelectsSetByDataEpoch(t *testing.T) {
	p := NewParticipation()
	p.Roll(3)

	// data slot 95 is in epoch 2, the block in epoch 3
	p.Commit(block(97, "", att(95, 2, 7), att(96, 2, 7)), testChain)

	assert.Contains(t, p.previous, domain.ParticipationKey{Slot: 95, CommitteeIndex: 2, Bit: 7})
	assert.Contains(t, p.current, domain.ParticipationKey{Slot: 96, CommitteeIndex: 2, Bit: 7})
	assert.Len(t, p.previous, 1)
	assert.Len(t, p.current, 1)
}

func TestCommitDoesNotDoubleCount(t *testing.T) {
	p := seeded(t)
	added := p.Commit(block(67, "", att(65, 0, 0, 1, 2)), testChain)
	assert.Equal(t, 1, added)
	_, cur := p.Len()
	assert.Equal(t, 3, cur)
}
