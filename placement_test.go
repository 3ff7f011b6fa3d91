package arachne

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickTwoChoice_PrefersLessOccupiedCore(t *testing.T) {
	cores := []*core{newCore(nil, 0), newCore(nil, 1), newCore(nil, 2)}
	// Core 1 starts heavily occupied; 0 and 2 stay empty.
	for i := 0; i < 10; i++ {
		_, _ = cores[1].mask.reserveFirstFree()
	}

	rng := newXorshiftRNG(1)
	seenEmpty := false
	for i := 0; i < 100; i++ {
		picked := pickTwoChoice(rng, []int{0, 1, 2}, cores)
		require.Contains(t, []int{0, 1, 2}, picked)
		if picked != 1 {
			seenEmpty = true
		}
	}
	assert.True(t, seenEmpty, "two-choice placement must eventually avoid the heavily occupied core")
}

func TestPickTwoChoice_NonContiguousEligibleSet_AlwaysReturnsEligible(t *testing.T) {
	// Core 1 is absent from eligible, simulating an EXCLUSIVE core
	// skipped by DefaultCorePolicy; the sampled pair must still be drawn
	// from {0, 2, 3}, never core 1.
	cores := []*core{newCore(nil, 0), newCore(nil, 1), newCore(nil, 2), newCore(nil, 3)}
	rng := newXorshiftRNG(1)
	for i := 0; i < 50; i++ {
		picked := pickTwoChoice(rng, []int{0, 2, 3}, cores)
		assert.Contains(t, []int{0, 2, 3}, picked)
	}
}

func TestPickTwoChoice_SingleEligibleCore(t *testing.T) {
	cores := []*core{newCore(nil, 0)}
	rng := newXorshiftRNG(1)
	assert.Equal(t, 0, pickTwoChoice(rng, []int{0}, cores))
}

func TestPickTwoChoice_NoEligibleCores(t *testing.T) {
	rng := newXorshiftRNG(1)
	assert.Equal(t, -1, pickTwoChoice(rng, nil, nil))
}

func TestDefaultCorePolicy_ExclusiveClassHasNoTwoChoiceEligibility(t *testing.T) {
	rt, err := Init(WithCoreRange(1, 2))
	require.NoError(t, err)
	defer rt.ShutDown()

	policy := newDefaultCorePolicy(rt)
	assert.Empty(t, policy.EligibleCores(ThreadClassExclusive))
	assert.NotEmpty(t, policy.EligibleCores(ThreadClassDefault))
}
