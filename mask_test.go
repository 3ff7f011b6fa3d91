package arachne

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAndCount_ReserveFirstFree(t *testing.T) {
	var m maskAndCount

	i, ok := m.reserveFirstFree()
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, m.load().numOccupied())
	assert.True(t, m.load().bitSet(0))

	j, ok := m.reserveFirstFree()
	require.True(t, ok)
	assert.Equal(t, 1, j)
	assert.Equal(t, 2, m.load().numOccupied())
}

func TestMaskAndCount_ReserveFirstFree_SkipsHeldBits(t *testing.T) {
	var m maskAndCount
	_, _ = m.reserveFirstFree() // bit 0
	m.clearBit(0)
	_, _ = m.reserveFirstFree() // bit 0 again, now free
	i, ok := m.reserveFirstFree()
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestMaskAndCount_ReserveFirstFree_Exhausted(t *testing.T) {
	var m maskAndCount
	for i := 0; i < maxSlotsPerCore; i++ {
		_, ok := m.reserveFirstFree()
		require.True(t, ok)
	}
	_, ok := m.reserveFirstFree()
	assert.False(t, ok, "reserving past capacity must fail rather than corrupt the count")
	assert.Equal(t, maxSlotsPerCore, m.load().numOccupied())
}

func TestMaskAndCount_ClearBit_InvariantHolds(t *testing.T) {
	var m maskAndCount
	i, _ := m.reserveFirstFree()
	j, _ := m.reserveFirstFree()

	m.clearBit(i)
	snap := m.load()
	assert.Equal(t, 1, snap.numOccupied(), "numOccupied must equal popcount(occupied)")
	assert.False(t, snap.bitSet(i))
	assert.True(t, snap.bitSet(j))
}

func TestMaskAndCount_ClearBit_AlreadyClear_NoOp(t *testing.T) {
	var m maskAndCount
	m.clearBit(5)
	assert.Equal(t, 0, m.load().numOccupied())
}

func TestMaskAndCount_PinSingleOccupant(t *testing.T) {
	var m maskAndCount
	_, _ = m.reserveFirstFree()
	m.pinSingleOccupant()
	assert.Equal(t, maxSlotsPerCore-1, m.load().numOccupied())

	_, ok := m.reserveFirstFree()
	assert.True(t, ok, "pinSingleOccupant leaves room for exactly one more reservation")
	_, ok = m.reserveFirstFree()
	assert.False(t, ok, "and no more than one")
}

func TestFirstZeroBit(t *testing.T) {
	assert.Equal(t, 0, firstZeroBit(0))
	assert.Equal(t, 1, firstZeroBit(1))
	assert.Equal(t, -1, firstZeroBit(occupiedMask))
}
