package arachne

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfStats_SnapshotReflectsOccupancyAndState(t *testing.T) {
	rt, err := Init(WithCoreRange(1, 2))
	require.NoError(t, err)
	defer rt.ShutDown()

	require.NoError(t, rt.manager.MakeExclusive(1))

	started := make(chan struct{})
	Create(rt, ThreadClassDefault, func(self *ThreadContext) {
		close(started)
		self.Sleep(time.Second)
	})
	<-started
	time.Sleep(20 * time.Millisecond)

	snap := rt.Stats().Snapshot()
	require.Len(t, snap, 2)

	assert.Equal(t, 0, snap[0].CoreID)
	assert.Equal(t, "shared", snap[0].State)
	assert.Equal(t, 1, snap[0].OccupiedSlots)

	assert.Equal(t, 1, snap[1].CoreID)
	assert.Equal(t, "exclusive", snap[1].State)
	// MakeExclusive raises the exclusive core's occupancy count to
	// maxSlotsPerCore-1 even though no thread has been placed there yet.
	assert.Equal(t, maxSlotsPerCore-1, snap[1].OccupiedSlots)
}
