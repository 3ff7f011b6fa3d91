package arachne

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPark_NestedDispatchFatals(t *testing.T) {
	ctx := &ThreadContext{}
	ctx.parking.Store(true) // simulate already being mid-park

	assert.Panics(t, func() {
		ctx.park(wakeupBlocked)
	}, "parking while already parking must trigger the nested-dispatch fatal")
}

func TestThreadContext_ThreadIdReflectsCurrentGeneration(t *testing.T) {
	ctx := &ThreadContext{}
	ctx.generation.Store(7)
	id := ctx.ThreadId()
	assert.Equal(t, uint32(7), id.Generation())
	assert.False(t, id.finished())

	ctx.generation.Store(8)
	assert.True(t, id.finished(), "a ThreadId must report finished once its slot's generation advances")
}

func TestTrampolineLoop_GenerationIncrementsOncePerRun(t *testing.T) {
	rt, err := Init(WithCoreRange(1, 1))
	require.NoError(t, err)
	defer rt.ShutDown()

	id1 := Create(rt, ThreadClassDefault, func(self *ThreadContext) {})
	time.Sleep(30 * time.Millisecond)

	id2 := Create(rt, ThreadClassDefault, func(self *ThreadContext) {})
	time.Sleep(30 * time.Millisecond)

	assert.NotEqual(t, id1.Generation(), id2.Generation())
	assert.True(t, id1.finished())
	assert.True(t, id2.finished())
}
