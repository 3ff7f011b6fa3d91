package arachne

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_WakesBlockedThread(t *testing.T) {
	rt, err := Init(WithCoreRange(1, 1))
	require.NoError(t, err)
	defer rt.ShutDown()

	woke := make(chan struct{})
	var id ThreadId
	started := make(chan struct{})
	id = Create(rt, ThreadClassDefault, func(self *ThreadContext) {
		close(started)
		self.Block()
		close(woke)
	})
	<-started
	time.Sleep(20 * time.Millisecond) // let the thread actually park
	Signal(id)

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("signaled thread never woke")
	}
}

func TestSignal_NullThreadIsNoOp(t *testing.T) {
	assert.NotPanics(t, func() { Signal(NullThread) })
}

func TestSignal_FinishedThreadIsNoOp(t *testing.T) {
	rt, err := Init(WithCoreRange(1, 1))
	require.NoError(t, err)
	defer rt.ShutDown()

	id := Create(rt, ThreadClassDefault, func(self *ThreadContext) {})
	time.Sleep(50 * time.Millisecond) // let it finish
	assert.NotPanics(t, func() { Signal(id) })
}
