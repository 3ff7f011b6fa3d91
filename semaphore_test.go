package arachne

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSemaphore_WaitBlocksUntilNotified(t *testing.T) {
	rt, err := Init(WithCoreRange(1, 1))
	require.NoError(t, err)
	defer rt.ShutDown()

	sem := NewSemaphore(0)
	waiterPastWait := make(chan struct{})
	notifierRan := make(chan struct{})

	Create(rt, ThreadClassDefault, func(self *ThreadContext) {
		sem.Wait(self)
		close(waiterPastWait)
	})

	Create(rt, ThreadClassDefault, func(self *ThreadContext) {
		self.Sleep(20 * time.Millisecond)
		close(notifierRan)
		sem.Notify(self)
	})

	select {
	case <-waiterPastWait:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never woke")
	}
	select {
	case <-notifierRan:
	default:
		t.Fatal("waiter woke before notifier ran")
	}
}

func TestSemaphore_TryWait(t *testing.T) {
	rt, err := Init(WithCoreRange(1, 1))
	require.NoError(t, err)
	defer rt.ShutDown()

	sem := NewSemaphore(1)
	resultCh := make(chan [2]bool, 1)
	Create(rt, ThreadClassDefault, func(self *ThreadContext) {
		first := sem.TryWait(self)
		second := sem.TryWait(self)
		resultCh <- [2]bool{first, second}
	})

	select {
	case result := <-resultCh:
		require.True(t, result[0], "first TryWait on a count-1 semaphore must succeed")
		require.False(t, result[1], "second TryWait must fail once the count is exhausted")
	case <-time.After(2 * time.Second):
		t.Fatal("thread never ran")
	}
}
