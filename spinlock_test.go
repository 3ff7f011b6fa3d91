package arachne

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinLock_MutualExclusion(t *testing.T) {
	rt, err := Init(WithCoreRange(1, 2))
	require.NoError(t, err)
	defer rt.ShutDown()

	lock := NewSpinLock("counter")
	counter := 0
	const iterations = 50
	var wg sync.WaitGroup
	wg.Add(2)

	work := func(self *ThreadContext) {
		for i := 0; i < iterations; i++ {
			lock.Lock(self)
			counter++
			lock.Unlock()
			self.Yield()
		}
		wg.Done()
	}

	Create(rt, ThreadClassDefault, work)
	Create(rt, ThreadClassDefault, work)

	doneCh := make(chan struct{})
	go func() { wg.Wait(); close(doneCh) }()
	select {
	case <-doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("contended threads never finished")
	}
	assert.Equal(t, 2*iterations, counter)
}

func TestSpinLock_DeadlockWarning_ExactWireFormat(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	SetErrorStream(syncWriter{&buf, &mu})
	defer SetErrorStream(nil)

	rt, err := Init(WithCoreRange(1, 2))
	require.NoError(t, err)
	defer rt.ShutDown()

	lock := NewSpinLock("resource")
	holderReady := make(chan struct{})
	release := make(chan struct{})

	Create(rt, ThreadClassDefault, func(self *ThreadContext) {
		lock.Lock(self)
		close(holderReady)
		<-release
		lock.Unlock()
	})

	<-holderReady
	contenderDone := make(chan struct{})
	Create(rt, ThreadClassDefault, func(self *ThreadContext) {
		lock.Lock(self)
		lock.Unlock()
		close(contenderDone)
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return strings.Contains(buf.String(), "resource SpinLock locked for one second; deadlock?")
	}, 3*time.Second, 10*time.Millisecond)

	close(release)
	<-contenderDone
}

type syncWriter struct {
	buf *bytes.Buffer
	mu  *sync.Mutex
}

func (w syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
