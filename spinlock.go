package arachne

import (
	"sync/atomic"
	"time"
)

// deadlockWatchdog is how long a SpinLock spins before logging the
// contention warning spec.md §8 scenario 5 requires verbatim.
const deadlockWatchdog = time.Second

// SpinLock is a yielding spin lock: a contended Lock cooperatively
// yields the core to other runnable threads between attempts rather
// than burning cycles, and logs a warning if held contended past
// deadlockWatchdog. Grounded on eventloop's FastState CAS-retry style,
// generalized from a state machine to a binary lock with a name for
// diagnostics.
type SpinLock struct {
	name   string
	locked atomic.Bool
}

// NewSpinLock constructs a named SpinLock; the name appears in the
// deadlock warning log.
func NewSpinLock(name string) *SpinLock {
	return &SpinLock{name: name}
}

// Lock acquires the lock, yielding ctx's core between attempts while
// contended. ctx identifies the calling thread for cooperative
// scheduling; it need not be the thread that will eventually hold the
// lock on anyone's behalf.
func (l *SpinLock) Lock(ctx *ThreadContext) {
	start := rdtscNow()
	warned := false
	for !l.locked.CompareAndSwap(false, true) {
		ctx.Yield()
		if !warned && rdtscNow()-start > nsToCycles(deadlockWatchdog) {
			warned = true
			deadlockWarning(l.name)
		}
	}
}

// Unlock releases the lock.
func (l *SpinLock) Unlock() {
	l.locked.Store(false)
}

// TryLock attempts to acquire the lock without blocking.
func (l *SpinLock) TryLock() bool {
	return l.locked.CompareAndSwap(false, true)
}

// runtimeMutex is a non-yielding spin lock for bookkeeping paths that
// run outside any scheduled thread's ThreadContext (e.g. core manager
// state transitions driven by an arbiter callback). It has no
// deadlock watchdog. Most holders (core.schedLock, SleepLock's
// bookkeeping) keep it only for a few field assignments; CoreManager.mu
// is the exception and is held for a whole MakeExclusive or Drain,
// including the wait for the core to empty, so a second caller spins
// for that long.
type runtimeMutex struct {
	locked atomic.Bool
}

func (m *runtimeMutex) lock() {
	for !m.locked.CompareAndSwap(false, true) {
		// Busy-wait: no yielding or sleeping while contended.
	}
}

func (m *runtimeMutex) unlock() {
	m.locked.Store(false)
}
