package arachne

import (
	"sync/atomic"
)

// Sentinel values for ThreadContext.wakeupDeadline, per spec.md §3.
const (
	// wakeupRunnable ("0") means the hosted thread is eligible to run
	// immediately.
	wakeupRunnable uint64 = 0
	// wakeupBlocked (all-ones) means a live thread is parked here,
	// waiting for an explicit signal.
	wakeupBlocked uint64 = ^uint64(0)
	// wakeupUnoccupied (all-ones minus one) means no live thread
	// occupies this slot.
	wakeupUnoccupied uint64 = ^uint64(0) - 1
)

// maxSlotsPerCore is the fixed capacity of each core's slot array
// (spec.md §3, "MAX_SLOTS = 56": one bit per slot in the 56-bit
// occupancy mask).
const maxSlotsPerCore = 56

// defaultStackSize is the default per-thread stack budget recorded for
// each slot. See the note on ThreadContext.stackSize for how this
// figure is used given this port's context-switch realization.
const defaultStackSize = 1 << 20 // 1 MiB

// ThreadContext is the per-slot state backing one user thread at a
// time; slots are pre-allocated at Init and reused for the life of the
// runtime, distinguished across reuse by generation.
//
// Realizing spec.md §4.A's swap primitive: the original moves a raw
// stack pointer between a hand-rolled register-save band and a fresh
// target stack. Go does not allow user code to manage a goroutine's
// stack this way — goroutine stacks are grown and relocated by the
// runtime's own scheduler and garbage collector, and are not a resource
// a library can safely swap out from under it. spec.md §9 explicitly
// sanctions the alternative it calls out: "stackful coroutines via
// library primitives", provided the dispatcher contract in §4.D and the
// publication ordering of wakeupDeadline are preserved. This port
// realizes that alternative with exactly one persistent goroutine per
// slot (reused across generations, exactly as the original reuses one
// OS stack across generations) and a pair of unbuffered channels that
// hand control back and forth; see coroutine.go. The goroutine *is* the
// stack; stackSize is retained purely as the configured budget recorded
// on each slot (Stats does not report it), since Go's own stack-growth failure already delivers
// the fatal abort spec.md §7 kind 6 asks for on overflow.
type ThreadContext struct {
	// resumeCh hands control to this slot's goroutine: a send unparks
	// it to continue running from wherever it last yielded/blocked.
	resumeCh chan struct{}
	// parkedCh hands control back to the dispatcher: a send on it is
	// this realization's equivalent of swap "returning" to its caller.
	parkedCh chan struct{}

	stackSize int

	// wakeupDeadline holds a cycle-counter value, or one of
	// wakeupRunnable/wakeupBlocked/wakeupUnoccupied. Written with
	// release semantics by signal/create (from any core) and by this
	// slot's own core when parking; read with acquire semantics by the
	// dispatcher.
	wakeupDeadline atomic.Uint64

	// generation increments exactly once per completed thread hosted in
	// this slot (spec.md §3 invariant).
	generation atomic.Uint32

	idInCore int
	coreID   int
	class    atomic.Uint32 // ThreadClass of the currently hosted thread

	// parking guards against a thread trying to park twice concurrently,
	// this realization's detector for spec.md §4.D's forbidden nested
	// dispatch.
	parking atomic.Bool

	// joinLock/joinCV implement §4.G.5: a joiner waits on joinCV while
	// holding joinLock; the trampoline notifies under joinLock just
	// before clearing the occupancy bit.
	joinLock *SpinLock
	joinCV   *Condition

	// invocation is the inline, cache-line-sized buffer for the
	// currently hosted thread's entry point and arguments.
	invocation invocationSlot

	rt *Runtime
}

func newThreadContext(rt *Runtime, coreID, idInCore, stackSize int) *ThreadContext {
	c := &ThreadContext{
		resumeCh:  make(chan struct{}),
		parkedCh:  make(chan struct{}),
		stackSize: stackSize,
		coreID:    coreID,
		idInCore:  idInCore,
		rt:        rt,
	}
	c.joinLock = &SpinLock{name: "join"}
	c.joinCV = NewCondition()
	c.wakeupDeadline.Store(wakeupUnoccupied)
	go c.trampolineLoop()
	return c
}
