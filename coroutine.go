package arachne

import "time"

// trampolineLoop is the persistent goroutine backing one slot for the
// life of the runtime, reused across generations exactly as the
// original reuses one OS stack. It realizes spec.md §4.C:
//
//	loop:
//	  park_until_assigned()
//	  invoke(slot.invocation)
//	  wakeup_deadline = UNOCCUPIED
//	  joiners_signal_and_clear()
//	  generation += 1
//	  clear_occupancy_bit()
//
// "park_until_assigned" and the post-swap "set BLOCKED" step (spec.md
// §4.D) are the same operation here: blocking on resumeCh until this
// core's dispatcher hands control to this slot.
func (ctx *ThreadContext) trampolineLoop() {
	for {
		<-ctx.resumeCh
		ctx.wakeupDeadline.Store(wakeupBlocked)

		ctx.invocation.run(ctx)

		ctx.wakeupDeadline.Store(wakeupUnoccupied)
		ctx.joinLock.Lock(ctx)
		ctx.joinCV.NotifyAll()
		ctx.joinLock.Unlock()
		ctx.generation.Add(1)

		ctx.core().mask.clearBit(ctx.idInCore)

		// Hand control back to the dispatcher: this realization's
		// equivalent of swap "returning" once the hosted thread's
		// generation has fully completed.
		ctx.parkedCh <- struct{}{}
	}
}

// park is this slot's side of a cooperative suspend: record the
// deadline at which this thread becomes eligible to run again, hand
// control back to the core's dispatcher, and block until some future
// scan resumes this slot (spec.md §4.A swap, as realized by this port;
// see the doc comment on ThreadContext).
func (ctx *ThreadContext) park(deadline uint64) {
	if !ctx.parking.CompareAndSwap(false, true) {
		fatal("nested dispatch: thread attempted to park while already parking", "core", ctx.coreID, "slot", ctx.idInCore)
	}
	ctx.wakeupDeadline.Store(deadline)
	ctx.parkedCh <- struct{}{}
	<-ctx.resumeCh
	ctx.wakeupDeadline.Store(wakeupBlocked)
	ctx.parking.Store(false)
}

func (ctx *ThreadContext) core() *core {
	return ctx.rt.cores[ctx.coreID]
}

// ThreadId returns the identity of the thread currently hosted by ctx.
func (ctx *ThreadContext) ThreadId() ThreadId {
	return ThreadId{ctx: ctx, gen: ctx.generation.Load()}
}

// Yield cooperatively relinquishes the core, per spec.md §4.G.1: the
// calling thread becomes immediately runnable again but lets any other
// runnable thread on this core go first.
func (ctx *ThreadContext) Yield() {
	ctx.park(wakeupRunnable)
}

// Block parks the calling thread until an explicit Signal names its
// ThreadId (spec.md §4.G.2).
func (ctx *ThreadContext) Block() {
	ctx.park(wakeupBlocked)
}

// Sleep parks the calling thread until at least d has elapsed
// (spec.md §4.G.7).
func (ctx *ThreadContext) Sleep(d time.Duration) {
	ctx.park(rdtscNow() + nsToCycles(d))
}
