package arachne

import "runtime"

// scanNext implements the scan phase of spec.md §4.D: starting at the
// round-robin cursor, find the first occupied slot whose deadline has
// passed, advance the cursor past it, and return its index. Returns
// (-1, false) if no occupied slot is currently runnable.
func (c *core) scanNext(now uint64) (int, bool) {
	occ := c.mask.load().occupied()
	if occ == 0 {
		return -1, false
	}
	for step := 0; step < maxSlotsPerCore; step++ {
		i := (c.cursor + step) % maxSlotsPerCore
		if occ&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		slot := c.slots[i]
		if slot == nil {
			continue
		}
		if slot.wakeupDeadline.Load() <= now {
			c.cursor = (i + 1) % maxSlotsPerCore
			return i, true
		}
	}
	return -1, false
}

// shouldStop reports whether this core's dispatcher should exit its
// loop: a release has been requested and every slot has drained
// (spec.md §4.H).
func (c *core) shouldStop() bool {
	return c.releaseRequested.Load() && c.mask.load().numOccupied() == 0
}

// run is the per-core dispatcher loop (spec.md §4.D), one persistent
// goroutine pinned to its own OS thread and CPU core. It alternates
// between scanning for runnable slots and handing control to whichever
// slot it finds, blocking until that slot parks again — this port's
// realization of swap(), see the doc comment on ThreadContext. Because
// only this loop ever scans, the "currently loaded slot" fast path the
// original takes to avoid an unnecessary stack swap has no analogue
// worth keeping here: handing control to the same slot twice in a row
// costs two cheap channel operations, not a register-save and a stack
// swap, so this port always performs the full handoff uniformly
// (documented in DESIGN.md as a deliberate simplification).
func (c *core) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := pinToCore(c.id); err != nil {
		logger().Warn().Int("core", c.id).Err(err).Msg("core pinning unavailable")
	}

	idleStreak := uint64(0)
	for {
		c.schedLock.lock()
		if c.shouldStop() {
			c.schedLock.unlock()
			close(c.stopped)
			return
		}

		now := rdtscNow()
		i, ok := c.scanNext(now)
		if !ok {
			c.schedLock.unlock()
			c.idleCycles.Add(1)
			c.totalCycles.Add(1)
			idleStreak++
			if idleStreak%4096 == 0 {
				// Busy-waiting per spec.md §4.D, but yield the OS
				// thread's slice periodically so a dedicated core
				// (the production case, one OS thread per real CPU)
				// still spins true-hot while a test binary sharing
				// GOMAXPROCS across many virtual cores doesn't starve
				// the run queue.
				runtime.Gosched()
			}
			continue
		}
		idleStreak = 0

		target := c.slots[i]
		c.current = target
		c.totalCycles.Add(1)
		c.weightedLoadedCycles.Add(uint64(c.mask.load().numOccupied()))
		c.schedLock.unlock()

		target.resumeCh <- struct{}{}
		<-target.parkedCh
	}
}
