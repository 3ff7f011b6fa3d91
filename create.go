package arachne

// CreateArgs reserves a slot on whichever SHARED core two-choice
// placement selects (spec.md §4.F) and publishes fn bound to args as
// its entry point, returning NullThread if no core is eligible or the
// selected core has no free slot (other eligible cores are not tried).
// args is copied into the slot's inline buffer
// without allocating (see invocation.go); fn itself still closes over
// nothing but the type parameter, so the only allocation on this path
// is the small type-erased wrapper closure invocation.go documents.
func CreateArgs[T any](rt *Runtime, class ThreadClass, fn func(self *ThreadContext, args T), args T) ThreadId {
	eligible := rt.policy.EligibleCores(class)
	coreID := pickTwoChoice(rt.rng, eligible, rt.cores)
	if coreID < 0 {
		return NullThread
	}
	return placeOnCore(rt, coreID, class, fn, args)
}

// CreateOnCoreArgs places a thread on a specific core, bypassing
// two-choice placement. This is the only way to create a
// ThreadClassExclusive thread (spec.md §4.H): CorePolicy.EligibleCores
// returns nil for that class precisely to force callers through here.
func CreateOnCoreArgs[T any](rt *Runtime, coreID int, class ThreadClass, fn func(self *ThreadContext, args T), args T) ThreadId {
	return placeOnCore(rt, coreID, class, fn, args)
}

func placeOnCore[T any](rt *Runtime, coreID int, class ThreadClass, fn func(self *ThreadContext, args T), args T) ThreadId {
	c, err := rt.coreByID(coreID)
	if err != nil {
		return NullThread
	}
	c.schedLock.lock()
	i, ok := c.mask.reserveFirstFree()
	if !ok {
		c.schedLock.unlock()
		return NullThread
	}
	slot := c.slots[i]
	if slot == nil {
		slot = newThreadContext(rt, coreID, i, rt.cfg.stackSize)
		c.slots[i] = slot
	}
	c.schedLock.unlock()

	slot.class.Store(uint32(class))
	bindInvocation(&slot.invocation, fn, args)
	// Publish last, with release-store semantics: the dispatcher on
	// any core only ever observes a runnable bit alongside a fully
	// published invocation because reserveFirstFree's CAS already
	// happened-before this store in program order on this goroutine,
	// and the dispatcher's load of wakeupDeadline is what synchronizes
	// with it (spec.md §4.E).
	slot.wakeupDeadline.Store(wakeupRunnable)
	return ThreadId{ctx: slot, gen: slot.generation.Load()}
}

// Create is the common-case convenience over CreateArgs for a thread
// that needs no separately-bound arguments (the callback closes over
// whatever it needs directly).
func Create(rt *Runtime, class ThreadClass, fn func(self *ThreadContext)) ThreadId {
	return CreateArgs(rt, class, func(self *ThreadContext, _ struct{}) { fn(self) }, struct{}{})
}

// CreateOnCore is the common-case convenience over CreateOnCoreArgs.
func CreateOnCore(rt *Runtime, coreID int, class ThreadClass, fn func(self *ThreadContext)) ThreadId {
	return CreateOnCoreArgs(rt, coreID, class, func(self *ThreadContext, _ struct{}) { fn(self) }, struct{}{})
}

// CreateExclusive converts the lowest-index SHARED core to EXCLUSIVE
// (migrating any threads already on it elsewhere first) and places fn
// there as its sole occupant (spec.md "SHARED → EXCLUSIVE"). It
// returns NullThread if no SHARED core is available to convert.
func CreateExclusive(rt *Runtime, fn func(self *ThreadContext)) ThreadId {
	target := -1
	for _, c := range rt.cores {
		if c.getState() == coreShared {
			target = c.id
			break
		}
	}
	if target < 0 {
		return NullThread
	}
	if err := rt.manager.MakeExclusive(target); err != nil {
		return NullThread
	}
	return CreateOnCore(rt, target, ThreadClassExclusive, fn)
}
