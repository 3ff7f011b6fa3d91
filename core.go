package arachne

import (
	"sync/atomic"
)

// coreState is the SHARED/EXCLUSIVE/DRAINING/RELEASED lifecycle state of
// a core, per spec.md §4.H.
type coreState uint32

const (
	coreShared coreState = iota
	coreExclusive
	coreDraining
	coreReleased
)

func (s coreState) String() string {
	switch s {
	case coreShared:
		return "shared"
	case coreExclusive:
		return "exclusive"
	case coreDraining:
		return "draining"
	case coreReleased:
		return "released"
	default:
		return "unknown"
	}
}

// core is the per-kernel-thread record: index into the per-core arrays,
// the slots themselves, the occupancy mask, the currently loaded
// context, the dispatcher's scan cursor, idle/total cycle accumulators
// feeding the load estimator, and the arbiter-driven "release this core"
// flag (spec.md §3 "Core record").
type core struct {
	id   int
	rt   *Runtime
	mask maskAndCount

	slots [maxSlotsPerCore]*ThreadContext

	// current is read/written only by this core's own dispatcher
	// goroutine; it is this port's realization of the "per-core current
	// thread pointer" the spec keeps as thread-local state (spec.md §9).
	current *ThreadContext

	// cursor is the dispatcher's round-robin scan hint (spec.md §4.D).
	cursor int

	// inDispatch is not read or written anywhere; nested dispatch is
	// detected per slot by ThreadContext.parking instead (see park in
	// coroutine.go).
	inDispatch bool

	state atomic.Uint32 // coreState

	// idleCycles/totalCycles/weightedLoadedCycles feed the load
	// estimator (spec.md §4.I). Accumulated by this core's own
	// dispatcher goroutine, read by the estimator from any core.
	idleCycles           atomic.Uint64
	totalCycles          atomic.Uint64
	weightedLoadedCycles atomic.Uint64

	// releaseRequested is set by the core manager to ask this core's
	// dispatcher to exit its loop once drained (spec.md §4.H).
	releaseRequested atomic.Bool

	// schedLock serializes the dispatcher's read of slots/mask against
	// CoreManager's drain-time migration, which reassigns a parked
	// slot's ThreadContext to a different core. It is held only for the
	// instant it takes to pick a candidate or move a pointer, never
	// across a blocking channel operation.
	schedLock runtimeMutex

	// stopped is closed once this core's dispatcher goroutine has
	// exited, for WaitForTermination / drain completion.
	stopped chan struct{}
}

func newCore(rt *Runtime, id int) *core {
	return &core{
		id:      id,
		rt:      rt,
		stopped: make(chan struct{}),
	}
}

func (c *core) occupiedFraction() float64 {
	return float64(c.mask.load().numOccupied()) / float64(maxSlotsPerCore)
}

func (c *core) getState() coreState { return coreState(c.state.Load()) }
func (c *core) setState(s coreState) { c.state.Store(uint32(s)) }
