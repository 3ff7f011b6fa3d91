package arachne

// CorePolicy decides which cores are eligible to host a newly created
// thread of a given class. Separating this decision from the
// mechanics of reserving a slot (CoreManager) is a supplemented
// feature of this port: the original's ArachnePrivate.h hard-codes a
// single SHARED/EXCLUSIVE scheme inline; this port lifts it to an
// interface so embedders can implement topology- or tenancy-aware
// placement without touching the dispatcher.
type CorePolicy interface {
	// EligibleCores returns the indices of cores a thread of the given
	// class may be placed on. The returned slice must be non-empty for
	// any class Create will be asked to place; an empty result is
	// treated as "no eligible cores" and Create returns NullThread.
	// CreateOnCore does not consult the policy.
	EligibleCores(class ThreadClass) []int
}

// DefaultCorePolicy implements the original's SHARED/EXCLUSIVE scheme:
// class ThreadClassDefault may run on any SHARED core; class
// ThreadClassExclusive may only be placed via CreateOnCore (never by
// two-choice Create), so EligibleCores returns nil for it here.
type DefaultCorePolicy struct {
	rt *Runtime
}

func newDefaultCorePolicy(rt *Runtime) *DefaultCorePolicy {
	return &DefaultCorePolicy{rt: rt}
}

func (p *DefaultCorePolicy) EligibleCores(class ThreadClass) []int {
	if class != ThreadClassDefault {
		return nil
	}
	out := make([]int, 0, len(p.rt.cores))
	for _, c := range p.rt.cores {
		if c.getState() == coreShared {
			out = append(out, c.id)
		}
	}
	return out
}

// pickTwoChoice implements spec.md §4.F: sample two distinct eligible
// cores uniformly at random and prefer whichever currently hosts fewer
// occupied slots, breaking ties toward the first sample. If fewer than
// two cores are eligible, the lone eligible core (or -1) is returned
// without sampling.
func pickTwoChoice(rng *xorshiftRNG, eligible []int, cores []*core) int {
	switch len(eligible) {
	case 0:
		return -1
	case 1:
		return eligible[0]
	}
	// Sample two distinct indices into eligible, not two distinct core
	// ids: eligible need not be the contiguous sequence 0..N-1 (a core
	// mid-range may be EXCLUSIVE and absent from it), so the usual
	// "bump past the first pick" trick must operate on indices.
	ia := rng.intn(len(eligible))
	ib := rng.intn(len(eligible) - 1)
	if ib >= ia {
		ib++
	}
	a, b := eligible[ia], eligible[ib]
	if cores[b].mask.load().numOccupied() < cores[a].mask.load().numOccupied() {
		return b
	}
	return a
}
