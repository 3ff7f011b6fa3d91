package arachne

// Arbiter is the external collaborator spec.md §6 describes: something
// outside this package that owns the decision of which physical cores
// this process may use at any moment. The runtime calls RequestCores/
// ReleaseCore outward; the arbiter calls back into CoreAvailable/
// CoreUnavailableRequest as its own decisions change. Implementing a
// real multi-process arbiter is out of scope (spec.md Non-goals); this
// package only defines the boundary and ships a trivial fixed
// implementation for single-process use.
type Arbiter interface {
	// RequestCores asks the arbiter for up to n additional cores. The
	// arbiter calls back into CoreAvailable asynchronously (from any
	// goroutine) for each core it grants, zero or more times.
	RequestCores(n int)
	// ReleaseCore tells the arbiter this process no longer needs the
	// given core id; the arbiter may reassign it elsewhere.
	ReleaseCore(coreID int)
}

// arbiterConnector is an optional interface a caller-supplied Arbiter
// (given via WithArbiter) may implement to fail Init with
// ErrArbiterUnavailable (spec.md §7 kind 3, "connection refused")
// instead of succeeding against an arbiter that isn't actually
// reachable yet. fixedArbiter does not implement this: it never fails
// to grant the cores it was constructed with.
type arbiterConnector interface {
	Connect() error
}

// ArbiterCallbacks is implemented by the Runtime and driven by an
// Arbiter as its own allocation decisions change.
type ArbiterCallbacks interface {
	// CoreAvailable grants coreID to this process.
	CoreAvailable(coreID int)
	// CoreUnavailableRequest asks this process to begin draining
	// coreID and return it; the runtime replies by eventually calling
	// Arbiter.ReleaseCore once drained.
	CoreUnavailableRequest(coreID int)
}

// fixedArbiter is the default Arbiter used when Init is not given one:
// it grants exactly the cores named at construction up front and never
// reclaims any, matching a single-process deployment that owns its
// cores outright (spec.md §6 "a deployment with no arbiter may treat
// all configured cores as permanently granted").
type fixedArbiter struct {
	coreIDs  []int
	callback ArbiterCallbacks
}

func newFixedArbiter(coreIDs []int) *fixedArbiter {
	return &fixedArbiter{coreIDs: coreIDs}
}

func (a *fixedArbiter) bind(cb ArbiterCallbacks) {
	a.callback = cb
	for _, id := range a.coreIDs {
		cb.CoreAvailable(id)
	}
}

func (a *fixedArbiter) RequestCores(n int) {}

func (a *fixedArbiter) ReleaseCore(coreID int) {}
