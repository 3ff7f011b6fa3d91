package arachne

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runtime owns a set of cores and every thread hosted on them. Grounded
// on eventloop/loop.go's Loop: a long-lived object constructed once via
// a functional-options constructor, started, and torn down explicitly.
type Runtime struct {
	cfg      *config
	cores    []*core
	policy   CorePolicy
	manager  *CoreManager
	estimator *CoreLoadEstimator
	arbiter  Arbiter
	rng      *xorshiftRNG
	stats    *PerfStats

	group  *errgroup.Group
	stopCh chan struct{}

	mu      sync.Mutex
	running bool
}

// Init constructs and starts a Runtime: it allocates config.MaxCores
// worth of cores (bounded in practice by whatever the Arbiter grants),
// starts each core's dispatcher goroutine, and starts the load
// estimator's sampling loop (spec.md §4.J).
func Init(opts ...Option) (*Runtime, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		cfg:    cfg,
		group:  &errgroup.Group{},
		stopCh: make(chan struct{}),
	}
	rt.rng = newXorshiftRNG(cfg.randSeed)
	rt.stats = &PerfStats{rt: rt}
	rt.manager = newCoreManager(rt)
	if cfg.policy != nil {
		rt.policy = cfg.policy
	} else {
		rt.policy = newDefaultCorePolicy(rt)
	}
	rt.estimator = newCoreLoadEstimator(rt, cfg.estimatorStrategy, cfg.estimatorPeriod)

	coreIDs := make([]int, cfg.maxCores)
	for i := range coreIDs {
		coreIDs[i] = i
	}
	rt.cores = make([]*core, len(coreIDs))
	for i := range coreIDs {
		c := newCore(rt, i)
		c.setState(coreShared)
		rt.cores[i] = c
	}

	if cfg.arbiter != nil {
		rt.arbiter = cfg.arbiter
	} else {
		rt.arbiter = newFixedArbiter(coreIDs)
	}
	if connector, ok := rt.arbiter.(arbiterConnector); ok {
		if err := connector.Connect(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrArbiterUnavailable, err)
		}
	}
	if fa, ok := rt.arbiter.(*fixedArbiter); ok {
		fa.bind(runtimeArbiterCallbacks{rt})
	}

	for _, c := range rt.cores {
		c := c
		for j := range c.slots {
			c.slots[j] = newThreadContext(rt, c.id, j, cfg.stackSize)
		}
		rt.group.Go(func() error {
			c.run()
			return nil
		})
	}

	rt.group.Go(func() error {
		rt.runEstimatorLoop()
		return nil
	})

	rt.mu.Lock()
	rt.running = true
	rt.mu.Unlock()

	return rt, nil
}

// runtimeArbiterCallbacks adapts *Runtime to ArbiterCallbacks without
// exporting mutation methods on Runtime itself.
type runtimeArbiterCallbacks struct{ rt *Runtime }

func (r runtimeArbiterCallbacks) CoreAvailable(coreID int) {
	if c, err := r.rt.coreByID(coreID); err == nil {
		c.setState(coreShared)
	}
}

func (r runtimeArbiterCallbacks) CoreUnavailableRequest(coreID int) {
	go r.rt.manager.Drain(coreID)
}

func (rt *Runtime) runEstimatorLoop() {
	ticker := time.NewTicker(rt.cfg.estimatorPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-rt.stopCh:
			return
		case <-ticker.C:
			recommendation := rt.estimator.recommend()
			if recommendation == RecommendAddCore {
				rt.reclaimIdleExclusiveCore()
			}
			switch recommendation {
			case RecommendAddCore:
				rt.arbiter.RequestCores(1)
			case RecommendRemoveCore:
				// A conservative policy: never request releasing the
				// last core, and never release a core with an
				// in-flight CreateOnCore bound to it exclusively.
				if c := rt.pickDrainCandidate(); c != nil {
					rt.arbiter.ReleaseCore(c.id)
				}
			}
		}
	}
}

// reclaimIdleExclusiveCore implements spec.md §4.H's "EXCLUSIVE →
// SHARED: the exclusive thread exited ... and the estimator wants more
// shared capacity" by converting the first empty EXCLUSIVE core back
// to SHARED whenever the estimator recommends adding capacity.
func (rt *Runtime) reclaimIdleExclusiveCore() {
	for _, c := range rt.cores {
		if c.getState() == coreExclusive && c.mask.load().numOccupied() == 0 {
			_ = rt.manager.MakeShared(c.id)
			return
		}
	}
}

func (rt *Runtime) pickDrainCandidate() *core {
	if len(rt.cores) <= rt.cfg.minCores {
		return nil
	}
	for _, c := range rt.cores {
		if c.getState() == coreShared && c.mask.load().numOccupied() == 0 {
			return c
		}
	}
	return nil
}

// isRunning reports whether ShutDown has not yet been called.
func (rt *Runtime) isRunning() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.running
}

func (rt *Runtime) coreByID(id int) (*core, error) {
	if id < 0 || id >= len(rt.cores) {
		return nil, ErrInvalidCore
	}
	return rt.cores[id], nil
}

// ArbiterCallbacks returns the callback interface a custom Arbiter
// (anything other than the built-in fixedArbiter) should drive as its
// own core-allocation decisions change.
func (rt *Runtime) ArbiterCallbacks() ArbiterCallbacks {
	return runtimeArbiterCallbacks{rt}
}

// Stats returns the Runtime's PerfStats accessor.
func (rt *Runtime) Stats() *PerfStats { return rt.stats }

// ShutDown asks every core's dispatcher to exit once drained and stops
// the load estimator loop. It does not forcibly terminate threads still
// running; callers that need a hard deadline should Join or otherwise
// wait on their own threads before calling ShutDown.
func (rt *Runtime) ShutDown() {
	rt.mu.Lock()
	if !rt.running {
		rt.mu.Unlock()
		return
	}
	rt.running = false
	rt.mu.Unlock()

	close(rt.stopCh)
	for _, c := range rt.cores {
		c.releaseRequested.Store(true)
	}
}

// WaitForTermination blocks until every core's dispatcher goroutine and
// the estimator loop have exited. Grounded on the pack's use of
// golang.org/x/sync/errgroup to fan out and join a fixed set of
// goroutines (aktau-perflock, eventloop's internal worker patterns).
func (rt *Runtime) WaitForTermination() error {
	return rt.group.Wait()
}
