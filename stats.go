package arachne

// PerfStats exposes per-core runtime counters for observability, a
// supplemented feature of this port (original_source tracks similar
// per-core perf counters internally but never exposes them through the
// public API; spec.md's distillation dropped them entirely).
type PerfStats struct {
	rt *Runtime
}

// CoreSnapshot is one core's counters at the moment Snapshot was called.
type CoreSnapshot struct {
	CoreID               int
	State                string
	OccupiedSlots        int
	IdleCycles           uint64
	TotalCycles          uint64
	WeightedLoadedCycles uint64
}

// Snapshot returns a point-in-time reading of every currently held
// core's counters.
func (p *PerfStats) Snapshot() []CoreSnapshot {
	out := make([]CoreSnapshot, 0, len(p.rt.cores))
	for _, c := range p.rt.cores {
		out = append(out, CoreSnapshot{
			CoreID:               c.id,
			State:                c.getState().String(),
			OccupiedSlots:        c.mask.load().numOccupied(),
			IdleCycles:           c.idleCycles.Load(),
			TotalCycles:          c.totalCycles.Load(),
			WeightedLoadedCycles: c.weightedLoadedCycles.Load(),
		})
	}
	return out
}
