package arachne

import "time"

// drainGracePeriod bounds how long Drain and MakeExclusive (through
// evictOccupants) wait for a core's occupants to finish naturally
// before this port starts actively migrating them elsewhere
// (spec.md §4.H).
const drainGracePeriod = 2 * time.Second

// CoreManager owns core lifecycle transitions: converting a SHARED
// core to EXCLUSIVE (and back), and draining a core down to RELEASED
// so it can be handed back to the Arbiter. Mechanism lives here;
// *which* cores are eligible for *which* thread class is CorePolicy's
// job (spec.md §4.H, and the supplemented CorePolicy split described
// in placement.go).
type CoreManager struct {
	rt *Runtime
	mu runtimeMutex
}

func newCoreManager(rt *Runtime) *CoreManager {
	return &CoreManager{rt: rt}
}

// MakeExclusive converts coreID from SHARED to EXCLUSIVE: it first
// migrates any threads already occupying the core onto another SHARED
// core, then raises its occupancy count to maxSlotsPerCore-1 so exactly
// one more thread (the exclusive one) can be reserved there; two-choice
// placement skips the core because it is no longer SHARED (spec.md §4.H "shared
// to exclusive": "migrates existing threads off it ... then sets its
// num_occupied to MAX_SLOTS-1").
func (m *CoreManager) MakeExclusive(coreID int) error {
	if !m.rt.isRunning() {
		return ErrNotRunning
	}
	m.mu.lock()
	defer m.mu.unlock()
	c, err := m.rt.coreByID(coreID)
	if err != nil {
		return err
	}
	if c.getState() != coreShared {
		return ErrInvalidCore
	}
	m.evictOccupants(c)
	c.setState(coreExclusive)
	c.mask.pinSingleOccupant()
	return nil
}

// MakeShared converts coreID from EXCLUSIVE back to SHARED, making it
// eligible for two-choice placement again.
func (m *CoreManager) MakeShared(coreID int) error {
	if !m.rt.isRunning() {
		return ErrNotRunning
	}
	m.mu.lock()
	defer m.mu.unlock()
	c, err := m.rt.coreByID(coreID)
	if err != nil {
		return err
	}
	if c.getState() != coreExclusive {
		return ErrInvalidCore
	}
	c.setState(coreShared)
	return nil
}

// Drain begins returning coreID to the Arbiter: it stops placing new
// threads there, migrates every thread currently occupying it onto
// another SHARED core, and waits for the dispatcher to exit once
// empty. Migration failures (the target core fills up mid-drain) are
// retried with a warning log rather than abandoned, per this port's
// resolution of spec.md §9's open question on drain fault tolerance
// (see DESIGN.md).
func (m *CoreManager) Drain(coreID int) error {
	if !m.rt.isRunning() {
		return ErrNotRunning
	}
	// Serializing all drains through one lock (rather than per-core)
	// sidesteps any lock-ordering concern between migrateOne's src/dst
	// schedLock pair: only one drain ever migrates threads at a time.
	m.mu.lock()
	defer m.mu.unlock()

	c, err := m.rt.coreByID(coreID)
	if err != nil {
		return err
	}
	c.setState(coreDraining)
	m.evictOccupants(c)

	c.releaseRequested.Store(true)
	<-c.stopped
	c.setState(coreReleased)
	m.rt.arbiter.ReleaseCore(coreID)
	return nil
}

// evictOccupants blocks until c hosts no threads, repeatedly migrating
// whatever it can reach onto another SHARED core. Called with m.mu
// already held.
func (m *CoreManager) evictOccupants(c *core) {
	deadline := time.Now().Add(drainGracePeriod)
	for c.mask.load().numOccupied() > 0 {
		if time.Now().After(deadline) {
			m.migrateOne(c)
		}
		time.Sleep(time.Millisecond)
	}
}

// migrateOne attempts to move one occupant of a draining core onto a
// different SHARED core's free slot. Only a slot currently blocked
// inside park() — ctx.parking true, whatever deadline it parked
// with (BLOCKED, a Sleep wakeup cycle, or Yield's RUNNABLE) — is ever
// migrated; a slot with parking false is either mid-invocation or
// hasn't been handed off yet, either way unsafe to transplant. This is
// guarded by schedLock against a concurrent dispatcher handoff on
// either core. If no destination has room, or every occupied slot on
// src is currently running, it logs a warning and lets the caller
// retry on the next pass rather than failing the drain outright.
func (m *CoreManager) migrateOne(src *core) {
	src.schedLock.lock()
	defer src.schedLock.unlock()

	occ := src.mask.load().occupied()
	var ctx *ThreadContext
	var i int
	for i = 0; i < maxSlotsPerCore; i++ {
		if occ&(uint64(1)<<uint(i)) == 0 {
			continue
		}
		slot := src.slots[i]
		if slot != nil && slot.parking.Load() {
			ctx = slot
			break
		}
	}
	if ctx == nil {
		logger().Warn().Int("core", src.id).Msg("drain migration found no parked slot to move, retrying")
		return
	}

	for _, dst := range m.rt.cores {
		if dst.id == src.id || dst.getState() != coreShared {
			continue
		}
		j, ok := dst.mask.reserveFirstFree()
		if !ok {
			continue
		}
		dst.schedLock.lock()
		dst.slots[j] = ctx
		dst.schedLock.unlock()
		ctx.coreID = dst.id
		ctx.idInCore = j
		src.slots[i] = nil
		src.mask.clearBit(i)
		logger().Warn().Int("from_core", src.id).Int("to_core", dst.id).Int("to_slot", j).Msg("migrated thread off draining core")
		return
	}
	logger().Warn().Int("core", src.id).Msg("drain migration found no eligible destination core, retrying")
}
