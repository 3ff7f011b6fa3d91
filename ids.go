package arachne

// ThreadClass distinguishes scheduling classes a thread can be created
// with. 0 is the default (shared, migratable) class; 1 is exclusive
// (owns its core). The type is deliberately extensible: a custom
// CorePolicy may recognize additional classes.
type ThreadClass int

const (
	// ThreadClassDefault threads may run on any core returned by the
	// active CorePolicy for class 0, and may be migrated during drain.
	ThreadClassDefault ThreadClass = 0
	// ThreadClassExclusive threads are the sole occupant of the core
	// they are placed on.
	ThreadClassExclusive ThreadClass = 1
)

// ThreadId identifies a single user thread: a slot plus the generation
// it was created in. Comparing a live ThreadId's generation against its
// slot's current generation distinguishes it from a later thread reusing
// the same slot (spec.md §3 invariant on generation).
type ThreadId struct {
	ctx *ThreadContext
	gen uint32
}

// NullThread is returned by Create/CreateOnCore when no slot could be
// reserved. It is a normal, non-error return value (spec.md §4.E).
var NullThread = ThreadId{}

// IsNull reports whether id is the NullThread sentinel.
func (id ThreadId) IsNull() bool { return id.ctx == nil }

// CoreID returns the core the identified slot lives on, or -1 for
// NullThread.
func (id ThreadId) CoreID() int {
	if id.ctx == nil {
		return -1
	}
	return id.ctx.coreID
}

// Generation returns the generation this ThreadId was created with.
func (id ThreadId) Generation() uint32 { return id.gen }

// finished reports whether the thread identified by id has already
// completed (its slot has moved on to a later generation, or been
// recycled and reused).
func (id ThreadId) finished() bool {
	return id.ctx == nil || id.ctx.generation.Load() != id.gen
}
