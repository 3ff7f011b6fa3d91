package arachne

// Join blocks caller until the thread identified by id has completed,
// or returns immediately if it already has (spec.md §4.G.5). Per the
// resolved Open Question on Join's return semantics (see DESIGN.md),
// the error return never distinguishes "already finished" from
// "waited and then finished": both are success. The only error is an
// id that was never valid to begin with.
func Join(caller *ThreadContext, id ThreadId) error {
	if id.IsNull() {
		return ErrInvalidCore
	}
	target := id.ctx
	target.joinLock.Lock(caller)
	for !id.finished() {
		target.joinCV.Wait(caller, target.joinLock)
	}
	target.joinLock.Unlock()
	return nil
}
