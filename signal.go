package arachne

// Signal makes the thread identified by id eligible to run immediately
// (spec.md §4.G.2). If id's slot has since been reused by a later
// generation (or vacated), Signal is a silent no-op: stale ThreadIds
// are expected whenever a caller races a thread's own exit, and the
// generation check in ThreadId.finished is what makes that race safe.
func Signal(id ThreadId) {
	if id.IsNull() || id.finished() {
		return
	}
	id.ctx.wakeupDeadline.Store(wakeupRunnable)
}
