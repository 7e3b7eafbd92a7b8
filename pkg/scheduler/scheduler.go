// Package scheduler provides the "schedule a callback / cancel a callback"
// capability the hook host uses to decide when renders run.
//
// Handles are opaque. Implementations make no ordering promise beyond what
// they document.
package scheduler

// Handle identifies a scheduled callback.
type Handle interface {
	handle()
}

// Scheduler schedules and cancels callbacks.
type Scheduler interface {
	// ScheduleCallback arranges for fn to run later and returns its handle.
	ScheduleCallback(fn func()) Handle
	// CancelCallback prevents a callback that has not started from running.
	// Cancelling an unknown, finished or nil handle is a no-op.
	CancelCallback(h Handle)
}

type task struct {
	fn        func()
	cancelled bool
}

func (*task) handle() {}
