package scheduler

// Queue is a manual scheduler: callbacks run only when Flush is called, in
// the order they were scheduled. It is meant for tests and for hosts that
// drive frames themselves.
//
// Queue is NOT thread-safe.
type Queue struct {
	pending []*task
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) ScheduleCallback(fn func()) Handle {
	t := &task{fn: fn}
	q.pending = append(q.pending, t)
	return t
}

func (q *Queue) CancelCallback(h Handle) {
	if t, ok := h.(*task); ok && t != nil {
		t.cancelled = true
	}
}

// Len returns the number of callbacks waiting to run, cancelled ones excluded.
func (q *Queue) Len() int {
	n := 0
	for _, t := range q.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Flush runs pending callbacks until none are left, including callbacks
// scheduled by the ones running. It returns how many callbacks ran.
func (q *Queue) Flush() int {
	ran := 0
	for len(q.pending) > 0 {
		batch := q.pending
		q.pending = nil
		for _, t := range batch {
			if t.cancelled {
				continue
			}
			t.cancelled = true
			t.fn()
			ran++
		}
	}
	return ran
}

// RunNext runs the oldest pending callback and reports whether one ran.
func (q *Queue) RunNext() bool {
	for len(q.pending) > 0 {
		t := q.pending[0]
		q.pending = q.pending[1:]
		if t.cancelled {
			continue
		}
		t.cancelled = true
		t.fn()
		return true
	}
	return false
}
