package scheduler

import (
	"context"
	"errors"
	"sync"

	hookerrors "github.com/go-drift/hookscope/pkg/errors"
)

var (
	// ErrLoopRunning is returned when Run is called on a loop that is already running.
	ErrLoopRunning = errors.New("scheduler: loop is already running")
	// ErrLoopStopped is returned when Run is called on a loop that has stopped.
	ErrLoopStopped = errors.New("scheduler: loop has stopped")
)

// Loop runs callbacks one at a time on the goroutine that calls Run, in the
// order they were scheduled. ScheduleCallback and CancelCallback are safe to
// call from any goroutine, which makes Loop the way to deliver state updates
// from background work to instances that must only be touched by the render
// goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []*task
	wake    chan struct{}
	running bool
	stopped bool
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

func (l *Loop) ScheduleCallback(fn func()) Handle {
	t := &task{fn: fn}
	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

func (l *Loop) CancelCallback(h Handle) {
	t, ok := h.(*task)
	if !ok || t == nil {
		return
	}
	l.mu.Lock()
	t.cancelled = true
	l.mu.Unlock()
}

// Run processes callbacks until ctx is done. Panics in callbacks are
// recovered and reported to the global error handler. Run returns ctx.Err()
// once cancelled; a stopped loop cannot be restarted.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	switch {
	case l.stopped:
		l.mu.Unlock()
		return ErrLoopStopped
	case l.running:
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.running = false
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
	}()

	for {
		for {
			t := l.next()
			if t == nil {
				break
			}
			l.invoke(t)
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() *task {
	l.mu.Lock()
	defer l.mu.Unlock()
	for len(l.queue) > 0 {
		t := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		if !t.cancelled {
			t.cancelled = true
			return t
		}
	}
	return nil
}

func (l *Loop) invoke(t *task) {
	defer hookerrors.Recover("scheduler.Loop")
	t.fn()
}
