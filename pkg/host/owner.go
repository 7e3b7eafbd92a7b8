// Package host is a minimal renderer for hook components. It keeps one
// hooks.Instance per mounted component, records each component's latest
// output, and batches renders through a scheduler the same way a UI
// framework batches dirty elements into a frame.
package host

import (
	"context"
	"os"
	"slices"

	"github.com/go-drift/hookscope/pkg/config"
	"github.com/go-drift/hookscope/pkg/hooks"
	"github.com/go-drift/hookscope/pkg/observability"
	"github.com/go-drift/hookscope/pkg/scheduler"
)

// Owner tracks mounted components and the ones that need rendering.
//
// Owner is NOT thread-safe. Use a scheduler.Loop and schedule work onto it
// when updates originate on other goroutines.
type Owner struct {
	sched    scheduler.Scheduler
	observer observability.Observer
	cfg      *config.Config

	elements []*Element
	dirty    []*Element
	dirtySet map[*Element]bool
	pending  scheduler.Handle
	flushing bool
	nextID   int
}

// Option configures an Owner.
type Option func(*Owner)

// WithObserver routes host and render events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(o *Owner) {
		o.observer = obs
	}
}

// WithConfig applies a loaded configuration. Unless an observer is given,
// events are logged to stderr at the configured level.
func WithConfig(cfg *config.Config) Option {
	return func(o *Owner) {
		o.cfg = cfg
	}
}

// NewOwner creates an owner that schedules flushes on sched.
func NewOwner(sched scheduler.Scheduler, opts ...Option) *Owner {
	o := &Owner{
		sched:    sched,
		dirtySet: make(map[*Element]bool),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = config.Default()
	}
	if o.observer == nil {
		o.observer = observability.NewSlogObserver(o.cfg.NewLogger(os.Stderr))
	}
	return o
}

// ScheduleBuild marks an element as needing a render and makes sure a flush
// is scheduled.
func (o *Owner) ScheduleBuild(e *Element) {
	if !e.mounted {
		return
	}
	if !o.dirtySet[e] {
		o.dirtySet[e] = true
		o.dirty = append(o.dirty, e)
		observability.Emit(context.Background(), o.observer, observability.Event{
			Type:   observability.EventRenderScheduled,
			Level:  observability.LevelVerbose,
			Source: "host",
			Data:   map[string]any{"instance": e.inst.Label()},
		})
	}
	if o.pending == nil && !o.flushing {
		o.pending = o.sched.ScheduleCallback(o.flushScheduled)
	}
}

func (o *Owner) flushScheduled() {
	o.pending = nil
	o.FlushBuild()
}

// NeedsWork returns true if there are dirty elements.
func (o *Owner) NeedsWork() bool {
	return len(o.dirty) > 0
}

// Pending reports whether a flush is scheduled.
func (o *Owner) Pending() bool {
	return o.pending != nil
}

// Cancel withdraws the scheduled flush. Dirty elements stay dirty and no hook
// state is touched; the next ScheduleBuild or FlushBuild picks them up.
func (o *Owner) Cancel() {
	if o.pending != nil {
		o.sched.CancelCallback(o.pending)
		o.pending = nil
	}
}

// FlushBuild renders all dirty elements in mount order, repeating until no
// element is dirty.
func (o *Owner) FlushBuild() {
	o.Cancel()
	o.flushing = true
	defer func() { o.flushing = false }()

	for len(o.dirty) > 0 {
		slices.SortFunc(o.dirty, func(a, b *Element) int {
			return a.id - b.id
		})
		dirty := o.dirty
		o.dirty = nil
		clear(o.dirtySet)

		for _, e := range dirty {
			if !e.mounted {
				continue
			}
			e.rebuild()
		}
	}
}

// Children returns the latest committed output of every mounted component in
// mount order.
func (o *Owner) Children() []any {
	out := make([]any, 0, len(o.elements))
	for _, e := range o.elements {
		if e.output != nil {
			out = append(out, e.output)
		}
	}
	return out
}

// Elements returns the mounted elements in mount order.
func (o *Owner) Elements() []*Element {
	return slices.Clone(o.elements)
}

func (o *Owner) instanceOptions(e *Element) []hooks.Option {
	return []hooks.Option{
		hooks.WithConfig(o.cfg),
		hooks.WithObserver(o.observer),
		hooks.WithOnNeedsRender(func() { o.ScheduleBuild(e) }),
	}
}

func (o *Owner) remove(e *Element) {
	o.elements = slices.DeleteFunc(o.elements, func(x *Element) bool { return x == e })
	if o.dirtySet[e] {
		delete(o.dirtySet, e)
		o.dirty = slices.DeleteFunc(o.dirty, func(x *Element) bool { return x == e })
	}
}
