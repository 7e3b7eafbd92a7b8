package hooks

import (
	"context"

	"github.com/google/uuid"

	"github.com/go-drift/hookscope/pkg/config"
	"github.com/go-drift/hookscope/pkg/observability"
)

// Instance owns the hook state of one mounted component: its root slot
// sequence and, through it, every nested and named scope.
//
// Instance is NOT thread-safe. Renders and state updates must happen on the
// goroutine that drives rendering; use a scheduler.Loop to marshal updates
// from elsewhere.
type Instance struct {
	id            uuid.UUID
	name          string
	root          *slotSequence
	attempt       *attempt
	maxRestarts   int
	observer      observability.Observer
	onNeedsRender func()
	disposed      bool
	commits       int
}

// Option configures an Instance.
type Option func(*Instance)

// WithMaxRestarts sets how many render-phase restarts one render request may
// perform before failing with a divergence error.
func WithMaxRestarts(n int) Option {
	return func(i *Instance) {
		if n >= 0 {
			i.maxRestarts = n
		}
	}
}

// WithConfig applies the render section of a loaded configuration, including
// a max_restarts of 0. Build configurations with config.Default or
// config.Parse so unset fields carry their defaults.
func WithConfig(cfg *config.Config) Option {
	return func(i *Instance) {
		if cfg != nil && cfg.Render.MaxRestarts >= 0 {
			i.maxRestarts = cfg.Render.MaxRestarts
		}
	}
}

// WithObserver routes render events to obs.
func WithObserver(obs observability.Observer) Option {
	return func(i *Instance) {
		if obs != nil {
			i.observer = obs
		}
	}
}

// WithOnNeedsRender registers the callback invoked when a state update is
// issued outside of a render. Hosts use it to schedule the next render.
func WithOnNeedsRender(fn func()) Option {
	return func(i *Instance) {
		i.onNeedsRender = fn
	}
}

// NewInstance creates the hook storage for one component.
func NewInstance(name string, opts ...Option) *Instance {
	inst := &Instance{
		id:          uuid.Must(uuid.NewV7()),
		name:        name,
		root:        newSequence(nil, "root"),
		maxRestarts: config.DefaultMaxRestarts,
		observer:    observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ID returns the instance's unique id.
func (i *Instance) ID() uuid.UUID { return i.id }

// Name returns the component name given at creation.
func (i *Instance) Name() string { return i.name }

// Label returns "name#shortid", used in errors and events.
func (i *Instance) Label() string {
	return i.name + "#" + i.id.String()[24:]
}

// Rendering reports whether a render attempt is active.
func (i *Instance) Rendering() bool { return i.attempt != nil }

// Commits returns how many renders have committed.
func (i *Instance) Commits() int { return i.commits }

// SetOnNeedsRender replaces the callback registered with WithOnNeedsRender.
func (i *Instance) SetOnNeedsRender(fn func()) {
	i.onNeedsRender = fn
}

// Dispose releases all hook state. Setters handed out earlier become no-ops
// and further renders fail with errors.ErrInstanceDisposed.
func (i *Instance) Dispose() {
	if i.disposed {
		return
	}
	i.disposed = true
	i.root.release()
	i.onNeedsRender = nil
}

// IsDisposed returns true if the instance has been disposed.
func (i *Instance) IsDisposed() bool { return i.disposed }

func (i *Instance) needsRender() {
	if i.onNeedsRender != nil {
		i.onNeedsRender()
	}
}

func (i *Instance) emit(t observability.EventType, level observability.Level, data map[string]any) {
	if data == nil {
		data = make(map[string]any, 1)
	}
	data["instance"] = i.Label()
	observability.Emit(context.Background(), i.observer, observability.Event{
		Type:   t,
		Level:  level,
		Source: "hooks",
		Data:   data,
	})
}
