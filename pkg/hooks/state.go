package hooks

// Setter updates one state slot. Its identity is stable across renders, so
// it can be captured by closures created on the first render.
//
// Updates issued while the owning instance is rendering restart the scope
// that owns the state; updates issued at any other time are queued and the
// instance's OnNeedsRender callback is invoked. Queued updates are applied in
// issuance order the next time the state is read.
type Setter[T any] struct {
	rec *stateRecord[T]
}

// Set replaces the value.
func (s *Setter[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update applies a transformation to the latest value.
func (s *Setter[T]) Update(fn func(T) T) {
	r := s.rec
	inst := r.inst
	if r.released || inst.disposed || fn == nil {
		return
	}
	if a := inst.attempt; a != nil {
		if r.phaseBase < 0 {
			r.phaseBase = len(r.queue)
		}
		a.stage(r, &r.staged)
		r.queue = append(r.queue, fn)
		r.targets = append(r.targets, a.requestReplay(r.seq))
		return
	}
	r.queue = append(r.queue, fn)
	inst.needsRender()
}

type stateRecord[T any] struct {
	inst   *Instance
	seq    *slotSequence
	setter *Setter[T]

	value T
	queue []func(T) T

	// Work in progress for the current attempt.
	staged    bool
	read      bool
	wip       T
	applied   int
	phaseBase int
	// targets holds the scope replayed by each update queued since phaseBase.
	targets []*slotSequence

	released bool
}

func (*stateRecord[T]) describe() string { return "UseState[" + typeName[T]() + "]" }

func (r *stateRecord[T]) resolve(a *attempt) T {
	v := r.value
	for _, fn := range r.queue {
		v = fn(v)
	}
	r.wip = v
	r.applied = len(r.queue)
	r.read = true
	a.stage(r, &r.staged)
	return v
}

func (r *stateRecord[T]) commit() {
	if r.read {
		r.value = r.wip
		r.queue = append([]func(T) T(nil), r.queue[r.applied:]...)
	}
	r.reset()
	// Render-phase updates to state this pass never read are still pending.
	if len(r.queue) > 0 && !r.released {
		r.inst.needsRender()
	}
}

func (r *stateRecord[T]) discard() {
	if r.phaseBase >= 0 && r.phaseBase <= len(r.queue) {
		clear(r.queue[r.phaseBase:])
		r.queue = r.queue[:r.phaseBase]
	}
	r.reset()
}

func (r *stateRecord[T]) restart(scope *slotSequence) bool {
	if !r.seq.within(scope) {
		return true
	}
	if r.released {
		r.reset()
		return false
	}
	// An update that replayed a nested scope was consumed by the discarded
	// pass. Updates aimed at scope itself, or above it, still apply.
	if r.phaseBase >= 0 && r.phaseBase <= len(r.queue) {
		queue := r.queue[:r.phaseBase]
		targets := r.targets[:0]
		for i, fn := range r.queue[r.phaseBase:] {
			if t := r.targets[i]; t == scope || !t.within(scope) {
				queue = append(queue, fn)
				targets = append(targets, t)
			}
		}
		clear(r.queue[len(queue):])
		clear(r.targets[len(targets):])
		r.queue, r.targets = queue, targets
	}
	if len(r.targets) == 0 {
		r.reset()
		return false
	}
	var zero T
	r.read = false
	r.wip = zero
	r.applied = 0
	return true
}

func (r *stateRecord[T]) reset() {
	var zero T
	r.staged = false
	r.read = false
	r.wip = zero
	r.applied = 0
	r.phaseBase = -1
	clear(r.targets)
	r.targets = r.targets[:0]
}

func (r *stateRecord[T]) release() {
	r.released = true
	r.queue = nil
}

// UseState returns the current value of a state slot and its setter. The
// initial value is used only when the slot is created.
func UseState[T any](rc *RenderContext, initial T) (T, *Setter[T]) {
	return useState(rc, "UseState", func() T { return initial })
}

// UseStateFunc is UseState with a lazily computed initial value.
func UseStateFunc[T any](rc *RenderContext, init func() T) (T, *Setter[T]) {
	return useState(rc, "UseStateFunc", init)
}

func useState[T any](rc *RenderContext, hook string, init func() T) (T, *Setter[T]) {
	rec := nextSlot(rc, hook, func(seq *slotSequence) *stateRecord[T] {
		r := &stateRecord[T]{inst: rc.inst, seq: seq, value: init(), phaseBase: -1}
		r.setter = &Setter[T]{rec: r}
		return r
	})
	return rec.resolve(rc.attempt), rec.setter
}
