package hooks

import "slices"

// Ref is a mutable box whose identity is stable across renders. Writes to
// Current take effect immediately and are never rolled back.
type Ref[T any] struct {
	Current T
}

// NewRef creates a ref outside of any render, e.g. for a host to pass into a
// component that binds an imperative handle.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{Current: initial}
}

type refRecord[T any] struct {
	ref *Ref[T]
}

func (*refRecord[T]) describe() string { return "UseRef[" + typeName[T]() + "]" }

// UseRef returns the ref stored in this slot, creating it with initial on the
// first render.
func UseRef[T any](rc *RenderContext, initial T) *Ref[T] {
	rec := nextSlot(rc, "UseRef", func(*slotSequence) *refRecord[T] {
		return &refRecord[T]{ref: &Ref[T]{Current: initial}}
	})
	return rec.ref
}

type handleRecord[H any] struct {
	target *Ref[H]
	deps   []any
	bound  bool
}

func (*handleRecord[H]) describe() string { return "UseImperativeHandle[" + typeName[H]() + "]" }

// UseImperativeHandle exposes an object built by create through target so
// that code outside the render can call into the component. The handle is
// rebuilt on the first render, whenever deps change, when deps is nil, or when
// a different target is passed. A nil target still occupies the slot but
// nothing is assigned.
func UseImperativeHandle[H any](rc *RenderContext, target *Ref[H], create func() H, deps []any) {
	rec := nextSlot(rc, "UseImperativeHandle", func(*slotSequence) *handleRecord[H] {
		return &handleRecord[H]{}
	})
	if target == nil {
		return
	}
	if rec.bound && rec.target == target && deps != nil && depsEqual(rec.deps, deps) {
		return
	}
	target.Current = create()
	rec.target = target
	rec.deps = slices.Clone(deps)
	rec.bound = true
}
