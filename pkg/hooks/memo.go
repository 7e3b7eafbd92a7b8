package hooks

import (
	"math"
	"reflect"
	"slices"
)

type memoRecord[T any] struct {
	seq      *slotSequence
	deps     []any
	value    T
	hasValue bool

	staged   bool
	wipDeps  []any
	wipValue T
}

func (*memoRecord[T]) describe() string { return "UseMemo[" + typeName[T]() + "]" }

func (r *memoRecord[T]) current() ([]any, T, bool) {
	if r.staged {
		return r.wipDeps, r.wipValue, true
	}
	return r.deps, r.value, r.hasValue
}

func (r *memoRecord[T]) commit() {
	r.deps, r.value, r.hasValue = r.wipDeps, r.wipValue, true
	r.discard()
}

func (r *memoRecord[T]) restart(scope *slotSequence) bool {
	if r.seq == scope || !r.seq.within(scope) {
		return true
	}
	r.discard()
	return false
}

func (r *memoRecord[T]) discard() {
	var zero T
	r.staged = false
	r.wipDeps = nil
	r.wipValue = zero
}

// UseMemo returns the cached result of compute, recomputing it only when
// deps differ from the previous render. A nil deps slice recomputes on every
// render; an empty one computes once.
//
// Only the declared deps are compared: values captured by compute from
// elsewhere do not invalidate the cache.
func UseMemo[T any](rc *RenderContext, compute func() T, deps []any) T {
	rec := nextSlot(rc, "UseMemo", func(seq *slotSequence) *memoRecord[T] {
		return &memoRecord[T]{seq: seq}
	})
	prevDeps, prev, ok := rec.current()
	if ok && deps != nil && depsEqual(prevDeps, deps) {
		return prev
	}
	v := compute()
	rec.wipDeps = slices.Clone(deps)
	rec.wipValue = v
	rc.attempt.stage(rec, &rec.staged)
	return v
}

// Deps builds a dependency list.
func Deps(values ...any) []any {
	if values == nil {
		return []any{}
	}
	return values
}

// depsEqual compares two dependency lists element by element with ==, except
// that NaN equals NaN. Values whose dynamic type cannot be compared always
// count as changed.
func depsEqual(prev, next []any) bool {
	if prev == nil || len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !sameValue(prev[i], next[i]) {
			return false
		}
	}
	return true
}

func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	if va.CanFloat() && math.IsNaN(va.Float()) && math.IsNaN(vb.Float()) {
		return true
	}
	return a == b
}
