package hooks

import "fmt"

// InScope runs fn with its own hook sequence. The sequence is identified by
// the position of this call among the scope calls of the enclosing scope, so
// hooks inside fn keep their state across renders exactly as top-level hooks
// do, independently of how many hooks surround the call.
//
// A render-phase update to state owned by this scope replays only fn, not the
// whole component.
func InScope[T any](rc *RenderContext, fn func() T) T {
	site := nextSite(rc, "InScope", KindScope, func(parent *slotSequence, idx int) *scopeSite {
		return &scopeSite{seq: newSequence(parent, fmt.Sprintf("%s/scope[%d]", parent.path, idx))}
	})
	return runScope(rc, site.seq, fn)
}

// RunInScope is InScope for functions without a result.
func RunInScope(rc *RenderContext, fn func()) {
	InScope(rc, func() struct{} {
		fn()
		return struct{}{}
	})
}

// InConditionalScope runs fn in a nested scope only when cond holds and
// returns the zero value otherwise. While cond is false the nested state is
// left untouched, so toggling back to true resumes where it left off. The call
// always occupies its scope position.
func InConditionalScope[T any](rc *RenderContext, cond bool, fn func() T) T {
	site := nextSite(rc, "InConditionalScope", KindConditionalScope, func(parent *slotSequence, idx int) *scopeSite {
		return &scopeSite{seq: newSequence(parent, fmt.Sprintf("%s/if[%d]", parent.path, idx))}
	})
	if !cond {
		var zero T
		return zero
	}
	return runScope(rc, site.seq, fn)
}
