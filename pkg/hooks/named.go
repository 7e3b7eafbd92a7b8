package hooks

import (
	"fmt"

	"github.com/go-drift/hookscope/pkg/errors"
)

// namedTable maps keys to slot sequences for one InNamedScopes call site.
type namedTable struct {
	owner   *slotSequence
	path    string
	entries map[any]*slotSequence
	order   []any

	visited  map[any]bool
	inserted []any
	touched  bool
}

func newNamedTable(owner *slotSequence, path string) *namedTable {
	return &namedTable{
		owner:   owner,
		path:    path,
		entries: make(map[any]*slotSequence),
		visited: make(map[any]bool),
	}
}

// prune drops every entry not visited by the last body invocation and
// returns the removed keys in insertion order.
func (t *namedTable) prune() []any {
	var removed []any
	kept := t.order[:0]
	for _, key := range t.order {
		if t.visited[key] {
			kept = append(kept, key)
			continue
		}
		t.entries[key].release()
		delete(t.entries, key)
		removed = append(removed, key)
	}
	clear(t.order[len(kept):])
	t.order = kept
	t.inserted = nil
	return removed
}

// rollback removes entries created during a failed attempt.
func (t *namedTable) rollback() {
	if len(t.inserted) == 0 {
		clear(t.visited)
		return
	}
	fresh := make(map[any]bool, len(t.inserted))
	for _, key := range t.inserted {
		fresh[key] = true
		if seq, ok := t.entries[key]; ok {
			seq.release()
			delete(t.entries, key)
		}
	}
	kept := t.order[:0]
	for _, key := range t.order {
		if !fresh[key] {
			kept = append(kept, key)
		}
	}
	clear(t.order[len(kept):])
	t.order = kept
	t.inserted = nil
	clear(t.visited)
}

func (t *namedTable) release() {
	for _, seq := range t.entries {
		seq.release()
	}
	clear(t.entries)
	t.order = nil
	t.inserted = nil
}

// NamedScopes is the handle passed to an InNamedScopes body. It is only
// valid while that body runs.
type NamedScopes struct {
	rc     *RenderContext
	table  *namedTable
	closed bool
}

// InNamedScopes opens a keyed scope table at this call site and runs body.
// Inside body, InNamedScope selects per-key hook state by key rather than by
// position, so reordering keys keeps each key's state. Keys not entered during
// the pass that commits are discarded; a key that comes back later starts
// fresh.
func InNamedScopes[R any](rc *RenderContext, body func(ns *NamedScopes) R) R {
	site := nextSite(rc, "InNamedScopes", KindNamedScopes, func(parent *slotSequence, idx int) *scopeSite {
		return &scopeSite{table: newNamedTable(parent, fmt.Sprintf("%s/named[%d]", parent.path, idx))}
	})
	t := site.table
	rc.attempt.touchTable(t)
	clear(t.visited)

	ns := &NamedScopes{rc: rc, table: t}
	defer func() { ns.closed = true }()
	return body(ns)
}

// InNamedScope runs fn with the hook sequence stored under key, creating it
// on first use. Entering the same key twice in one pass panics with
// *errors.DuplicateScopeKeyError.
func InNamedScope[K comparable, T any](ns *NamedScopes, key K, fn func() T) T {
	if ns == nil || ns.closed {
		panic(&errors.NotRenderingError{Hook: "InNamedScope"})
	}
	rc := ns.rc
	rc.top("InNamedScope")

	t := ns.table
	k := any(key)
	if t.visited[k] {
		panic(&errors.DuplicateScopeKeyError{Scope: t.path, Key: key})
	}
	t.visited[k] = true

	seq, ok := t.entries[k]
	if !ok {
		seq = newSequence(t.owner, fmt.Sprintf("%s[%v]", t.path, key))
		t.entries[k] = seq
		t.order = append(t.order, k)
		t.inserted = append(t.inserted, k)
	}
	return runScope(rc, seq, fn)
}

// Keys returns the keys currently stored, in insertion order.
func (ns *NamedScopes) Keys() []any {
	if ns == nil {
		return nil
	}
	return append([]any(nil), ns.table.order...)
}
