package hooks

import (
	"time"

	"github.com/go-drift/hookscope/pkg/errors"
	"github.com/go-drift/hookscope/pkg/observability"
)

// RenderContext is the handle a component body receives for one render
// request. Every hook takes it explicitly; it stops working once the render
// it belongs to has committed or failed.
type RenderContext struct {
	inst    *Instance
	attempt *attempt
}

// Instance returns the instance being rendered.
func (rc *RenderContext) Instance() *Instance {
	if rc == nil {
		return nil
	}
	return rc.inst
}

// Restarts returns how many scope replays this render has performed so far.
func (rc *RenderContext) Restarts() int {
	if rc == nil || rc.attempt == nil {
		return 0
	}
	return rc.attempt.restarts
}

func (rc *RenderContext) top(hook string) *slotSequence {
	if rc == nil || rc.attempt == nil || rc.attempt.done || len(rc.attempt.stack) == 0 {
		panic(&errors.NotRenderingError{Hook: hook})
	}
	return rc.attempt.stack[len(rc.attempt.stack)-1]
}

// staged is a record whose writes for the current attempt are held back
// until commit.
type staged interface {
	commit()
	discard()
	// restart drops what a replayed pass of scope did to the record from
	// inside a nested scope. It reports whether work is left to commit.
	restart(scope *slotSequence) bool
}

// attempt is one host-level render request of an instance, including every
// replay it performs.
type attempt struct {
	inst     *Instance
	stack    []*slotSequence
	restarts int
	limit    int
	done     bool

	touched []*slotSequence
	staged  []staged
	tables  []*namedTable
}

func (a *attempt) push(seq *slotSequence) {
	if !seq.touched {
		seq.touched = true
		seq.snapRecords = len(seq.records)
		seq.snapSites = len(seq.sites)
		a.touched = append(a.touched, seq)
	}
	seq.cursor = 0
	seq.siteCursor = 0
	seq.replay = false
	seq.active = true
	a.stack = append(a.stack, seq)
}

func (a *attempt) pop(seq *slotSequence) {
	seq.active = false
	seq.usedRecords = seq.cursor
	seq.usedSites = seq.siteCursor
	a.stack = a.stack[:len(a.stack)-1]
}

func (a *attempt) stage(r staged, flag *bool) {
	if *flag {
		return
	}
	*flag = true
	a.staged = append(a.staged, r)
}

func (a *attempt) touchTable(t *namedTable) {
	if t.touched {
		return
	}
	t.touched = true
	a.tables = append(a.tables, t)
}

// requestReplay marks the innermost active scope that contains seq and
// returns it. When that scope's function returns it runs again with the
// update applied.
func (a *attempt) requestReplay(seq *slotSequence) *slotSequence {
	for s := seq; s != nil; s = s.parent {
		if s.active {
			s.replay = true
			return s
		}
	}
	if len(a.stack) > 0 {
		a.stack[0].replay = true
		return a.stack[0]
	}
	return nil
}

// rewind discards the nested work of a pass of scope that is about to be
// replayed. Nested sequences fall back to their pre-attempt length unless the
// next pass enters them again; scope keeps its own slots for reuse.
func (a *attempt) rewind(scope *slotSequence) {
	for _, seq := range a.touched {
		if seq != scope && seq.within(scope) {
			seq.usedRecords = seq.snapRecords
			seq.usedSites = seq.snapSites
		}
	}

	tables := a.tables[:0]
	for _, t := range a.tables {
		if t.owner != scope && t.owner.within(scope) {
			t.rollback()
			t.touched = false
			continue
		}
		tables = append(tables, t)
	}
	clear(a.tables[len(tables):])
	a.tables = tables

	kept := a.staged[:0]
	for _, r := range a.staged {
		if r.restart(scope) {
			kept = append(kept, r)
		}
	}
	clear(a.staged[len(kept):])
	a.staged = kept
}

func (a *attempt) commit() {
	for _, r := range a.staged {
		r.commit()
	}
	for _, seq := range a.touched {
		if n := seq.truncate(seq.usedRecords, seq.usedSites); n > 0 {
			a.inst.emit(observability.EventSlotsPruned, observability.LevelVerbose, map[string]any{
				"scope":   seq.path,
				"removed": n,
			})
		}
		seq.touched = false
	}
	for _, t := range a.tables {
		for _, key := range t.prune() {
			a.inst.emit(observability.EventScopeDiscarded, observability.LevelVerbose, map[string]any{
				"scope": t.path,
				"key":   key,
			})
		}
		t.touched = false
	}
}

// rollback undoes every structural change made by the attempt. Sequences are
// restored innermost first so nested releases see their final shape.
func (a *attempt) rollback() {
	for _, r := range a.staged {
		r.discard()
	}
	for _, t := range a.tables {
		t.rollback()
		t.touched = false
	}
	for i := len(a.touched) - 1; i >= 0; i-- {
		seq := a.touched[i]
		seq.truncate(seq.snapRecords, seq.snapSites)
		seq.touched = false
		seq.active = false
		seq.replay = false
	}
	a.stack = nil
}

// Render runs body as the render function of inst and commits the resulting
// hook state. Render-phase updates replay the affected scope until no update
// is pending or the restart bound is exceeded.
//
// Hook misuse inside body (order changes, duplicate keys, stale contexts) and
// panics from component code are returned as *errors.RenderError; in that case
// nothing from the attempt is committed.
func Render[O any](inst *Instance, body func(rc *RenderContext) O) (out O, err error) {
	const op = "hooks.Render"
	if inst.disposed {
		return out, &errors.RenderError{Op: op, Kind: errors.KindDisposed, Instance: inst.Label(), Err: errors.ErrInstanceDisposed, Timestamp: time.Now()}
	}
	if inst.attempt != nil {
		return out, &errors.RenderError{Op: op, Kind: errors.KindInProgress, Instance: inst.Label(), Err: errors.ErrRenderInProgress, Timestamp: time.Now()}
	}

	a := &attempt{inst: inst, limit: inst.maxRestarts}
	inst.attempt = a
	rc := &RenderContext{inst: inst, attempt: a}

	defer func() {
		r := recover()
		a.done = true
		inst.attempt = nil
		if r == nil {
			return
		}
		a.rollback()
		var zero O
		out = zero
		cause := errors.FromPanic(op, r)
		err = &errors.RenderError{
			Op:        op,
			Kind:      errors.KindOf(cause),
			Instance:  inst.Label(),
			Err:       cause,
			Timestamp: time.Now(),
		}
		inst.emit(observability.EventRenderFailed, observability.LevelError, map[string]any{
			"restarts": a.restarts,
			"error":    cause.Error(),
		})
	}()

	out = runScope(rc, inst.root, func() O { return body(rc) })
	a.commit()
	inst.commits++
	inst.emit(observability.EventRenderCommit, observability.LevelVerbose, map[string]any{
		"restarts": a.restarts,
	})
	return out, nil
}

// runScope executes fn with seq on top of the scope stack, replaying it while
// render-phase updates target seq. The frame is popped on every exit path.
func runScope[T any](rc *RenderContext, seq *slotSequence, fn func() T) T {
	a := rc.attempt
	for {
		out, replay := runOnce(a, seq, fn)
		if !replay {
			return out
		}
		a.restarts++
		if a.restarts > a.limit {
			panic(&errors.RenderDivergenceError{
				Instance: a.inst.Label(),
				Restarts: a.restarts,
				Limit:    a.limit,
			})
		}
		a.rewind(seq)
		a.inst.emit(observability.EventRenderRestart, observability.LevelVerbose, map[string]any{
			"scope":    seq.path,
			"restarts": a.restarts,
		})
	}
}

func runOnce[T any](a *attempt, seq *slotSequence, fn func() T) (out T, replay bool) {
	a.push(seq)
	defer a.pop(seq)
	out = fn()
	return out, seq.replay
}
