package hooks

import (
	stderrors "errors"
	"testing"

	"github.com/go-drift/hookscope/pkg/errors"
	"github.com/go-drift/hookscope/pkg/observability"
)

// harness wraps an instance with an event recorder and counts render
// requests made through OnNeedsRender.
type harness struct {
	inst     *Instance
	events   *observability.Recorder
	requests int
}

func newHarness(opts ...Option) *harness {
	h := &harness{events: &observability.Recorder{}}
	base := []Option{
		WithObserver(h.events),
		WithOnNeedsRender(func() { h.requests++ }),
	}
	h.inst = NewInstance("Test", append(base, opts...)...)
	return h
}

func render[O any](t *testing.T, inst *Instance, body func(rc *RenderContext) O) O {
	t.Helper()
	out, err := Render(inst, body)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out
}

func renderErr[O any](t *testing.T, inst *Instance, body func(rc *RenderContext) O) *errors.RenderError {
	t.Helper()
	_, err := Render(inst, body)
	var re *errors.RenderError
	if !stderrors.As(err, &re) {
		t.Fatalf("Expected *errors.RenderError, got %v", err)
	}
	return re
}

func expectPanic[E error](t *testing.T, fn func()) E {
	t.Helper()
	var target E
	r := func() (r any) {
		defer func() { r = recover() }()
		fn()
		return nil
	}()
	err, ok := r.(error)
	if !ok || !stderrors.As(err, &target) {
		t.Fatalf("Expected panic with %T, got %v", target, r)
	}
	return target
}
