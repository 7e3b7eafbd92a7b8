// Package errors provides structured error handling for the hook runtime.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindHookOrder indicates a hook slot whose kind or type changed between renders.
	KindHookOrder
	// KindScopeKey indicates a named scope key used twice in one pass.
	KindScopeKey
	// KindNotRendering indicates a hook called outside an active render.
	KindNotRendering
	// KindDivergence indicates the render-phase restart bound was exceeded.
	KindDivergence
	// KindPanic indicates a recovered panic from component code.
	KindPanic
	// KindInProgress indicates a render requested while one was already active.
	KindInProgress
	// KindDisposed indicates a render requested for a disposed instance.
	KindDisposed
)

func (k ErrorKind) String() string {
	switch k {
	case KindHookOrder:
		return "hook-order"
	case KindScopeKey:
		return "scope-key"
	case KindNotRendering:
		return "not-rendering"
	case KindDivergence:
		return "divergence"
	case KindPanic:
		return "panic"
	case KindInProgress:
		return "in-progress"
	case KindDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// ErrRenderInProgress is returned when an instance is asked to render while
// an attempt for it is still active.
var ErrRenderInProgress = errors.New("render already in progress for this instance")

// ErrInstanceDisposed is returned when a disposed instance is asked to render.
var ErrInstanceDisposed = errors.New("instance has been disposed")

// RenderError wraps a failed render of one component instance.
type RenderError struct {
	// Op is the operation that failed (e.g., "hooks.Render").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Instance is the "name#id" label of the instance being rendered.
	Instance string
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("%s [%s] instance=%s: %v", e.Op, e.Kind, e.Instance, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// HookOrderError reports a slot whose recorded kind does not match the hook
// now reading it. Hooks must be called in the same order on every render of
// a scope.
type HookOrderError struct {
	// Scope is the path of the slot sequence (e.g., "root/scope[0]").
	Scope string
	// Index is the slot position within the scope.
	Index int
	// Expected is the kind recorded on a previous render.
	Expected string
	// Found is the kind requested by the current call.
	Found string
}

func (e *HookOrderError) Error() string {
	return fmt.Sprintf("hook order changed in %s at slot %d: previously %s, now %s",
		e.Scope, e.Index, e.Expected, e.Found)
}

// DuplicateScopeKeyError reports two named scopes entered under the same key
// within one InNamedScopes pass.
type DuplicateScopeKeyError struct {
	Scope string
	Key   any
}

func (e *DuplicateScopeKeyError) Error() string {
	return fmt.Sprintf("duplicate named scope key %v in %s", e.Key, e.Scope)
}

// NotRenderingError reports a hook called without an active render.
type NotRenderingError struct {
	// Hook is the name of the hook function that was called.
	Hook string
}

func (e *NotRenderingError) Error() string {
	return fmt.Sprintf("%s called outside of an active render", e.Hook)
}

// RenderDivergenceError reports a render that kept scheduling updates for
// itself past the restart bound.
type RenderDivergenceError struct {
	Instance string
	Restarts int
	Limit    int
}

func (e *RenderDivergenceError) Error() string {
	return fmt.Sprintf("too many render-phase restarts for %s (%d, limit %d)",
		e.Instance, e.Restarts, e.Limit)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "hooks.Render").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// KindOf classifies err by the first typed error found in its chain.
func KindOf(err error) ErrorKind {
	var (
		order    *HookOrderError
		dup      *DuplicateScopeKeyError
		notRend  *NotRenderingError
		diverged *RenderDivergenceError
		pe       *PanicError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &order):
		return KindHookOrder
	case errors.As(err, &dup):
		return KindScopeKey
	case errors.As(err, &notRend):
		return KindNotRendering
	case errors.As(err, &diverged):
		return KindDivergence
	case errors.As(err, &pe):
		return KindPanic
	case errors.Is(err, ErrRenderInProgress):
		return KindInProgress
	case errors.Is(err, ErrInstanceDisposed):
		return KindDisposed
	default:
		return KindUnknown
	}
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleRenderError is called when a render of an instance fails.
	HandleRenderError(err *RenderError)
	// HandlePanic is called when a panic is recovered outside of a render.
	HandlePanic(err *PanicError)
}
