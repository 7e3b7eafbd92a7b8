// Package observability reports what the hook runtime does during renders:
// commits, render-phase restarts, failures and discarded scope state.
//
// Level values follow OpenTelemetry severity numbers so events can be
// forwarded to a collector without translation.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity.
type Level int

const (
	LevelVerbose Level = 5  // maps to slog.LevelDebug
	LevelInfo    Level = 9  // maps to slog.LevelInfo
	LevelWarning Level = 13 // maps to slog.LevelWarn
	LevelError   Level = 17 // maps to slog.LevelError
)

// String returns the severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps this level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType identifies the kind of event.
type EventType string

const (
	// EventRenderCommit is emitted when an attempt commits.
	EventRenderCommit EventType = "render.commit"
	// EventRenderRestart is emitted each time a scope is replayed because of
	// a render-phase update.
	EventRenderRestart EventType = "render.restart"
	// EventRenderFailed is emitted when an attempt is abandoned.
	EventRenderFailed EventType = "render.failed"
	// EventSlotsPruned is emitted when trailing slots of a scope are dropped.
	EventSlotsPruned EventType = "render.prune"
	// EventScopeDiscarded is emitted when a named scope key disappears.
	EventScopeDiscarded EventType = "scope.discard"
	// EventRenderScheduled is emitted by hosts when an instance is queued.
	EventRenderScheduled EventType = "render.schedule"
)

// Event is an observability event. Data keys become log attributes.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives events for logging, tracing, or metrics.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Emit stamps the event and forwards it. A nil observer drops the event.
func Emit(ctx context.Context, obs Observer, event Event) {
	if obs == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	obs.OnEvent(ctx, event)
}
