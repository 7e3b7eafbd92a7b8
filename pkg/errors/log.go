package errors

import (
	"context"
	"log/slog"
)

// LogHandler is an ErrorHandler that logs errors through log/slog.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger receives the records. Nil means slog.Default().
	Logger *slog.Logger
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleRenderError logs a RenderError.
func (h *LogHandler) HandleRenderError(err *RenderError) {
	if err == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
	}
	if err.Instance != "" {
		attrs = append(attrs, slog.String("instance", err.Instance))
	}
	attrs = append(attrs, slog.String("error", errString(err.Err)))
	if pe, ok := err.Err.(*PanicError); ok && h.Verbose && pe.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", pe.StackTrace))
	}
	h.logger().LogAttrs(context.Background(), slog.LevelError, "render failed", attrs...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []slog.Attr{slog.Any("value", err.Value)}
	if err.Op != "" {
		attrs = append(attrs, slog.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().LogAttrs(context.Background(), slog.LevelError, "panic recovered", attrs...)
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}
