package logging

import (
	"context"
	"log/slog"
)

// MultiHandler fans each record out to a set of handlers, typically a
// terminal handler plus a JSON log file.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler wraps the given handlers in a MultiHandler.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether any wrapped handler accepts the level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every enabled handler. The first error is
// returned after all handlers have run.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, hh := range h.handlers {
		if !hh.Enabled(ctx, r.Level) {
			continue
		}
		if err := hh.Handle(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WithAttrs applies the attributes to every wrapped handler.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		wrapped[i] = hh.WithAttrs(attrs)
	}
	return NewMultiHandler(wrapped...)
}

// WithGroup applies the group to every wrapped handler.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	wrapped := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		wrapped[i] = hh.WithGroup(name)
	}
	return NewMultiHandler(wrapped...)
}
