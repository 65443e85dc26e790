// Package logger builds the application's slog loggers: JSON to stdout,
// optionally mirrored to Sentry, with per-call context attribute
// extraction for request- and draft-scoped values.
package logger

import (
	"context"
	"log/slog"
	"os"
)

// ContextExtractor pulls one slog attribute out of a context. Extractors
// run on every log call so request-scoped values stay fresh.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// New creates a JSON stdout logger with the given context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(decorate(h, extractors...))
}

// Noop returns a logger that discards everything. Useful in tests.
func Noop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// decorator injects context-extracted attributes before delegating.
type decorator struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func decorate(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &decorator{next: next, extractors: clean}
}

func (d *decorator) Enabled(ctx context.Context, level slog.Level) bool {
	return d.next.Enabled(ctx, level)
}

func (d *decorator) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range d.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return d.next.Handle(ctx, rec)
}

func (d *decorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &decorator{next: d.next.WithAttrs(attrs), extractors: d.extractors}
}

func (d *decorator) WithGroup(name string) slog.Handler {
	return &decorator{next: d.next.WithGroup(name), extractors: d.extractors}
}
