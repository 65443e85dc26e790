// Package activity defines the activity-log collaborator invoked after
// generate, download and send actions. Logging is strictly best-effort:
// failures are recorded locally and never surfaced to the user or allowed
// to block the primary action.
package activity

import (
	"context"
	"log/slog"
)

// Entry is one recorded action.
type Entry struct {
	Action       string
	Resource     string
	ClientName   string
	DocumentType string
	Filename     string
}

// Recorder persists activity entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Safe wraps a Recorder so failures are swallowed. A nil inner recorder
// disables activity logging entirely.
type Safe struct {
	inner Recorder
	log   *slog.Logger
}

// NewSafe creates a swallow-failure wrapper around rec.
func NewSafe(rec Recorder, log *slog.Logger) *Safe {
	if log == nil {
		log = slog.Default()
	}
	return &Safe{inner: rec, log: log}
}

// Record logs the entry, downgrading any failure to a local warning.
func (s *Safe) Record(ctx context.Context, e Entry) {
	if s == nil || s.inner == nil {
		return
	}
	if err := s.inner.Record(ctx, e); err != nil {
		s.log.WarnContext(ctx, "activity log failed",
			slog.String("action", e.Action),
			slog.String("resource", e.Resource),
			slog.String("error", err.Error()),
		)
	}
}
