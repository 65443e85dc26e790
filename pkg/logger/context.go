package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const draftIDKey ctxKey = "draft_id"

// WithDraftID stamps the compose-session identifier onto a context so
// every log line emitted while working on that draft carries it.
func WithDraftID(ctx context.Context, draftID string) context.Context {
	return context.WithValue(ctx, draftIDKey, draftID)
}

// DraftIDExtractor extracts the draft identifier stamped by WithDraftID.
func DraftIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(draftIDKey).(string); ok && id != "" {
		return slog.String("draft_id", id), true
	}
	return slog.Attr{}, false
}
