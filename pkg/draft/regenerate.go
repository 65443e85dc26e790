package draft

import (
	"context"
	"log/slog"
	"time"

	"github.com/taxdesk/correspond/pkg/attach"
)

// regenTimeout bounds one background regeneration, covering every
// per-letter render call it makes.
const regenTimeout = 2 * time.Minute

// SwitchLanguage requests an asynchronous regeneration of the draft's
// generated content in another language. Identical concurrent requests
// are collapsed into one composition; when several different requests
// overlap, only the last-requested language's result lands and every
// earlier result is discarded even if it completes later.
//
// A regeneration replaces only what it owns: the generated attachments,
// the body blocks and the computed document state. Recipients and subject
// are user-owned and never touched.
func (o *Orchestrator) SwitchLanguage(ctx context.Context, id, lang string) error {
	o.mu.Lock()
	s, ok := o.sessions[id]
	if !ok {
		o.mu.Unlock()
		return ErrDraftNotFound
	}
	if s.draft.State != StatePreviewing && s.draft.State != StateEditing {
		o.mu.Unlock()
		return ErrInvalidState
	}
	if s.draft.Language == lang {
		o.mu.Unlock()
		return nil
	}
	s.regenSeq++
	seq := s.regenSeq
	req := s.request
	req.Language = lang
	o.mu.Unlock()

	// The regeneration outlives the triggering call; its context must not
	// die with the caller's request.
	regenCtx := context.WithoutCancel(ctx)

	o.runAsync(func() {
		ctx, cancel := context.WithTimeout(regenCtx, regenTimeout)
		defer cancel()
		res, err, _ := o.regens.Do(id+"\x00"+lang, func() (any, error) {
			return o.compose(ctx, req)
		})
		o.applyRegeneration(ctx, id, s, seq, lang, res, err)
	})
	return nil
}

// RegenerationPending reports whether a regeneration result is still
// outstanding, so the UI can disable the triggering action.
func (o *Orchestrator) RegenerationPending(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	return ok && s.regenSeq > s.regenApplied
}

// applyRegeneration lands a completed regeneration atomically. Results
// for a closed draft or superseded by a newer request are discarded
// silently, never surfaced.
func (o *Orchestrator) applyRegeneration(ctx context.Context, id string, s *session, seq uint64, lang string, res any, err error) {
	o.mu.Lock()
	cur, ok := o.sessions[id]
	if !ok || cur != s || s.closed || seq != s.regenSeq {
		o.mu.Unlock()
		return
	}
	s.regenApplied = seq
	if err != nil {
		o.mu.Unlock()
		o.log.ErrorContext(ctx, "regeneration failed",
			slog.String("draft_id", id),
			slog.String("language", lang),
			slog.String("error", err.Error()),
		)
		return
	}

	out := res.(*composed)
	s.request.Language = lang
	s.draft.Language = lang
	s.draft.Body = out.body
	s.draft.Synopsis = out.body.Synopsis
	s.draft.ReviewTitle = out.reviewTitle
	s.draft.Documents = out.documents
	s.draft.Attachments = attach.ReplaceGenerated(s.draft.Attachments, out.generated)
	s.draft.Provisional = out.provisional
	s.draft.NeedsReview = out.needsReview
	if s.draft.State == StateEditing {
		s.draft.EditText = s.draft.Body.EditText()
	}
	o.mu.Unlock()
}
