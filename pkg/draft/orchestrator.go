package draft

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/taxdesk/correspond/pkg/activity"
	"github.com/taxdesk/correspond/pkg/assemble"
	"github.com/taxdesk/correspond/pkg/attach"
	"github.com/taxdesk/correspond/pkg/catalog"
	"github.com/taxdesk/correspond/pkg/content"
	"github.com/taxdesk/correspond/pkg/directory"
	"github.com/taxdesk/correspond/pkg/docrender"
	"github.com/taxdesk/correspond/pkg/mail"
)

// State is a draft's lifecycle position.
type State string

// Draft lifecycle states.
const (
	StateIdle       State = "idle"
	StatePreviewing State = "previewing"
	StateEditing    State = "editing"
	StateSending    State = "sending"
	StateSent       State = "sent"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

// Draft is the externally visible snapshot of one compose session.
type Draft struct {
	ID          string
	State       State
	Language    string
	Subject     string
	ReviewTitle string
	Synopsis    string
	Recipients  []string
	CC          []string
	Body        content.Message
	EditText    string
	Attachments []attach.Attachment
	Rejected    []attach.RejectedFile
	Documents   []GeneratedDocument
	Provisional bool
	NeedsReview bool
}

// session is the orchestrator-owned mutable state of one draft.
type session struct {
	draft        Draft
	request      GenerateRequest
	regenSeq     uint64
	regenApplied uint64
	sending      bool
	closed       bool
}

// Archiver stores a rendered document for later download. pkg/archive
// satisfies it; a nil archiver disables archiving.
type Archiver interface {
	Put(ctx context.Context, key, contentType string, payload []byte) error
}

// Orchestrator owns every live compose session.
type Orchestrator struct {
	mu       sync.Mutex
	sessions map[string]*session

	catalog  *catalog.Catalog
	renderer docrender.Renderer
	sender   mail.Sender
	activity *activity.Safe
	dir      directory.Directory
	archiver Archiver
	log      *slog.Logger
	layout   assemble.Layout
	now      func() time.Time
	runAsync func(fn func())
	regens   singleflight.Group
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithActivity sets the activity-log collaborator.
func WithActivity(a *activity.Safe) Option {
	return func(o *Orchestrator) { o.activity = a }
}

// WithDirectory sets the team-directory collaborator.
func WithDirectory(d directory.Directory) Option {
	return func(o *Orchestrator) { o.dir = d }
}

// WithArchiver stores downloaded documents in the given archive.
func WithArchiver(a Archiver) Option {
	return func(o *Orchestrator) { o.archiver = a }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithLayout overrides the page-split policy.
func WithLayout(l assemble.Layout) Option {
	return func(o *Orchestrator) { o.layout = l }
}

// WithClock overrides the clock. Tests pin it for stable filenames.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithAsyncRunner overrides how regenerations run. The default spawns a
// goroutine; tests capture the function to control completion order.
func WithAsyncRunner(run func(fn func())) Option {
	return func(o *Orchestrator) { o.runAsync = run }
}

// New creates an Orchestrator.
func New(cat *catalog.Catalog, renderer docrender.Renderer, sender mail.Sender, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sessions: make(map[string]*session),
		catalog:  cat,
		renderer: renderer,
		sender:   sender,
		log:      slog.Default(),
		layout:   assemble.DefaultLayout,
		now:      time.Now,
		runAsync: func(fn func()) { go fn() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate starts a compose session: Idle -> Previewing. Incomplete
// client data is reported before any document is rendered.
func (o *Orchestrator) Generate(ctx context.Context, req GenerateRequest) (Draft, error) {
	if err := validateRequest(req); err != nil {
		return Draft{}, err
	}
	if req.Language == "" {
		req.Language = "en"
	}

	out, err := o.compose(ctx, req)
	if err != nil {
		return Draft{}, err
	}

	bundle, rejected := attach.Bundle(out.generated, nil)
	d := Draft{
		ID:          uuid.NewString(),
		State:       StatePreviewing,
		Language:    req.Language,
		Subject:     out.subject,
		ReviewTitle: out.reviewTitle,
		Synopsis:    out.body.Synopsis,
		Recipients:  recipientsFor(req),
		CC:          append([]string(nil), req.CC...),
		Body:        out.body,
		Attachments: bundle,
		Rejected:    rejected,
		Documents:   out.documents,
		Provisional: out.provisional,
		NeedsReview: out.needsReview,
	}

	o.mu.Lock()
	o.sessions[d.ID] = &session{draft: d, request: req}
	o.mu.Unlock()

	o.record(ctx, "generate", d, req)
	return d, nil
}

// Draft returns the current snapshot of a session.
func (o *Orchestrator) Draft(id string) (Draft, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return s.draft, nil
}

// EnterEdit converts the body to its plain representation and moves
// Previewing -> Editing.
func (o *Orchestrator) EnterEdit(id string) (Draft, error) {
	return o.update(id, func(s *session) error {
		if s.draft.State != StatePreviewing {
			return ErrInvalidState
		}
		s.draft.State = StateEditing
		s.draft.EditText = s.draft.Body.EditText()
		return nil
	})
}

// UpdateEdit re-encodes the edited text into the body while staying in
// Editing. The synopsis survives unchanged.
func (o *Orchestrator) UpdateEdit(id, text string) (Draft, error) {
	return o.update(id, func(s *session) error {
		if s.draft.State != StateEditing {
			return ErrInvalidState
		}
		s.draft.EditText = text
		s.draft.Body = s.draft.Body.ApplyEdit(text)
		return nil
	})
}

// LeaveEdit moves Editing -> Previewing.
func (o *Orchestrator) LeaveEdit(id string) (Draft, error) {
	return o.update(id, func(s *session) error {
		if s.draft.State != StateEditing {
			return ErrInvalidState
		}
		s.draft.State = StatePreviewing
		s.draft.EditText = ""
		return nil
	})
}

// SetRecipients replaces the user-owned recipient fields. Regenerations
// never touch these.
func (o *Orchestrator) SetRecipients(id string, to, cc []string) (Draft, error) {
	return o.update(id, func(s *session) error {
		if s.draft.State != StatePreviewing && s.draft.State != StateEditing {
			return ErrInvalidState
		}
		s.draft.Recipients = append([]string(nil), to...)
		s.draft.CC = append([]string(nil), cc...)
		return nil
	})
}

// SetSubject replaces the user-owned subject field.
func (o *Orchestrator) SetSubject(id, subject string) (Draft, error) {
	return o.update(id, func(s *session) error {
		if s.draft.State != StatePreviewing && s.draft.State != StateEditing {
			return ErrInvalidState
		}
		s.draft.Subject = subject
		return nil
	})
}

// AddUpload validates and appends one user-uploaded attachment. A
// rejected file is reported on the draft, never an error.
func (o *Orchestrator) AddUpload(id string, a attach.Attachment) (Draft, error) {
	return o.update(id, func(s *session) error {
		if s.draft.State != StatePreviewing && s.draft.State != StateEditing {
			return ErrInvalidState
		}
		a.Origin = attach.OriginUploaded
		if r := attach.ValidateUpload(a); r != nil {
			s.draft.Rejected = append(s.draft.Rejected, *r)
			return nil
		}
		s.draft.Attachments = append(s.draft.Attachments, a)
		return nil
	})
}

// RemoveUpload removes one uploaded attachment by identity. Generated
// attachments cannot be removed individually.
func (o *Orchestrator) RemoveUpload(id, attachmentID string) (Draft, error) {
	return o.update(id, func(s *session) error {
		for i, a := range s.draft.Attachments {
			if a.ID == attachmentID && a.Origin == attach.OriginUploaded {
				s.draft.Attachments = append(s.draft.Attachments[:i], s.draft.Attachments[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// Cancel discards the session: Previewing/Editing -> Cancelled. Already
// downloaded documents are unaffected; an in-flight regeneration's result
// will be discarded when it lands.
func (o *Orchestrator) Cancel(id string) (Draft, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	if s.draft.State != StatePreviewing && s.draft.State != StateEditing && s.draft.State != StateFailed {
		return Draft{}, ErrInvalidState
	}
	s.draft.State = StateCancelled
	s.closed = true
	delete(o.sessions, id)
	return s.draft, nil
}

// Send hands the draft to the send collaborator. On success the session
// is released; on failure the draft is retained in Failed so the user can
// retry without redoing edits.
func (o *Orchestrator) Send(ctx context.Context, id string) (Draft, error) {
	o.mu.Lock()
	s, ok := o.sessions[id]
	if !ok {
		o.mu.Unlock()
		return Draft{}, ErrDraftNotFound
	}
	switch {
	case s.sending:
		o.mu.Unlock()
		return Draft{}, ErrSendInFlight
	case s.draft.State != StatePreviewing && s.draft.State != StateEditing && s.draft.State != StateFailed:
		o.mu.Unlock()
		return Draft{}, ErrInvalidState
	case s.draft.Provisional:
		o.mu.Unlock()
		return Draft{}, ErrProvisionalDraft
	}
	s.sending = true
	s.draft.State = StateSending
	email, err := o.buildEmail(&s.draft)
	snapshot := s.draft
	o.mu.Unlock()

	if err != nil {
		return o.finishSend(ctx, id, snapshot, err)
	}
	return o.finishSend(ctx, id, snapshot, o.sender.Send(ctx, email))
}

// finishSend applies the send outcome under the lock.
func (o *Orchestrator) finishSend(ctx context.Context, id string, snapshot Draft, sendErr error) (Draft, error) {
	o.mu.Lock()
	s, ok := o.sessions[id]
	if !ok {
		o.mu.Unlock()
		return snapshot, ErrDraftNotFound
	}
	s.sending = false
	if sendErr != nil {
		s.draft.State = StateFailed
		d := s.draft
		o.mu.Unlock()
		o.log.ErrorContext(ctx, "send failed",
			slog.String("draft_id", id),
			slog.String("error", sendErr.Error()),
		)
		return d, errors.Join(mail.ErrSendFailed, sendErr)
	}
	s.draft.State = StateSent
	s.closed = true
	d := s.draft
	req := s.request
	delete(o.sessions, id)
	o.mu.Unlock()

	o.record(ctx, "send", d, req)
	return d, nil
}

// Download returns a generated document's payload and filename, records
// the action, and archives the payload when an archiver is configured.
func (o *Orchestrator) Download(ctx context.Context, id, letterType string) ([]byte, string, error) {
	o.mu.Lock()
	s, ok := o.sessions[id]
	if !ok {
		o.mu.Unlock()
		return nil, "", ErrDraftNotFound
	}
	var doc *GeneratedDocument
	for i := range s.draft.Documents {
		if s.draft.Documents[i].LetterType == letterType {
			doc = &s.draft.Documents[i]
			break
		}
	}
	if doc == nil {
		o.mu.Unlock()
		return nil, "", ErrUnknownDocument
	}
	payload, filename := doc.Payload, doc.Filename
	d := s.draft
	req := s.request
	o.mu.Unlock()

	if o.archiver != nil {
		key := strings.TrimSpace(req.Client.ShortName) + "/" + filename
		if err := o.archiver.Put(ctx, key, "application/pdf", payload); err != nil {
			// Archiving is best-effort; the download itself proceeds.
			o.log.WarnContext(ctx, "archive failed",
				slog.String("draft_id", id),
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
		}
	}
	o.record(ctx, "download", d, req)
	return payload, filename, nil
}

// RecipientDisplay enriches one recipient address through the team
// directory, degrading to the bare address when the directory is absent
// or failing.
func (o *Orchestrator) RecipientDisplay(ctx context.Context, email string) string {
	return directory.DisplayName(ctx, o.dir, email)
}

// update runs fn on a session under the lock and returns the snapshot.
func (o *Orchestrator) update(id string, fn func(*session) error) (Draft, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	if err := fn(s); err != nil {
		return Draft{}, err
	}
	return s.draft, nil
}

// buildEmail assembles the outgoing message from the draft.
func (o *Orchestrator) buildEmail(d *Draft) (*mail.Email, error) {
	html, err := content.RenderHTML(d.Body.Blocks)
	if err != nil {
		return nil, err
	}
	email := &mail.Email{
		To:      append([]string(nil), d.Recipients...),
		CC:      append([]string(nil), d.CC...),
		Subject: d.Subject,
		HTML:    html,
		Text:    content.ToPlain(d.Body.Blocks),
	}
	for _, a := range d.Attachments {
		email.Attachments = append(email.Attachments, mail.Attachment{
			Filename:    a.Filename,
			ContentType: a.MediaType,
			Content:     a.Content,
		})
	}
	if err := email.Validate(); err != nil {
		return nil, err
	}
	return email, nil
}

// record logs an activity entry, swallowing collaborator failures.
func (o *Orchestrator) record(ctx context.Context, action string, d Draft, req GenerateRequest) {
	letterType := ""
	filename := ""
	if len(d.Documents) > 0 {
		letterType = d.Documents[0].LetterType
		filename = d.Documents[0].Filename
	}
	o.activity.Record(ctx, activity.Entry{
		Action:       action,
		Resource:     d.ID,
		ClientName:   req.Client.Company,
		DocumentType: letterType,
		Filename:     filename,
	})
}

// validateRequest reports data-incomplete conditions before generation.
func validateRequest(req GenerateRequest) error {
	if req.Client.Company == "" {
		return errors.Join(ErrDataIncomplete, errors.New("company name is required"))
	}
	if req.Client.FirstName == "" && req.Client.LastName == "" {
		return errors.Join(ErrDataIncomplete, errors.New("client name is required"))
	}
	if len(req.LetterTypes) == 0 {
		return ErrNoLetterSelected
	}
	return nil
}

// recipientsFor picks the initial recipient list: an explicit list wins,
// then the custom receiver override.
func recipientsFor(req GenerateRequest) []string {
	if len(req.Recipients) > 0 {
		return append([]string(nil), req.Recipients...)
	}
	if req.Selections.CustomReceiver && req.Selections.ReceiverEmail != "" {
		return []string{req.Selections.ReceiverEmail}
	}
	return nil
}
