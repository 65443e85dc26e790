package draft

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taxdesk/correspond/pkg/activity"
	"github.com/taxdesk/correspond/pkg/assemble"
	"github.com/taxdesk/correspond/pkg/attach"
	"github.com/taxdesk/correspond/pkg/catalog"
	"github.com/taxdesk/correspond/pkg/mail"
	"github.com/taxdesk/correspond/pkg/rules"
)

type fakeRenderer struct{}

func (fakeRenderer) Render(_ context.Context, _ assemble.Document, profile rules.EntityProfile, _ rules.ClientFacts) ([]byte, error) {
	return []byte("%PDF-" + profile.Code), nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []*mail.Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, e *mail.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, e)
	return nil
}

// taskRunner collects async work so tests control completion order.
type taskRunner struct {
	mu    sync.Mutex
	tasks []func()
}

func (r *taskRunner) run(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, fn)
}

func (r *taskRunner) drain(order ...int) {
	r.mu.Lock()
	tasks := r.tasks
	r.tasks = nil
	r.mu.Unlock()
	if len(order) == 0 {
		for _, t := range tasks {
			t()
		}
		return
	}
	for _, i := range order {
		tasks[i]()
	}
}

func noopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fixedClock() time.Time {
	return time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC)
}

func validRequest() GenerateRequest {
	return GenerateRequest{
		PeriodEnd: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		Client: rules.ClientFacts{
			FirstName:  "Omar",
			LastName:   "Haddad",
			Company:    "Horizon Trading LLC",
			ShortName:  "HTL",
			Authority:  rules.AuthorityDMCC,
			RevenueAED: 1_500_000,
			TaxYear:    2024,
		},
		QFZP: rules.QFZPConditions{
			AdequateSubstance:     true,
			QualifyingIncome:      true,
			NoStandardRateElected: true,
			TransferPricingDocs:   true,
			AuditedFinancials:     true,
			DeMinimisSatisfied:    true,
		},
		Selections:  rules.Selections{ApplySBR: true, ApplyQFZP: true},
		LetterTypes: []string{"cit-return-filing"},
		Language:    "en",
		Recipients:  []string{"omar@horizon.ae"},
	}
}

func newOrchestrator(t *testing.T, sender mail.Sender, opts ...Option) *Orchestrator {
	t.Helper()
	base := []Option{WithClock(fixedClock), WithLogger(noopLogger())}
	return New(catalog.Default(), fakeRenderer{}, sender, append(base, opts...)...)
}

func TestGenerate_ProducesPreviewingDraft(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})

	d, err := o.Generate(context.Background(), validRequest())

	require.NoError(t, err)
	require.Equal(t, StatePreviewing, d.State)
	require.Equal(t, "250307 HTL CIT RF 2024", d.Subject)
	require.NotEmpty(t, d.Body.Blocks)
	require.Contains(t, d.Synopsis, "Horizon Trading LLC")
	require.False(t, d.Provisional)
}

func TestGenerate_FilenameSubjectAndReviewTitleShareOneConvention(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})

	d, err := o.Generate(context.Background(), validRequest())

	require.NoError(t, err)
	require.Equal(t, d.Subject, d.ReviewTitle)
	require.Equal(t, d.Subject+".pdf", d.Documents[0].Filename)
	require.Equal(t, d.Subject+".pdf", d.Attachments[0].Filename)
}

func TestGenerate_IncompleteClientData(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})

	req := validRequest()
	req.Client.Company = ""
	_, err := o.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrDataIncomplete)

	req = validRequest()
	req.LetterTypes = nil
	_, err = o.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrNoLetterSelected)
}

func TestGenerate_MissingPeriodEndIsProvisional(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})

	req := validRequest()
	req.PeriodEnd = time.Time{}
	d, err := o.Generate(context.Background(), req)

	require.NoError(t, err)
	require.True(t, d.Provisional)

	// The stand-in date must be visible in the text, not rendered blank.
	require.Contains(t, d.Body.EditText(), "09.09.9999")
	require.NotContains(t, d.Body.EditText(), "on or before .")

	_, err = o.Send(context.Background(), d.ID)
	require.ErrorIs(t, err, ErrProvisionalDraft)
}

func TestEditCycle_RoundTripsBodyAndKeepsSynopsis(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	synopsis := d.Synopsis

	d, err = o.EnterEdit(d.ID)
	require.NoError(t, err)
	require.Equal(t, StateEditing, d.State)
	require.Contains(t, d.EditText, "Dear Omar,")

	d, err = o.UpdateEdit(d.ID, d.EditText+"\n\n+ One more paragraph.")
	require.NoError(t, err)
	last := d.Body.Blocks[len(d.Body.Blocks)-1]
	require.Equal(t, "One more paragraph.", last.Text)

	d, err = o.LeaveEdit(d.ID)
	require.NoError(t, err)
	require.Equal(t, StatePreviewing, d.State)
	require.Equal(t, synopsis, d.Body.Synopsis)
}

func TestEnterEdit_OnlyFromPreviewing(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = o.EnterEdit(d.ID)
	require.NoError(t, err)
	_, err = o.EnterEdit(d.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSend_SuccessReleasesDraft(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	o := newOrchestrator(t, sender)
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	final, err := o.Send(context.Background(), d.ID)

	require.NoError(t, err)
	require.Equal(t, StateSent, final.State)
	require.Len(t, sender.sent, 1)
	require.Equal(t, []string{"omar@horizon.ae"}, sender.sent[0].To)
	require.Equal(t, d.Subject, sender.sent[0].Subject)
	require.NotEmpty(t, sender.sent[0].HTML)
	require.Len(t, sender.sent[0].Attachments, 1)

	_, err = o.Draft(d.ID)
	require.ErrorIs(t, err, ErrDraftNotFound)
}

func TestSend_FailureRetainsDraftForRetry(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("smtp unreachable")}
	o := newOrchestrator(t, sender)
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	failed, err := o.Send(context.Background(), d.ID)
	require.ErrorIs(t, err, mail.ErrSendFailed)
	require.Equal(t, StateFailed, failed.State)

	// Draft survives with all edits; a retry after recovery succeeds.
	sender.mu.Lock()
	sender.err = nil
	sender.mu.Unlock()

	final, err := o.Send(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, StateSent, final.State)
}

func TestCancel_DiscardsSession(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	cancelled, err := o.Cancel(d.ID)
	require.NoError(t, err)
	require.Equal(t, StateCancelled, cancelled.State)

	_, err = o.Draft(d.ID)
	require.ErrorIs(t, err, ErrDraftNotFound)
}

func TestAddUpload_RejectionReportedNotFatal(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	before := len(d.Attachments)

	d, err = o.AddUpload(d.ID, attach.Attachment{
		ID: "huge", Filename: "huge.pdf", MediaType: "application/pdf", Size: 30 << 20,
	})

	require.NoError(t, err)
	require.Len(t, d.Attachments, before)
	require.Len(t, d.Rejected, 1)
	require.Equal(t, attach.CodeFileTooLarge, d.Rejected[0].Code)
}

func TestAddRemoveUpload_GeneratedUntouched(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	d, err = o.AddUpload(d.ID, attach.Attachment{
		ID: "lic", Filename: "license.pdf", MediaType: "application/pdf", Size: 500, Content: []byte("x"),
	})
	require.NoError(t, err)
	require.Len(t, d.Attachments, 2)

	d, err = o.RemoveUpload(d.ID, "lic")
	require.NoError(t, err)
	require.Len(t, d.Attachments, 1)
	require.Equal(t, attach.OriginGenerated, d.Attachments[0].Origin)
}

func TestDownload_ReturnsPayloadAndFilename(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{})
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	payload, filename, err := o.Download(context.Background(), d.ID, "cit-return-filing")

	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-TDFZ"), payload)
	require.Equal(t, d.Subject+".pdf", filename)

	_, _, err = o.Download(context.Background(), d.ID, "visa-offer")
	require.ErrorIs(t, err, ErrUnknownDocument)
}

type fakeArchiver struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeArchiver) Put(_ context.Context, key, _ string, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func TestDownload_ArchivesBestEffort(t *testing.T) {
	t.Parallel()

	arch := &fakeArchiver{}
	o := newOrchestrator(t, &fakeSender{}, WithArchiver(arch))
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	_, _, err = o.Download(context.Background(), d.ID, "cit-return-filing")
	require.NoError(t, err)
	require.Len(t, arch.keys, 1)
	require.Contains(t, arch.keys[0], "HTL/")

	// A failing archive never fails the download itself.
	arch.err = errors.New("bucket gone")
	_, _, err = o.Download(context.Background(), d.ID, "cit-return-filing")
	require.NoError(t, err)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, activity.Entry) error {
	return errors.New("activity store down")
}

func TestGenerate_ActivityFailureSwallowed(t *testing.T) {
	t.Parallel()

	o := newOrchestrator(t, &fakeSender{},
		WithActivity(activity.NewSafe(failingRecorder{}, noopLogger())))

	_, err := o.Generate(context.Background(), validRequest())

	require.NoError(t, err)
}

type capturingRecorder struct {
	mu      sync.Mutex
	entries []activity.Entry
}

func (r *capturingRecorder) Record(_ context.Context, e activity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func TestSend_RecordsActivityAfterSessionRelease(t *testing.T) {
	t.Parallel()

	rec := &capturingRecorder{}
	o := newOrchestrator(t, &fakeSender{},
		WithActivity(activity.NewSafe(rec, noopLogger())))
	d, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = o.Send(context.Background(), d.ID)
	require.NoError(t, err)

	// The session is gone by the time the entry is written; the entry
	// must still carry the request's client data.
	_, err = o.Draft(d.ID)
	require.ErrorIs(t, err, ErrDraftNotFound)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.entries)
	last := rec.entries[len(rec.entries)-1]
	require.Equal(t, "send", last.Action)
	require.Equal(t, d.ID, last.Resource)
	require.Equal(t, "Horizon Trading LLC", last.ClientName)
}
