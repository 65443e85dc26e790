package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taxdesk/correspond/pkg/attach"
	"github.com/taxdesk/correspond/pkg/draft"
	"github.com/taxdesk/correspond/pkg/health"
	"github.com/taxdesk/correspond/pkg/logger"
	"github.com/taxdesk/correspond/pkg/mail"
	"github.com/taxdesk/correspond/pkg/rules"
)

type server struct {
	orchestrator *draft.Orchestrator
	log          *slog.Logger
}

func newRouter(o *draft.Orchestrator, checks health.Checks, log *slog.Logger) http.Handler {
	s := &server{orchestrator: o, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(checks, log))

	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", s.generate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.get)
			r.Delete("/", s.cancel)
			r.Post("/edit", s.enterEdit)
			r.Put("/edit", s.updateEdit)
			r.Post("/preview", s.leaveEdit)
			r.Put("/recipients", s.setRecipients)
			r.Put("/subject", s.setSubject)
			r.Post("/language", s.switchLanguage)
			r.Post("/attachments", s.addAttachment)
			r.Delete("/attachments/{attachmentID}", s.removeAttachment)
			r.Post("/send", s.send)
			r.Get("/documents/{letterType}", s.download)
		})
	})
	return r
}

type generateRequest struct {
	PeriodEnd   string               `json:"period_end"`
	Client      rules.ClientFacts    `json:"client"`
	QFZP        rules.QFZPConditions `json:"qfzp"`
	Selections  rules.Selections     `json:"selections"`
	LetterTypes []string             `json:"letter_types"`
	Language    string               `json:"language"`
	Recipients  []string             `json:"recipients"`
	CC          []string             `json:"cc"`
}

func (s *server) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}

	var periodEnd time.Time
	if req.PeriodEnd != "" {
		parsed, err := time.Parse("2006-01-02", req.PeriodEnd)
		if err != nil {
			s.error(w, r, http.StatusBadRequest, err)
			return
		}
		periodEnd = parsed
	}

	d, err := s.orchestrator.Generate(r.Context(), draft.GenerateRequest{
		PeriodEnd:   periodEnd,
		Client:      req.Client,
		QFZP:        req.QFZP,
		Selections:  req.Selections,
		LetterTypes: req.LetterTypes,
		Language:    req.Language,
		Recipients:  req.Recipients,
		CC:          req.CC,
	})
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusCreated, d)
}

func (s *server) get(w http.ResponseWriter, r *http.Request) {
	d, err := s.orchestrator.Draft(chi.URLParam(r, "id"))
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) cancel(w http.ResponseWriter, r *http.Request) {
	d, err := s.orchestrator.Cancel(chi.URLParam(r, "id"))
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) enterEdit(w http.ResponseWriter, r *http.Request) {
	d, err := s.orchestrator.EnterEdit(chi.URLParam(r, "id"))
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) updateEdit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}
	d, err := s.orchestrator.UpdateEdit(chi.URLParam(r, "id"), body.Text)
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) leaveEdit(w http.ResponseWriter, r *http.Request) {
	d, err := s.orchestrator.LeaveEdit(chi.URLParam(r, "id"))
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) setRecipients(w http.ResponseWriter, r *http.Request) {
	var body struct {
		To []string `json:"to"`
		CC []string `json:"cc"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}
	d, err := s.orchestrator.SetRecipients(chi.URLParam(r, "id"), body.To, body.CC)
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) setSubject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}
	d, err := s.orchestrator.SetSubject(chi.URLParam(r, "id"), body.Subject)
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) switchLanguage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.orchestrator.SwitchLanguage(r.Context(), id, body.Language); err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusAccepted, map[string]any{
		"pending": s.orchestrator.RegenerationPending(id),
	})
}

func (s *server) addAttachment(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, attach.MaxFileSize+1))
	if err != nil {
		s.error(w, r, http.StatusBadRequest, err)
		return
	}

	d, err := s.orchestrator.AddUpload(chi.URLParam(r, "id"), attach.New(
		header.Filename,
		header.Header.Get("Content-Type"),
		payload,
		attach.OriginUploaded,
	))
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) removeAttachment(w http.ResponseWriter, r *http.Request) {
	d, err := s.orchestrator.RemoveUpload(chi.URLParam(r, "id"), chi.URLParam(r, "attachmentID"))
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) send(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithDraftID(r.Context(), chi.URLParam(r, "id"))
	d, err := s.orchestrator.Send(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	s.json(w, http.StatusOK, d)
}

func (s *server) download(w http.ResponseWriter, r *http.Request) {
	payload, filename, err := s.orchestrator.Download(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "letterType"))
	if err != nil {
		s.draftError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(payload)
}

// draftError maps engine errors to HTTP statuses. Transport failures are
// the only class surfaced as a user-facing error banner by the frontend.
func (s *server) draftError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, draft.ErrDraftNotFound), errors.Is(err, draft.ErrUnknownDocument):
		s.error(w, r, http.StatusNotFound, err)
	case errors.Is(err, draft.ErrDataIncomplete),
		errors.Is(err, draft.ErrNoLetterSelected),
		errors.Is(err, draft.ErrProvisionalDraft):
		s.error(w, r, http.StatusUnprocessableEntity, err)
	case errors.Is(err, draft.ErrInvalidState), errors.Is(err, draft.ErrSendInFlight):
		s.error(w, r, http.StatusConflict, err)
	case errors.Is(err, mail.ErrSendFailed):
		s.error(w, r, http.StatusBadGateway, err)
	default:
		s.error(w, r, http.StatusInternalServerError, err)
	}
}

func (s *server) error(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	s.json(w, status, map[string]string{"error": err.Error()})
}

func (s *server) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
