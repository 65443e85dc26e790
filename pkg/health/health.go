// Package health exposes liveness and readiness probes for the
// correspondence daemon. Readiness aggregates checks against the
// collaborators a draft cannot be produced without: the document
// render service, the delivery provider, and the activity database.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const checkTimeout = 5 * time.Second

// Check probes one collaborator. A nil return means the collaborator
// can serve draft traffic.
type Check func(ctx context.Context) error

// Checks maps a collaborator name to its probe.
type Checks map[string]Check

type report struct {
	Status string            `json:"status"`
	Failed map[string]string `json:"failed,omitempty"`
}

// Liveness responds OK whenever the process is running.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, report{Status: "ok"})
	}
}

// Readiness runs every check in parallel and reports 503 with the
// failing collaborator names when any probe errors.
func Readiness(checks Checks, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			failed = map[string]string{}
		)
		for name, check := range checks {
			wg.Add(1)
			go func(name string, check Check) {
				defer wg.Done()
				err := check(ctx)
				if err == nil {
					return
				}
				log.WarnContext(ctx, "readiness check failed",
					slog.String("collaborator", name),
					slog.String("error", err.Error()),
				)
				mu.Lock()
				failed[name] = err.Error()
				mu.Unlock()
			}(name, check)
		}
		wg.Wait()

		if len(failed) > 0 {
			writeJSON(w, http.StatusServiceUnavailable, report{Status: "degraded", Failed: failed})
			return
		}
		writeJSON(w, http.StatusOK, report{Status: "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
