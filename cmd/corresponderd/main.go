// Command corresponderd exposes the correspondence generation engine over
// HTTP for the portal frontend: draft generation, preview/edit, language
// switching, attachment management and dispatch.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taxdesk/correspond/pkg/activity"
	activitypg "github.com/taxdesk/correspond/pkg/activity/postgres"
	"github.com/taxdesk/correspond/pkg/archive"
	"github.com/taxdesk/correspond/pkg/catalog"
	"github.com/taxdesk/correspond/pkg/docrender"
	"github.com/taxdesk/correspond/pkg/draft"
	"github.com/taxdesk/correspond/pkg/health"
	"github.com/taxdesk/correspond/pkg/logger"
	"github.com/taxdesk/correspond/pkg/mail/resend"
)

type config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	CatalogPath     string        `env:"CATALOG_PATH"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Render  docrender.Config
	Resend  resend.Config
	Archive archive.Config
	Sentry  logger.SentryConfig
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to parse config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Sentry, logger.DraftIDExtractor).With("app", "corresponderd")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			log.Error("failed to load catalog override", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cat = loaded
	}

	opts := []draft.Option{draft.WithLogger(log)}
	checks := health.Checks{}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		opts = append(opts, draft.WithActivity(activity.NewSafe(activitypg.New(pool), log)))
		checks["database"] = pool.Ping
	}

	if cfg.Archive.Bucket != "" {
		store, err := archive.New(cfg.Archive)
		if err != nil {
			log.Error("failed to configure archive", slog.String("error", err.Error()))
			os.Exit(1)
		}
		opts = append(opts, draft.WithArchiver(archiveAdapter{store}))
	}

	if cfg.Render.URL == "" {
		log.Error("RENDER_URL is required")
		os.Exit(1)
	}
	renderer := docrender.NewClient(cfg.Render)
	checks["render"] = renderer.Ping

	orchestrator := draft.New(cat, renderer, resend.New(cfg.Resend), opts...)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(orchestrator, checks, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}()

	log.Info("starting server", slog.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// archiveAdapter narrows archive.Store to the orchestrator's Archiver.
type archiveAdapter struct {
	store *archive.Store
}

func (a archiveAdapter) Put(ctx context.Context, key, contentType string, payload []byte) error {
	return a.store.Put(ctx, archive.Key("", key), contentType, payload)
}
