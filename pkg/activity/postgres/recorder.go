// Package postgres persists activity entries to a PostgreSQL table.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taxdesk/correspond/pkg/activity"
)

// ErrRecordFailed indicates the insert did not complete.
var ErrRecordFailed = errors.New("failed to record activity entry")

// Recorder writes activity entries through a pgx connection pool. The
// table is owned by the portal's migration set:
//
//	CREATE TABLE activity_log (
//	    id            bigserial PRIMARY KEY,
//	    action        text NOT NULL,
//	    resource      text NOT NULL,
//	    client_name   text NOT NULL DEFAULT '',
//	    document_type text NOT NULL DEFAULT '',
//	    filename      text NOT NULL DEFAULT '',
//	    created_at    timestamptz NOT NULL DEFAULT now()
//	);
type Recorder struct {
	pool *pgxpool.Pool
}

// New creates a Recorder on an existing pool.
func New(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record implements activity.Recorder.
func (r *Recorder) Record(ctx context.Context, e activity.Entry) error {
	const q = `
		INSERT INTO activity_log (action, resource, client_name, document_type, filename)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, q, e.Action, e.Resource, e.ClientName, e.DocumentType, e.Filename); err != nil {
		return errors.Join(ErrRecordFailed, err)
	}
	return nil
}
