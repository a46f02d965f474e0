package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/taufwerk/baptizo/core"
	"github.com/taufwerk/baptizo/core/person"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS sync_run (
	id                    BIGSERIAL PRIMARY KEY,
	kind                  TEXT NOT NULL,
	source                TEXT NOT NULL,
	started_at            TIMESTAMPTZ NOT NULL,
	finished_at           TIMESTAMPTZ NOT NULL,
	added_to_interest     INT NOT NULL DEFAULT 0,
	added_to_baptized     INT NOT NULL DEFAULT 0,
	removed_from_interest INT NOT NULL DEFAULT 0,
	failed                INT NOT NULL DEFAULT 0
);`

// RunRepository persists reconciliation and migration run summaries.
type RunRepository struct {
	db *sqlx.DB
}

var _ person.RunRecorder = (*RunRepository)(nil)

func NewRunRepository(db *sqlx.DB) (*RunRepository, error) {
	if _, err := db.Exec(runsSchema); err != nil {
		return nil, errors.Wrap(err, "creating sync_run table")
	}
	return &RunRepository{db: db}, nil
}

func (repo *RunRepository) RecordRun(ctx context.Context, rec person.RunRecord) error {
	const q = `
	INSERT INTO sync_run (kind, source, started_at, finished_at, added_to_interest, added_to_baptized, removed_from_interest, failed)
	VALUES (:kind, :source, :started_at, :finished_at, :added_to_interest, :added_to_baptized, :removed_from_interest, :failed)`

	if _, err := repo.db.NamedExecContext(ctx, q, rec); err != nil {
		return errors.Wrap(err, "inserting run record")
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (repo *RunRepository) RecentRuns(ctx context.Context, limit int) ([]person.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT * FROM sync_run ORDER BY started_at DESC, id DESC LIMIT $1`

	recs := []person.RunRecord{}
	if err := repo.db.SelectContext(ctx, &recs, q, limit); err != nil {
		// a dead connection is not worth limping along on
		if pingErr := repo.db.PingContext(ctx); pingErr != nil {
			return nil, core.NewShutdownError("database unreachable: " + pingErr.Error())
		}
		return nil, errors.Wrap(err, "querying run records")
	}
	return recs, nil
}
