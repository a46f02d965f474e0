// Package inmem provides in-memory repositories for development setups
// without a database.
package inmem

import (
	"context"
	"sync"

	"github.com/taufwerk/baptizo/core/person"
)

type RunRepository struct {
	mu   sync.RWMutex
	recs []person.RunRecord
}

var _ person.RunRecorder = (*RunRepository)(nil)

func NewRunRepository() *RunRepository {
	return &RunRepository{}
}

func (repo *RunRepository) RecordRun(_ context.Context, rec person.RunRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	rec.ID = int64(len(repo.recs) + 1)
	repo.recs = append(repo.recs, rec)
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (repo *RunRepository) RecentRuns(_ context.Context, limit int) ([]person.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	out := make([]person.RunRecord, 0, limit)
	for i := len(repo.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, repo.recs[i])
	}
	return out, nil
}
