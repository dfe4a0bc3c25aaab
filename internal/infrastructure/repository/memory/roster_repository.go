package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
)

type RosterImportRepository struct {
	mu       sync.RWMutex
	items    map[string]roster.Import
	athletes *AthleteRepository
}

// NewRosterImportRepository commits imported profiles into athletes.
func NewRosterImportRepository(athletes *AthleteRepository) *RosterImportRepository {
	return &RosterImportRepository{items: make(map[string]roster.Import), athletes: athletes}
}

func (r *RosterImportRepository) Save(_ context.Context, imp roster.Import) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	imp.Rows = append([]roster.Row(nil), imp.Rows...)
	r.items[imp.ID] = imp
	return nil
}

func (r *RosterImportRepository) Get(_ context.Context, importID string) (roster.Import, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	imp, ok := r.items[importID]
	return imp, ok, nil
}

func (r *RosterImportRepository) Commit(ctx context.Context, importID string, at time.Time, profiles []athlete.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	imp, ok := r.items[importID]
	if !ok || imp.CommittedAt != nil {
		return false, nil
	}
	if err := r.athletes.CreateBatch(ctx, profiles); err != nil {
		return false, err
	}
	imp.CommittedAt = &at
	r.items[importID] = imp
	return true, nil
}
