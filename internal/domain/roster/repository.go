package roster

import (
	"context"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
)

type Repository interface {
	Save(ctx context.Context, imp Import) error
	Get(ctx context.Context, importID string) (Import, bool, error)
	// Commit inserts profiles and marks the import committed as one unit.
	// It reports false, inserting nothing, when the import was already committed.
	Commit(ctx context.Context, importID string, at time.Time, profiles []athlete.Profile) (bool, error)
}
