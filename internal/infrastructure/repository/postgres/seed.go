package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the demo athletes when athlete_profiles is empty.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM athlete_profiles`); err != nil {
		return fmt.Errorf("count athletes for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := NewAthleteRepository(db).CreateBatch(ctx, memory.SeedAthletes()); err != nil {
		return fmt.Errorf("insert seed athletes: %w", err)
	}
	return nil
}
