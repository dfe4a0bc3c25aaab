package matching

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert keeps status and notified_at of an existing row.
	Upsert(ctx context.Context, m Match) error
	Get(ctx context.Context, campaignID, athleteID string) (Match, bool, error)
	ListByCampaign(ctx context.Context, filter ListFilter) ([]Match, int, error)
	ListByAthlete(ctx context.Context, athleteID string) ([]Match, error)
	UpdateStatus(ctx context.Context, campaignID, athleteID string, status Status, at time.Time) (bool, error)
	MarkNotified(ctx context.Context, campaignID, athleteID string, at time.Time) error
}
