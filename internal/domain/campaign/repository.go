package campaign

import "context"

type Repository interface {
	Create(ctx context.Context, c Campaign) error
	Update(ctx context.Context, c Campaign) error
	GetByID(ctx context.Context, campaignID string) (Campaign, bool, error)
	ListByAgency(ctx context.Context, agencyID string) ([]Campaign, error)
	ListActive(ctx context.Context) ([]Campaign, error)
}
