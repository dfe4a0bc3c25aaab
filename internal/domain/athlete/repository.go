package athlete

import "context"

type Repository interface {
	Upsert(ctx context.Context, profile Profile) error
	CreateBatch(ctx context.Context, profiles []Profile) error
	GetByID(ctx context.Context, athleteID string) (Profile, bool, error)
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	ListByIDs(ctx context.Context, athleteIDs []string) ([]Profile, error)
	ListOpenToDeals(ctx context.Context) ([]Profile, error)
	Search(ctx context.Context, filter DiscoveryFilter) ([]Profile, int, error)
	ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error)
}

type SavedRepository interface {
	Save(ctx context.Context, saved SavedAthlete) error
	Delete(ctx context.Context, agencyID, athleteID string) (bool, error)
	ListByAgency(ctx context.Context, agencyID string) ([]SavedAthlete, error)
}
