package invite

import "context"

type Repository interface {
	Create(ctx context.Context, inv Invite) error
	GetByTokenHash(ctx context.Context, tokenHash string) (Invite, bool, error)
	ListByAthlete(ctx context.Context, athleteID string) ([]Invite, error)
	// Accept marks the invite accepted and stores the link atomically.
	// It returns ErrAlreadyAccepted when another request won the race.
	Accept(ctx context.Context, inv Invite, link Link) error
	ListAthleteIDsByParent(ctx context.Context, parentID string) ([]string, error)
	ListParentIDsByAthlete(ctx context.Context, athleteID string) ([]string, error)
	IsLinked(ctx context.Context, parentID, athleteID string) (bool, error)
}
