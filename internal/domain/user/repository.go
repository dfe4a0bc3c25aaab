package user

import "context"

type Repository interface {
	Upsert(ctx context.Context, u User) error
	GetByID(ctx context.Context, userID string) (User, bool, error)
	ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error)
}
