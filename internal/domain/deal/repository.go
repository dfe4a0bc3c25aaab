package deal

import "context"

type Repository interface {
	Create(ctx context.Context, d Deal) error
	// UpdateReview only applies when the stored status is still open.
	UpdateReview(ctx context.Context, d Deal) (bool, error)
	GetByID(ctx context.Context, dealID string) (Deal, bool, error)
	List(ctx context.Context, filter ListFilter) ([]Deal, error)
}
