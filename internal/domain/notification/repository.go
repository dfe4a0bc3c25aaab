package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, n Notification) error
	List(ctx context.Context, filter ListFilter) ([]Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
}
