package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items []notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, n)
	return nil
}

func (r *NotificationRepository) List(_ context.Context, filter notification.ListFilter) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0)
	for _, n := range r.items {
		if n.UserID != filter.UserID {
			continue
		}
		if filter.UnreadOnly && n.ReadAt != nil {
			continue
		}
		if !filter.Since.IsZero() && !n.CreatedAt.After(filter.Since) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.items {
		if n.UserID == userID && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID, notificationID string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.items {
		n := &r.items[idx]
		if n.ID != notificationID || n.UserID != userID {
			continue
		}
		if n.ReadAt == nil {
			n.ReadAt = &at
		}
		return true, nil
	}
	return false, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for idx := range r.items {
		n := &r.items[idx]
		if n.UserID == userID && n.ReadAt == nil {
			n.ReadAt = &at
			updated++
		}
	}
	return updated, nil
}
