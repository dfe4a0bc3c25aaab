package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

const notificationColumns = "public_id, user_id, kind, title, body, link, read_at, created_at"

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	query, args, err := qb.InsertModel("notifications", notificationTableModel{
		PublicID:  n.ID,
		UserID:    n.UserID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		Link:      n.Link,
		ReadAt:    nullableTime(n.ReadAt),
		CreatedAt: n.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert notification query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notification id=%s: %w", n.ID, err)
	}
	return nil
}

// List returns newest first; Since excludes rows created at or before it.
func (r *NotificationRepository) List(ctx context.Context, filter notification.ListFilter) ([]notification.Notification, error) {
	conds := []qb.Condition{qb.Eq("user_id", filter.UserID)}
	if filter.UnreadOnly {
		conds = append(conds, qb.IsNull("read_at"))
	}
	if !filter.Since.IsZero() {
		conds = append(conds, qb.Gt("created_at", filter.Since))
	}

	query, args, err := qb.Select(notificationColumns).
		From("notifications").
		Where(conds...).
		OrderBy("created_at DESC", "id DESC").
		Limit(filter.Limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select notifications user=%s: %w", filter.UserID, err)
	}
	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notification.Notification{
			ID:        row.PublicID,
			UserID:    row.UserID,
			Kind:      notification.Kind(row.Kind),
			Title:     row.Title,
			Body:      row.Body,
			Link:      row.Link,
			ReadAt:    row.ReadAt,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").
		From("notifications").
		Where(qb.Eq("user_id", userID), qb.IsNull("read_at")).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count unread notifications query: %w", err)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count unread notifications user=%s: %w", userID, err)
	}
	return count, nil
}

// MarkRead reports whether the notification exists for the user; already-read rows keep their read_at.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID string, at time.Time) (bool, error) {
	const query = `
UPDATE notifications
SET read_at = COALESCE(read_at, $3)
WHERE public_id = $1
  AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, notificationID, userID, at)
	if err != nil {
		return false, fmt.Errorf("mark notification read id=%s: %w", notificationID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read marked notification rows: %w", err)
	}
	return affected > 0, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	query, args, err := qb.Update("notifications").
		Set("read_at", at).
		Where(qb.Eq("user_id", userID), qb.IsNull("read_at")).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build mark all notifications read query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read user=%s: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read marked notification rows: %w", err)
	}
	return affected, nil
}
