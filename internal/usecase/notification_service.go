package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

type NotifyInput struct {
	UserID string
	Kind   notification.Kind
	Title  string
	Body   string
	Link   string
}

type ListNotificationsInput struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Visibility string
}

type NotificationList struct {
	Items       []notification.Notification
	UnreadCount int
	PollAfter   time.Duration
}

type NotificationService struct {
	repo   notification.Repository
	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewNotificationService(repo notification.Repository, idGen idgen.Generator, logger *logging.Logger) *NotificationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &NotificationService{
		repo:   repo,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

func (s *NotificationService) Notify(ctx context.Context, input NotifyInput) (notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Notify")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Title = strings.TrimSpace(input.Title)
	if input.UserID == "" {
		return notification.Notification{}, fmt.Errorf("%w: notification user id is required", ErrInvalidInput)
	}
	if input.Title == "" {
		return notification.Notification{}, fmt.Errorf("%w: notification title is required", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return notification.Notification{}, fmt.Errorf("generate notification id: %w", err)
	}

	item := notification.Notification{
		ID:        id,
		UserID:    input.UserID,
		Kind:      input.Kind,
		Title:     input.Title,
		Body:      strings.TrimSpace(input.Body),
		Link:      strings.TrimSpace(input.Link),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		recordSpanError(span, err)
		return notification.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	return item, nil
}

// NotifyBestEffort logs instead of failing the caller's primary operation.
func (s *NotificationService) NotifyBestEffort(ctx context.Context, input NotifyInput) {
	if s == nil {
		return
	}
	if _, err := s.Notify(ctx, input); err != nil {
		s.logger.WarnContext(ctx, "notification not stored", "user_id", input.UserID, "kind", string(input.Kind), "error", err)
	}
}

func (s *NotificationService) List(ctx context.Context, input ListNotificationsInput) (NotificationList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.List")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return NotificationList{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.repo.List(ctx, notification.ListFilter{
		UserID:     input.UserID,
		UnreadOnly: input.UnreadOnly,
		Limit:      clampLimit(input.Limit, defaultNotificationLimit, maxNotificationLimit),
	})
	if err != nil {
		return NotificationList{}, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, input.UserID)
	if err != nil {
		return NotificationList{}, fmt.Errorf("count unread notifications: %w", err)
	}

	return NotificationList{
		Items:       items,
		UnreadCount: unread,
		PollAfter:   notification.PollAfter(input.Visibility),
	}, nil
}

// ListSince returns notifications created after since, oldest first.
func (s *NotificationService) ListSince(ctx context.Context, userID string, since time.Time) ([]notification.Notification, error) {
	items, err := s.repo.List(ctx, notification.ListFilter{
		UserID: userID,
		Since:  since,
		Limit:  maxNotificationLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications since: %w", err)
	}

	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.MarkRead")
	defer span.End()

	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return fmt.Errorf("%w: notification id is required", ErrInvalidInput)
	}

	ok, err := s.repo.MarkRead(ctx, userID, notificationID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: notification not found", ErrNotFound)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.MarkAllRead")
	defer span.End()

	n, err := s.repo.MarkAllRead(ctx, userID, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func clampLimit(limit, fallback, maximum int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maximum {
		return maximum
	}
	return limit
}
