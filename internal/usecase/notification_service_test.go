package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
)

func TestNotificationService_ListReportsPollInterval(t *testing.T) {
	svc := newTestNotifier(memory.NewNotificationRepository())

	for i, title := range []string{"first", "second", "third"} {
		at := testNow.Add(time.Duration(i) * time.Second)
		svc.now = func() time.Time { return at }
		if _, err := svc.Notify(t.Context(), NotifyInput{UserID: "user-1", Kind: notification.KindMatch, Title: title}); err != nil {
			t.Fatalf("notify %s: %v", title, err)
		}
	}

	fg, err := svc.List(t.Context(), ListNotificationsInput{UserID: "user-1", Visibility: "foreground"})
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if fg.PollAfter != 15*time.Second || fg.UnreadCount != 3 {
		t.Fatalf("unexpected list: poll=%s unread=%d", fg.PollAfter, fg.UnreadCount)
	}
	if fg.Items[0].Title != "third" {
		t.Fatalf("expected newest first, got %s", fg.Items[0].Title)
	}

	bg, err := svc.List(t.Context(), ListNotificationsInput{UserID: "user-1", Visibility: "background", Limit: 1})
	if err != nil {
		t.Fatalf("list background: %v", err)
	}
	if bg.PollAfter != time.Minute || len(bg.Items) != 1 {
		t.Fatalf("unexpected background list: poll=%s items=%d", bg.PollAfter, len(bg.Items))
	}

	since, err := svc.ListSince(t.Context(), "user-1", testNow)
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(since) != 2 || since[0].Title != "second" || since[1].Title != "third" {
		t.Fatalf("expected oldest first after cursor, got %+v", since)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc := newTestNotifier(memory.NewNotificationRepository())

	first, err := svc.Notify(t.Context(), NotifyInput{UserID: "user-1", Kind: notification.KindMessage, Title: "New message"})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, err := svc.Notify(t.Context(), NotifyInput{UserID: "user-1", Kind: notification.KindMessage, Title: "Another"}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if err := svc.MarkRead(t.Context(), "user-2", first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's notification, got %v", err)
	}
	if err := svc.MarkRead(t.Context(), "user-1", first.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if n, _ := svc.CountUnread(t.Context(), "user-1"); n != 1 {
		t.Fatalf("expected one unread, got %d", n)
	}

	updated, err := svc.MarkAllRead(t.Context(), "user-1")
	if err != nil || updated != 1 {
		t.Fatalf("mark all read: updated=%d err=%v", updated, err)
	}

	if _, err := svc.Notify(t.Context(), NotifyInput{UserID: "user-1"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without title, got %v", err)
	}
}
