package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

type inviteFixture struct {
	svc           *InviteService
	invites       *memory.InviteRepository
	notifications *memory.NotificationRepository
	jobs          *recordingJobs
}

func newInviteFixture(t *testing.T) inviteFixture {
	t.Helper()

	invites := memory.NewInviteRepository()
	notifications := memory.NewNotificationRepository()
	jobs := &recordingJobs{}
	svc := NewInviteService(
		invites,
		memory.NewAthleteRepository(sampleProfile("ath-1", "user-1")),
		newTestNotifier(notifications),
		jobs,
		InviteConfig{TTL: 48 * time.Hour, PublicURL: "https://app.example.com/"},
		&sequenceIDs{prefix: "inv"},
		logging.NewNop(),
	)
	svc.now = fixedClock
	svc.newToken = func(int) (string, error) { return "token-abc", nil }

	return inviteFixture{svc: svc, invites: invites, notifications: notifications, jobs: jobs}
}

func TestInviteService_CreateStoresHashAndQueuesEmail(t *testing.T) {
	f := newInviteFixture(t)

	created, err := f.svc.Create(t.Context(), "user-1", " Parent@Example.com ")
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	if created.Invite.TokenHash != idgen.HashToken("token-abc") {
		t.Fatalf("expected hashed token at rest, got %q", created.Invite.TokenHash)
	}
	if created.Invite.ParentEmail != "parent@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Invite.ParentEmail)
	}
	if !created.Invite.ExpiresAt.Equal(testNow.Add(48 * time.Hour)) {
		t.Fatalf("unexpected expiry: %s", created.Invite.ExpiresAt)
	}
	if created.AcceptURL != "https://app.example.com/invites/accept?token=token-abc" {
		t.Fatalf("unexpected accept url: %s", created.AcceptURL)
	}
	if len(f.jobs.emails) != 1 || f.jobs.emails[0].To != "parent@example.com" || !strings.Contains(f.jobs.emails[0].HTML, created.AcceptURL) {
		t.Fatalf("expected invite email with accept link, got %+v", f.jobs.emails)
	}

	views, err := f.svc.List(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("list invites: %v", err)
	}
	if len(views) != 1 || views[0].Status != invite.StatusPending {
		t.Fatalf("unexpected invites: %+v", views)
	}
}

func TestInviteService_CreateValidatesEmail(t *testing.T) {
	f := newInviteFixture(t)

	if _, err := f.svc.Create(t.Context(), "user-1", "not-an-email"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.Create(t.Context(), "user-without-profile", "parent@example.com"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without a profile, got %v", err)
	}
}

func TestInviteService_AcceptTwiceIsBadRequest(t *testing.T) {
	f := newInviteFixture(t)
	if _, err := f.svc.Create(t.Context(), "user-1", "parent@example.com"); err != nil {
		t.Fatalf("create invite: %v", err)
	}

	profile, err := f.svc.Accept(t.Context(), "parent-1", "token-abc")
	if err != nil {
		t.Fatalf("accept invite: %v", err)
	}
	if profile.ID != "ath-1" {
		t.Fatalf("unexpected linked athlete: %s", profile.ID)
	}

	if _, err := f.svc.Accept(t.Context(), "parent-1", "token-abc"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput on second accept, got %v", err)
	}

	linked, err := f.svc.ListLinkedAthletes(t.Context(), "parent-1")
	if err != nil {
		t.Fatalf("list linked athletes: %v", err)
	}
	if len(linked) != 1 || linked[0].ID != "ath-1" {
		t.Fatalf("unexpected linked athletes: %+v", linked)
	}

	unread, _ := f.notifications.CountUnread(t.Context(), "user-1")
	if unread != 1 {
		t.Fatalf("expected athlete to be notified, got %d", unread)
	}
}

func TestInviteService_AcceptUnknownOrExpired(t *testing.T) {
	f := newInviteFixture(t)
	if _, err := f.svc.Create(t.Context(), "user-1", "parent@example.com"); err != nil {
		t.Fatalf("create invite: %v", err)
	}

	if _, err := f.svc.Accept(t.Context(), "parent-1", "wrong-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	f.svc.now = func() time.Time { return testNow.Add(49 * time.Hour) }
	if _, err := f.svc.Accept(t.Context(), "parent-1", "token-abc"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for expired invite, got %v", err)
	}
}
