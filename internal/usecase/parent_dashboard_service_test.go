package usecase

import (
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

func TestParentDashboardService_Get(t *testing.T) {
	ctx := t.Context()
	invites := memory.NewInviteRepository()
	deals := memory.NewDealRepository()
	notifications := memory.NewNotificationRepository()
	athletes := memory.NewAthleteRepository(sampleProfile("ath-1", "user-1"), sampleProfile("ath-2", "user-2"))

	accepted := testNow
	require.NoError(t, invites.Create(ctx, invite.Invite{ID: "inv-1", AthleteID: "ath-1", TokenHash: "h1", ExpiresAt: testNow.Add(time.Hour)}))
	require.NoError(t, invites.Accept(ctx, invite.Invite{ID: "inv-1", AcceptedAt: &accepted, AcceptedBy: "parent-1"}, invite.Link{ParentID: "parent-1", AthleteID: "ath-1"}))

	reviewedEarly := testNow.Add(-48 * time.Hour)
	reviewedLate := testNow.Add(-time.Hour)
	for _, d := range []deal.Deal{
		{ID: "d-pending", AthleteID: "ath-1", Status: deal.StatusSubmitted, CreatedAt: testNow},
		{ID: "d-old", AthleteID: "ath-1", Status: deal.StatusApproved, ReviewedAt: &reviewedEarly, CreatedAt: testNow.Add(-72 * time.Hour)},
		{ID: "d-new", AthleteID: "ath-1", Status: deal.StatusApproved, ReviewedAt: &reviewedLate, CreatedAt: testNow.Add(-96 * time.Hour)},
		{ID: "d-other", AthleteID: "ath-2", Status: deal.StatusSubmitted, CreatedAt: testNow},
	} {
		require.NoError(t, deals.Create(ctx, d))
	}
	require.NoError(t, notifications.Create(ctx, notification.Notification{ID: "n-1", UserID: "parent-1", Title: "x", CreatedAt: testNow}))

	svc := NewParentDashboardService(invites, athletes, deals, notifications)
	got, err := svc.Get(ctx, "parent-1")
	require.NoError(t, err)

	require.Len(t, got.Athletes, 1)
	require.Equal(t, "ath-1", got.Athletes[0].ID)
	require.Len(t, got.PendingDeals, 1)
	require.Equal(t, "d-pending", got.PendingDeals[0].ID)
	require.Len(t, got.RecentApprovedDeals, 2)
	require.Equal(t, "d-new", got.RecentApprovedDeals[0].ID)
	require.Equal(t, 1, got.UnreadNotifications)
}

func TestParentDashboardService_NoLinkedAthletes(t *testing.T) {
	svc := NewParentDashboardService(memory.NewInviteRepository(), memory.NewAthleteRepository(), memory.NewDealRepository(), memory.NewNotificationRepository())

	got, err := svc.Get(t.Context(), "parent-1")
	require.NoError(t, err)
	require.Empty(t, got.Athletes)
	require.Empty(t, got.PendingDeals)
	require.Zero(t, got.UnreadNotifications)
}
