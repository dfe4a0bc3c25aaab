package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
)

type dealFixture struct {
	svc           *DealService
	deals         *memory.DealRepository
	invites       *memory.InviteRepository
	notifications *memory.NotificationRepository
}

func newDealFixture(t *testing.T) dealFixture {
	t.Helper()

	deals := memory.NewDealRepository()
	invites := memory.NewInviteRepository()
	notifications := memory.NewNotificationRepository()
	athletes := memory.NewAthleteRepository(sampleProfile("ath-1", "user-1"), sampleProfile("ath-2", "user-2"))

	svc := NewDealService(deals, athletes, invites, newTestNotifier(notifications), &sequenceIDs{prefix: "deal"})
	svc.now = fixedClock

	return dealFixture{svc: svc, deals: deals, invites: invites, notifications: notifications}
}

func riskyDealInput() SubmitDealInput {
	return SubmitDealInput{
		UserID:            "user-1",
		BrandName:         "Lone Star Energy",
		Description:       "Exclusive rights to the athlete's likeness in perpetuity.",
		CompensationCents: 200_000,
	}
}

func safeDealInput() SubmitDealInput {
	end := testNow.AddDate(0, 6, 0)
	return SubmitDealInput{
		UserID:            "user-1",
		BrandName:         "Austin Tacos",
		Description:       "Two sponsored posts, paid $500.",
		CompensationCents: 50_000,
		Deliverables:      []string{"2 Instagram posts"},
		EndDate:           &end,
	}
}

func TestDealService_SubmitScoresAndNotifiesParents(t *testing.T) {
	f := newDealFixture(t)
	accepted := testNow
	if err := f.invites.Create(t.Context(), invite.Invite{ID: "inv-1", AthleteID: "ath-1", TokenHash: "h1", ExpiresAt: testNow.Add(time.Hour)}); err != nil {
		t.Fatalf("seed invite: %v", err)
	}
	if err := f.invites.Accept(t.Context(), invite.Invite{ID: "inv-1", AcceptedAt: &accepted, AcceptedBy: "parent-1"}, invite.Link{ParentID: "parent-1", AthleteID: "ath-1"}); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	d, err := f.svc.Submit(t.Context(), riskyDealInput())
	if err != nil {
		t.Fatalf("submit deal: %v", err)
	}

	// 100 - 25 (over 3x fmv) - 15 (perpetual) - 5 (exclusivity) - 10 (no deliverables) - 10 (no end date)
	if d.ComplianceScore != 35 || d.RiskLevel != deal.RiskHigh {
		t.Fatalf("unexpected score: got=%d risk=%s", d.ComplianceScore, d.RiskLevel)
	}
	if d.Status != deal.StatusSubmitted || d.AthleteID != "ath-1" {
		t.Fatalf("unexpected deal: %+v", d)
	}
	for _, flag := range d.RedFlags {
		if flag.Code == deal.MissingPaymentTermsCode {
			t.Fatalf("missing payment flag should be dropped when compensation is set")
		}
	}

	items, err := f.notifications.List(t.Context(), notification.ListFilter{UserID: "parent-1"})
	if err != nil {
		t.Fatalf("list parent notifications: %v", err)
	}
	if len(items) != 1 || items[0].Kind != notification.KindDealSubmitted {
		t.Fatalf("expected one deal notification for the parent, got %+v", items)
	}
}

func TestDealService_SubmitWithoutProfileIsInvalid(t *testing.T) {
	f := newDealFixture(t)

	input := safeDealInput()
	input.UserID = "user-without-profile"
	if _, err := f.svc.Submit(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDealService_ReviewTwiceConflicts(t *testing.T) {
	f := newDealFixture(t)
	d, err := f.svc.Submit(t.Context(), safeDealInput())
	if err != nil {
		t.Fatalf("submit deal: %v", err)
	}

	reviewed, err := f.svc.Review(t.Context(), ReviewDealInput{ReviewerID: "officer-1", DealID: d.ID, Decision: "approve", Note: "looks fine"})
	if err != nil {
		t.Fatalf("review deal: %v", err)
	}
	if reviewed.Status != deal.StatusApproved || reviewed.ReviewedAt == nil {
		t.Fatalf("unexpected reviewed deal: %+v", reviewed)
	}

	if _, err := f.svc.Review(t.Context(), ReviewDealInput{ReviewerID: "officer-1", DealID: d.ID, Decision: "reject"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second review, got %v", err)
	}
	if _, err := f.svc.Review(t.Context(), ReviewDealInput{DealID: d.ID, Decision: "maybe"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown decision, got %v", err)
	}

	unread, _ := f.notifications.CountUnread(t.Context(), "user-1")
	if unread != 1 {
		t.Fatalf("expected athlete to be notified once, got %d", unread)
	}
}

func TestDealService_GetEnforcesOwnership(t *testing.T) {
	f := newDealFixture(t)
	d, err := f.svc.Submit(t.Context(), safeDealInput())
	if err != nil {
		t.Fatalf("submit deal: %v", err)
	}

	tests := []struct {
		name      string
		principal user.Principal
		wantErr   error
	}{
		{name: "owner athlete", principal: user.Principal{UserID: "user-1", Role: user.RoleAthlete}},
		{name: "other athlete", principal: user.Principal{UserID: "user-2", Role: user.RoleAthlete}, wantErr: ErrForbidden},
		{name: "unlinked parent", principal: user.Principal{UserID: "parent-9", Role: user.RoleParent}, wantErr: ErrForbidden},
		{name: "compliance officer", principal: user.Principal{UserID: "officer-1", Role: user.RoleComplianceOfficer}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Get(t.Context(), tc.principal, d.ID)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestDealService_ActionItemsRiskiestFirst(t *testing.T) {
	f := newDealFixture(t)
	safe, err := f.svc.Submit(t.Context(), safeDealInput())
	if err != nil {
		t.Fatalf("submit safe deal: %v", err)
	}
	f.svc.now = func() time.Time { return testNow.Add(time.Hour) }
	risky, err := f.svc.Submit(t.Context(), riskyDealInput())
	if err != nil {
		t.Fatalf("submit risky deal: %v", err)
	}
	f.svc.now = func() time.Time { return testNow.Add(3 * time.Hour) }

	items, err := f.svc.ActionItems(t.Context(), 0)
	if err != nil {
		t.Fatalf("action items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two action items, got %d", len(items))
	}
	if items[0].Deal.ID != risky.ID || items[1].Deal.ID != safe.ID {
		t.Fatalf("expected risky deal first, got %s then %s", items[0].Deal.ID, items[1].Deal.ID)
	}
	if items[0].AgeHours != 2 || items[1].AgeHours != 3 {
		t.Fatalf("unexpected ages: %d %d", items[0].AgeHours, items[1].AgeHours)
	}
	if len(items[0].Reasons) == 0 || items[0].Athlete.ID != "ath-1" {
		t.Fatalf("expected reasons and athlete on action item: %+v", items[0])
	}
}

func TestDealService_ActionItemsKeepOldestRiskyDealInLargeBacklog(t *testing.T) {
	f := newDealFixture(t)
	seed := func(id string, risk deal.RiskLevel, createdAt time.Time) {
		t.Helper()
		err := f.deals.Create(t.Context(), deal.Deal{
			ID:        id,
			AthleteID: "ath-1",
			BrandName: "Brand " + id,
			Status:    deal.StatusSubmitted,
			RiskLevel: risk,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
		if err != nil {
			t.Fatalf("seed deal %s: %v", id, err)
		}
	}

	seed("deal-old-high", deal.RiskHigh, testNow.Add(-48*time.Hour))
	for i := range maxDealListLimit + 20 {
		seed(fmt.Sprintf("deal-low-%03d", i), deal.RiskLow, testNow.Add(time.Duration(i)*time.Minute))
	}
	seed("deal-new-high", deal.RiskHigh, testNow.Add(-time.Hour))

	items, err := f.svc.ActionItems(t.Context(), 10)
	if err != nil {
		t.Fatalf("action items: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("expected limit to apply, got %d items", len(items))
	}
	if items[0].Deal.ID != "deal-old-high" || items[1].Deal.ID != "deal-new-high" {
		t.Fatalf("expected high-risk deals oldest first, got %s then %s", items[0].Deal.ID, items[1].Deal.ID)
	}
	if items[2].Deal.ID != "deal-low-000" {
		t.Fatalf("expected oldest low-risk deal next, got %s", items[2].Deal.ID)
	}
}
