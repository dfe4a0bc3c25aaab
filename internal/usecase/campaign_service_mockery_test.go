package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	campaignmock "github.com/riskibarqy/nil-marketplace/internal/mocks/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestCampaignService_CreateActiveEnqueuesRecomputeUsingMockery(t *testing.T) {
	t.Parallel()

	repo := campaignmock.NewRepository(t)
	jobs := &recordingJobs{}
	svc := NewCampaignService(repo, jobs, &sequenceIDs{prefix: "cmp"}, logging.NewNop())
	svc.now = fixedClock

	repo.
		On("Create", mock.Anything, mock.MatchedBy(func(c campaign.Campaign) bool {
			return c.ID == "cmp-1" && c.AgencyID == "agency-1" && c.Status == campaign.StatusActive &&
				len(c.TargetStates) == 1 && c.TargetStates[0] == "TX"
		})).
		Return(nil).
		Once()

	got, err := svc.Create(t.Context(), CampaignInput{
		AgencyID:       "agency-1",
		Title:          "  Fall drop  ",
		Sports:         []string{"Football"},
		TargetStates:   []string{"tx"},
		BudgetMinCents: 10_000,
		BudgetMaxCents: 50_000,
		Status:         "active",
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if got.Title != "Fall drop" {
		t.Fatalf("expected trimmed title, got %q", got.Title)
	}
	if len(jobs.recompute) != 1 || jobs.recompute[0].CampaignID != "cmp-1" {
		t.Fatalf("expected campaign recompute job, got %+v", jobs.recompute)
	}
}

func TestCampaignService_CreateRejectsInvertedBudgetUsingMockery(t *testing.T) {
	t.Parallel()

	repo := campaignmock.NewRepository(t)
	svc := NewCampaignService(repo, nil, &sequenceIDs{prefix: "cmp"}, logging.NewNop())

	_, err := svc.Create(t.Context(), CampaignInput{
		AgencyID:       "agency-1",
		Title:          "Fall drop",
		BudgetMinCents: 90_000,
		BudgetMaxCents: 10_000,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCampaignService_UpdateByOtherAgencyForbiddenUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := campaignmock.NewRepository(t)
	svc := NewCampaignService(repo, nil, &sequenceIDs{prefix: "cmp"}, logging.NewNop())

	repo.
		On("GetByID", mock.Anything, "cmp-1").
		Return(campaign.Campaign{ID: "cmp-1", AgencyID: "agency-1", Title: "Fall drop", Status: campaign.StatusDraft}, true, nil).
		Once()

	_, err := svc.Update(ctx, "cmp-1", CampaignInput{AgencyID: "agency-2", Title: "Hijack"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCampaignService_GetDraftHiddenFromOthersUsingMockery(t *testing.T) {
	t.Parallel()

	repo := campaignmock.NewRepository(t)
	svc := NewCampaignService(repo, nil, &sequenceIDs{prefix: "cmp"}, logging.NewNop())

	repo.
		On("GetByID", mock.Anything, "cmp-1").
		Return(campaign.Campaign{ID: "cmp-1", AgencyID: "agency-1", Status: campaign.StatusDraft}, true, nil).
		Twice()

	if _, err := svc.Get(t.Context(), "athlete-user", "cmp-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for draft, got %v", err)
	}
	if _, err := svc.Get(t.Context(), "agency-1", "cmp-1"); err != nil {
		t.Fatalf("owner get: %v", err)
	}
}
