package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
	dealmock "github.com/riskibarqy/nil-marketplace/internal/mocks/domain/deal"
	"github.com/stretchr/testify/mock"
)

func TestDealService_ReviewLostRaceUsingMockery(t *testing.T) {
	t.Parallel()

	repo := dealmock.NewRepository(t)
	svc := NewDealService(repo, memory.NewAthleteRepository(), memory.NewInviteRepository(), nil, &sequenceIDs{prefix: "deal"})
	svc.now = fixedClock

	repo.
		On("GetByID", mock.Anything, "deal-1").
		Return(deal.Deal{ID: "deal-1", AthleteID: "ath-1", Status: deal.StatusUnderReview}, true, nil).
		Once()
	repo.
		On("UpdateReview", mock.Anything, mock.MatchedBy(func(d deal.Deal) bool {
			return d.ID == "deal-1" && d.Status == deal.StatusChangesRequested && d.ReviewerID == "officer-1"
		})).
		Return(false, nil).
		Once()

	_, err := svc.Review(t.Context(), ReviewDealInput{ReviewerID: "officer-1", DealID: "deal-1", Decision: "request_changes"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestDealService_GetMissingUsingMockery(t *testing.T) {
	t.Parallel()

	repo := dealmock.NewRepository(t)
	svc := NewDealService(repo, memory.NewAthleteRepository(), memory.NewInviteRepository(), nil, &sequenceIDs{prefix: "deal"})

	repo.
		On("GetByID", mock.Anything, "missing").
		Return(deal.Deal{}, false, nil).
		Once()

	_, err := svc.Review(t.Context(), ReviewDealInput{DealID: "missing", Decision: "approve"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
