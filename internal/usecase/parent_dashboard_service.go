package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"golang.org/x/sync/errgroup"
)

const recentApprovedDealsLimit = 10

type ParentDashboard struct {
	Athletes            []athlete.Profile
	PendingDeals        []deal.Deal
	RecentApprovedDeals []deal.Deal
	UnreadNotifications int
}

type ParentDashboardService struct {
	inviteRepo       invite.Repository
	athleteRepo      athlete.Repository
	dealRepo         deal.Repository
	notificationRepo notification.Repository
}

func NewParentDashboardService(
	inviteRepo invite.Repository,
	athleteRepo athlete.Repository,
	dealRepo deal.Repository,
	notificationRepo notification.Repository,
) *ParentDashboardService {
	return &ParentDashboardService{
		inviteRepo:       inviteRepo,
		athleteRepo:      athleteRepo,
		dealRepo:         dealRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *ParentDashboardService) Get(ctx context.Context, parentID string) (ParentDashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParentDashboardService.Get")
	defer span.End()

	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return ParentDashboard{}, fmt.Errorf("%w: parent id is required", ErrInvalidInput)
	}

	athleteIDs, err := s.inviteRepo.ListAthleteIDsByParent(ctx, parentID)
	if err != nil {
		return ParentDashboard{}, fmt.Errorf("list linked athletes: %w", err)
	}

	out := ParentDashboard{
		Athletes:            []athlete.Profile{},
		PendingDeals:        []deal.Deal{},
		RecentApprovedDeals: []deal.Deal{},
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(athleteIDs) > 0 {
		g.Go(func() error {
			profiles, err := s.athleteRepo.ListByIDs(gctx, athleteIDs)
			if err != nil {
				return fmt.Errorf("list athlete profiles: %w", err)
			}
			out.Athletes = profiles
			return nil
		})
		g.Go(func() error {
			pending, err := s.dealRepo.List(gctx, deal.ListFilter{
				AthleteIDs: athleteIDs,
				Statuses:   []deal.Status{deal.StatusSubmitted, deal.StatusUnderReview, deal.StatusChangesRequested},
				Limit:      maxDealListLimit,
			})
			if err != nil {
				return fmt.Errorf("list pending deals: %w", err)
			}
			out.PendingDeals = pending
			return nil
		})
		g.Go(func() error {
			approved, err := s.dealRepo.List(gctx, deal.ListFilter{
				AthleteIDs: athleteIDs,
				Statuses:   []deal.Status{deal.StatusApproved},
				Limit:      maxDealListLimit,
			})
			if err != nil {
				return fmt.Errorf("list approved deals: %w", err)
			}
			sort.SliceStable(approved, func(i, j int) bool {
				return reviewedOrUpdated(approved[i]).After(reviewedOrUpdated(approved[j]))
			})
			out.RecentApprovedDeals = approved[:min(len(approved), recentApprovedDealsLimit)]
			return nil
		})
	}
	g.Go(func() error {
		unread, err := s.notificationRepo.CountUnread(gctx, parentID)
		if err != nil {
			return fmt.Errorf("count unread notifications: %w", err)
		}
		out.UnreadNotifications = unread
		return nil
	})

	if err := g.Wait(); err != nil {
		recordSpanError(span, err)
		return ParentDashboard{}, err
	}
	return out, nil
}

func reviewedOrUpdated(d deal.Deal) time.Time {
	if d.ReviewedAt != nil {
		return *d.ReviewedAt
	}
	return d.UpdatedAt
}
