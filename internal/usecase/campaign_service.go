package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/geo"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

type CampaignInput struct {
	AgencyID       string
	Title          string
	Description    string
	Sports         []string
	TargetStates   []string
	MinFollowers   int64
	MinEngagement  float64
	BudgetMinCents int64
	BudgetMaxCents int64
	Status         string
}

type CampaignService struct {
	repo   campaign.Repository
	jobs   matchJobEnqueuer
	idGen  idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewCampaignService(repo campaign.Repository, jobs matchJobEnqueuer, idGen idgen.Generator, logger *logging.Logger) *CampaignService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CampaignService{
		repo:   repo,
		jobs:   jobs,
		idGen:  idGen,
		logger: logger,
		now:    time.Now,
	}
}

func (s *CampaignService) Create(ctx context.Context, input CampaignInput) (campaign.Campaign, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CampaignService.Create")
	defer span.End()

	c, err := s.fromInput(input)
	if err != nil {
		return campaign.Campaign{}, err
	}
	if c.Status == campaign.StatusClosed {
		return campaign.Campaign{}, fmt.Errorf("%w: a new campaign cannot be closed", ErrInvalidInput)
	}

	c.ID, err = s.idGen.NewID()
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("generate campaign id: %w", err)
	}
	now := s.now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.Create(ctx, c); err != nil {
		recordSpanError(span, err)
		return campaign.Campaign{}, fmt.Errorf("create campaign: %w", err)
	}

	if c.IsActive() {
		s.enqueueRecompute(ctx, c.ID)
	}
	return c, nil
}

func (s *CampaignService) ListMine(ctx context.Context, agencyID string) ([]campaign.Campaign, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CampaignService.ListMine")
	defer span.End()

	items, err := s.repo.ListByAgency(ctx, strings.TrimSpace(agencyID))
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return items, nil
}

// Get is visible to the owning agency and to everyone once the campaign is active.
func (s *CampaignService) Get(ctx context.Context, callerID, campaignID string) (campaign.Campaign, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CampaignService.Get")
	defer span.End()

	c, err := s.get(ctx, campaignID)
	if err != nil {
		return campaign.Campaign{}, err
	}
	if c.AgencyID != callerID && !c.IsActive() {
		return campaign.Campaign{}, fmt.Errorf("%w: campaign is not public", ErrForbidden)
	}
	return c, nil
}

func (s *CampaignService) Update(ctx context.Context, campaignID string, input CampaignInput) (campaign.Campaign, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CampaignService.Update")
	defer span.End()

	current, err := s.owned(ctx, input.AgencyID, campaignID)
	if err != nil {
		return campaign.Campaign{}, err
	}
	if current.Status == campaign.StatusClosed {
		return campaign.Campaign{}, fmt.Errorf("%w: campaign is closed", ErrConflict)
	}

	next, err := s.fromInput(input)
	if err != nil {
		return campaign.Campaign{}, err
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, next); err != nil {
		recordSpanError(span, err)
		return campaign.Campaign{}, fmt.Errorf("update campaign: %w", err)
	}

	if next.IsActive() {
		s.enqueueRecompute(ctx, next.ID)
	}
	return next, nil
}

func (s *CampaignService) Close(ctx context.Context, agencyID, campaignID string) (campaign.Campaign, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CampaignService.Close")
	defer span.End()

	c, err := s.owned(ctx, agencyID, campaignID)
	if err != nil {
		return campaign.Campaign{}, err
	}
	if c.Status == campaign.StatusClosed {
		return c, nil
	}

	c.Status = campaign.StatusClosed
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, c); err != nil {
		return campaign.Campaign{}, fmt.Errorf("close campaign: %w", err)
	}
	return c, nil
}

func (s *CampaignService) get(ctx context.Context, campaignID string) (campaign.Campaign, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return campaign.Campaign{}, fmt.Errorf("%w: campaign id is required", ErrInvalidInput)
	}
	c, exists, err := s.repo.GetByID(ctx, campaignID)
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	if !exists {
		return campaign.Campaign{}, fmt.Errorf("%w: campaign not found", ErrNotFound)
	}
	return c, nil
}

func (s *CampaignService) owned(ctx context.Context, agencyID, campaignID string) (campaign.Campaign, error) {
	c, err := s.get(ctx, campaignID)
	if err != nil {
		return campaign.Campaign{}, err
	}
	if c.AgencyID != strings.TrimSpace(agencyID) {
		return campaign.Campaign{}, fmt.Errorf("%w: campaign belongs to another agency", ErrForbidden)
	}
	return c, nil
}

func (s *CampaignService) fromInput(input CampaignInput) (campaign.Campaign, error) {
	agencyID := strings.TrimSpace(input.AgencyID)
	if agencyID == "" {
		return campaign.Campaign{}, fmt.Errorf("%w: agency id is required", ErrInvalidInput)
	}
	status, ok := campaign.ParseStatus(input.Status)
	if !ok {
		return campaign.Campaign{}, fmt.Errorf("%w: invalid campaign status %q", ErrInvalidInput, input.Status)
	}

	c := campaign.Campaign{
		AgencyID:       agencyID,
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Sports:         normalizeList(input.Sports, strings.ToLower),
		TargetStates:   normalizeList(input.TargetStates, geo.NormalizeState),
		MinFollowers:   input.MinFollowers,
		MinEngagement:  input.MinEngagement,
		BudgetMinCents: input.BudgetMinCents,
		BudgetMaxCents: input.BudgetMaxCents,
		Status:         status,
	}
	if err := c.Validate(); err != nil {
		return campaign.Campaign{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return c, nil
}

func (s *CampaignService) enqueueRecompute(ctx context.Context, campaignID string) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.EnqueueMatchRecompute(ctx, MatchRecomputeJob{CampaignID: campaignID}); err != nil {
		s.logger.WarnContext(ctx, "enqueue campaign match recompute failed", "campaign_id", campaignID, "error", err)
	}
}

// normalizeList trims, maps and de-duplicates while keeping order.
func normalizeList(items []string, fn func(string) string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		v := fn(strings.TrimSpace(item))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
