package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/matching"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type MatchConfig struct {
	Weights         matching.Weights
	NotifyThreshold int
	Workers         int
}

type RecomputeResult struct {
	Scored   int `json:"scored"`
	Notified int `json:"notified"`
	Failed   int `json:"failed"`
}

type MatchView struct {
	Match   matching.Match
	Athlete athlete.Profile
}

type MatchPage struct {
	Items      []MatchView
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

type AthleteMatchView struct {
	Match    matching.Match
	Campaign campaign.Campaign
}

type ListCampaignMatchesInput struct {
	AgencyID   string
	CampaignID string
	MinScore   int
	Paging     Paging
}

type MatchService struct {
	athleteRepo  athlete.Repository
	campaignRepo campaign.Repository
	matchRepo    matching.Repository
	notifier     *NotificationService
	cfg          MatchConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewMatchService(
	athleteRepo athlete.Repository,
	campaignRepo campaign.Repository,
	matchRepo matching.Repository,
	notifier *NotificationService,
	cfg MatchConfig,
	logger *logging.Logger,
) *MatchService {
	if cfg.Weights.Total() <= 0 {
		cfg.Weights = matching.DefaultWeights()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		athleteRepo:  athleteRepo,
		campaignRepo: campaignRepo,
		matchRepo:    matchRepo,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

type matchPair struct {
	athlete  athlete.Profile
	campaign campaign.Campaign
}

// RecomputeCampaign scores every open athlete against an active campaign.
func (s *MatchService) RecomputeCampaign(ctx context.Context, campaignID string) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecomputeCampaign", attribute.String("campaign_id", campaignID))
	defer span.End()

	c, exists, err := s.campaignRepo.GetByID(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("get campaign for recompute: %w", err)
	}
	if !exists {
		return RecomputeResult{}, fmt.Errorf("%w: campaign not found", ErrNotFound)
	}
	if !c.IsActive() {
		return RecomputeResult{}, nil
	}

	athletes, err := s.athleteRepo.ListOpenToDeals(ctx)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list open athletes: %w", err)
	}

	pairs := make([]matchPair, 0, len(athletes))
	for _, a := range athletes {
		pairs = append(pairs, matchPair{athlete: a, campaign: c})
	}

	result, err := s.scoreAll(ctx, pairs)
	recordSpanError(span, err)
	return result, err
}

// RecomputeAthlete scores one athlete against every active campaign.
func (s *MatchService) RecomputeAthlete(ctx context.Context, athleteID string) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RecomputeAthlete", attribute.String("athlete_id", athleteID))
	defer span.End()

	a, exists, err := s.athleteRepo.GetByID(ctx, strings.TrimSpace(athleteID))
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("get athlete for recompute: %w", err)
	}
	if !exists {
		return RecomputeResult{}, fmt.Errorf("%w: athlete not found", ErrNotFound)
	}

	campaigns, err := s.campaignRepo.ListActive(ctx)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list active campaigns: %w", err)
	}

	pairs := make([]matchPair, 0, len(campaigns))
	for _, c := range campaigns {
		pairs = append(pairs, matchPair{athlete: a, campaign: c})
	}

	result, err := s.scoreAll(ctx, pairs)
	recordSpanError(span, err)
	return result, err
}

func (s *MatchService) scoreAll(ctx context.Context, pairs []matchPair) (RecomputeResult, error) {
	if len(pairs) == 0 {
		return RecomputeResult{}, nil
	}

	pool, err := ants.NewPool(min(s.cfg.Workers, len(pairs)))
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var scored, notified, failed atomic.Int32
	var workers sync.WaitGroup
	var submitErr error
	for _, pair := range pairs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			didNotify, err := s.scoreOne(ctx, pair)
			if err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "score match failed",
					"campaign_id", pair.campaign.ID,
					"athlete_id", pair.athlete.ID,
					"error", err,
				)
				return
			}
			scored.Add(1)
			if didNotify {
				notified.Add(1)
			}
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit match to worker pool: %w", err)
			break
		}
	}
	workers.Wait()

	result := RecomputeResult{
		Scored:   int(scored.Load()),
		Notified: int(notified.Load()),
		Failed:   int(failed.Load()),
	}
	if submitErr != nil {
		return result, submitErr
	}
	return result, nil
}

func (s *MatchService) scoreOne(ctx context.Context, pair matchPair) (bool, error) {
	score, breakdown := matching.Score(pair.athlete, pair.campaign, s.cfg.Weights)
	now := s.now().UTC()

	existing, exists, err := s.matchRepo.Get(ctx, pair.campaign.ID, pair.athlete.ID)
	if err != nil {
		return false, fmt.Errorf("get existing match: %w", err)
	}

	m := matching.Match{
		CampaignID: pair.campaign.ID,
		AthleteID:  pair.athlete.ID,
		AgencyID:   pair.campaign.AgencyID,
		Score:      score,
		Breakdown:  breakdown,
		Status:     matching.StatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if exists {
		m.Status = existing.Status
		m.NotifiedAt = existing.NotifiedAt
		m.CreatedAt = existing.CreatedAt
	}
	if err := s.matchRepo.Upsert(ctx, m); err != nil {
		return false, fmt.Errorf("upsert match: %w", err)
	}

	if score < s.cfg.NotifyThreshold || m.NotifiedAt != nil || pair.athlete.UserID == "" || s.notifier == nil {
		return false, nil
	}

	if _, err := s.notifier.Notify(ctx, NotifyInput{
		UserID: pair.athlete.UserID,
		Kind:   notification.KindMatch,
		Title:  fmt.Sprintf("New %d%% match: %s", score, pair.campaign.Title),
		Body:   "An agency campaign fits your profile.",
		Link:   "/matches",
	}); err != nil {
		return false, err
	}
	if err := s.matchRepo.MarkNotified(ctx, m.CampaignID, m.AthleteID, now); err != nil {
		return false, fmt.Errorf("mark match notified: %w", err)
	}
	return true, nil
}

func (s *MatchService) ListCampaignMatches(ctx context.Context, input ListCampaignMatchesInput) (MatchPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListCampaignMatches")
	defer span.End()

	if _, err := s.ownedCampaign(ctx, input.AgencyID, input.CampaignID); err != nil {
		return MatchPage{}, err
	}

	paging := input.Paging.normalize()
	matches, total, err := s.matchRepo.ListByCampaign(ctx, matching.ListFilter{
		CampaignID: input.CampaignID,
		MinScore:   input.MinScore,
		Limit:      paging.PageSize,
		Offset:     paging.offset(),
	})
	if err != nil {
		return MatchPage{}, fmt.Errorf("list campaign matches: %w", err)
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.AthleteID)
	}
	profiles, err := s.athleteRepo.ListByIDs(ctx, ids)
	if err != nil {
		return MatchPage{}, fmt.Errorf("list matched athletes: %w", err)
	}
	byID := make(map[string]athlete.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	items := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		items = append(items, MatchView{Match: m, Athlete: byID[m.AthleteID]})
	}

	return MatchPage{
		Items:      items,
		Total:      total,
		Page:       paging.Page,
		PageSize:   paging.PageSize,
		TotalPages: totalPages(total, paging.PageSize),
	}, nil
}

func (s *MatchService) ListAthleteMatches(ctx context.Context, userID string) ([]AthleteMatchView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListAthleteMatches")
	defer span.End()

	profile, exists, err := s.athleteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get athlete profile: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: athlete profile not found", ErrNotFound)
	}

	matches, err := s.matchRepo.ListByAthlete(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list athlete matches: %w", err)
	}
	active, err := s.campaignRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active campaigns: %w", err)
	}
	byID := make(map[string]campaign.Campaign, len(active))
	for _, c := range active {
		byID[c.ID] = c
	}

	out := make([]AthleteMatchView, 0, len(matches))
	for _, m := range matches {
		c, ok := byID[m.CampaignID]
		if !ok || m.Status == matching.StatusDismissed {
			continue
		}
		out = append(out, AthleteMatchView{Match: m, Campaign: c})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Match.Score > out[j].Match.Score })
	return out, nil
}

func (s *MatchService) UpdateMatchStatus(ctx context.Context, agencyID, campaignID, athleteID, rawStatus string) (matching.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateMatchStatus")
	defer span.End()

	status, ok := matching.ParseStatus(rawStatus)
	if !ok {
		return matching.Match{}, fmt.Errorf("%w: status must be one of shortlisted, contacted, dismissed", ErrInvalidInput)
	}
	if _, err := s.ownedCampaign(ctx, agencyID, campaignID); err != nil {
		return matching.Match{}, err
	}

	athleteID = strings.TrimSpace(athleteID)
	updated, err := s.matchRepo.UpdateStatus(ctx, campaignID, athleteID, status, s.now().UTC())
	if err != nil {
		return matching.Match{}, fmt.Errorf("update match status: %w", err)
	}
	if !updated {
		return matching.Match{}, fmt.Errorf("%w: match not found", ErrNotFound)
	}

	m, _, err := s.matchRepo.Get(ctx, campaignID, athleteID)
	if err != nil {
		return matching.Match{}, fmt.Errorf("get updated match: %w", err)
	}
	return m, nil
}

func (s *MatchService) ownedCampaign(ctx context.Context, agencyID, campaignID string) (campaign.Campaign, error) {
	c, exists, err := s.campaignRepo.GetByID(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return campaign.Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	if !exists {
		return campaign.Campaign{}, fmt.Errorf("%w: campaign not found", ErrNotFound)
	}
	if c.AgencyID != agencyID {
		return campaign.Campaign{}, fmt.Errorf("%w: campaign belongs to another agency", ErrForbidden)
	}
	return c, nil
}
