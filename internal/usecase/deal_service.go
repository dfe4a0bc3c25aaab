package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/compliance"
	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
)

const (
	defaultActionItemLimit = 50
	maxActionItemLimit     = 200
	maxDealListLimit       = 500
)

type SubmitDealInput struct {
	UserID            string
	AgencyID          string
	BrandName         string
	Description       string
	CompensationCents int64
	Deliverables      []string
	StartDate         *time.Time
	EndDate           *time.Time
}

type ReviewDealInput struct {
	ReviewerID string
	DealID     string
	Decision   string
	Note       string
}

type ListDealsInput struct {
	Principal user.Principal
	Statuses  []string
	Limit     int
}

type ActionItem struct {
	Deal     deal.Deal
	Athlete  athlete.Profile
	Reasons  []string
	AgeHours int
}

type DealService struct {
	dealRepo    deal.Repository
	athleteRepo athlete.Repository
	inviteRepo  invite.Repository
	notifier    *NotificationService
	idGen       idgen.Generator
	now         func() time.Time
}

func NewDealService(
	dealRepo deal.Repository,
	athleteRepo athlete.Repository,
	inviteRepo invite.Repository,
	notifier *NotificationService,
	idGen idgen.Generator,
) *DealService {
	return &DealService{
		dealRepo:    dealRepo,
		athleteRepo: athleteRepo,
		inviteRepo:  inviteRepo,
		notifier:    notifier,
		idGen:       idGen,
		now:         time.Now,
	}
}

func (s *DealService) Submit(ctx context.Context, input SubmitDealInput) (deal.Deal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DealService.Submit")
	defer span.End()

	input.BrandName = strings.TrimSpace(input.BrandName)
	if input.BrandName == "" {
		return deal.Deal{}, fmt.Errorf("%w: brand name is required", ErrInvalidInput)
	}
	if input.CompensationCents < 0 {
		return deal.Deal{}, fmt.Errorf("%w: compensation must be >= 0", ErrInvalidInput)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return deal.Deal{}, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}

	profile, exists, err := s.athleteRepo.GetByUserID(ctx, strings.TrimSpace(input.UserID))
	if err != nil {
		return deal.Deal{}, fmt.Errorf("get athlete profile: %w", err)
	}
	if !exists {
		return deal.Deal{}, fmt.Errorf("%w: create an athlete profile before submitting deals", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return deal.Deal{}, fmt.Errorf("generate deal id: %w", err)
	}

	now := s.now().UTC()
	d := deal.Deal{
		ID:                id,
		AthleteID:         profile.ID,
		AgencyID:          strings.TrimSpace(input.AgencyID),
		BrandName:         input.BrandName,
		Description:       strings.TrimSpace(input.Description),
		CompensationCents: input.CompensationCents,
		Deliverables:      normalizeList(input.Deliverables, func(v string) string { return v }),
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Status:            deal.StatusSubmitted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	d.RedFlags = submittedDealFlags(d)

	assessment := compliance.Evaluate(d, profile.FMVCents)
	d.ComplianceScore = assessment.Score
	d.RiskLevel = assessment.RiskLevel

	if err := s.dealRepo.Create(ctx, d); err != nil {
		recordSpanError(span, err)
		return deal.Deal{}, fmt.Errorf("create deal: %w", err)
	}

	parentIDs, err := s.inviteRepo.ListParentIDsByAthlete(ctx, profile.ID)
	if err != nil {
		if s.notifier != nil {
			s.notifier.logger.WarnContext(ctx, "list parents for deal notification failed", "athlete_id", profile.ID, "error", err)
		}
		return d, nil
	}
	for _, parentID := range parentIDs {
		s.notifier.NotifyBestEffort(ctx, NotifyInput{
			UserID: parentID,
			Kind:   notification.KindDealSubmitted,
			Title:  fmt.Sprintf("%s submitted a deal with %s", profile.FullName(), d.BrandName),
			Body:   fmt.Sprintf("Compliance score %d (%s risk).", d.ComplianceScore, d.RiskLevel),
			Link:   "/deals/" + d.ID,
		})
	}

	return d, nil
}

// submittedDealFlags drops the missing payment flag when a structured amount
// was provided.
func submittedDealFlags(d deal.Deal) []deal.RedFlag {
	flags := deal.DetectRedFlags(d.Text())
	if d.CompensationCents <= 0 {
		return flags
	}
	out := flags[:0]
	for _, f := range flags {
		if f.Code != deal.MissingPaymentTermsCode {
			out = append(out, f)
		}
	}
	return out
}

func (s *DealService) List(ctx context.Context, input ListDealsInput) ([]deal.Deal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DealService.List")
	defer span.End()

	statuses := make([]deal.Status, 0, len(input.Statuses))
	for _, raw := range input.Statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		status, ok := deal.ParseStatus(raw)
		if !ok {
			return nil, fmt.Errorf("%w: invalid deal status %q", ErrInvalidInput, raw)
		}
		statuses = append(statuses, status)
	}

	filter := deal.ListFilter{
		Statuses: statuses,
		Limit:    clampLimit(input.Limit, maxDealListLimit, maxDealListLimit),
	}

	p := input.Principal
	switch p.Role {
	case user.RoleAthlete:
		profile, exists, err := s.athleteRepo.GetByUserID(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("get athlete profile: %w", err)
		}
		if !exists {
			return []deal.Deal{}, nil
		}
		filter.AthleteIDs = []string{profile.ID}
	case user.RoleParent:
		ids, err := s.inviteRepo.ListAthleteIDsByParent(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("list linked athletes: %w", err)
		}
		if len(ids) == 0 {
			return []deal.Deal{}, nil
		}
		filter.AthleteIDs = ids
	case user.RoleAgency:
		filter.AgencyID = p.UserID
	case user.RoleComplianceOfficer, user.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: role cannot list deals", ErrForbidden)
	}

	items, err := s.dealRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	return items, nil
}

func (s *DealService) Get(ctx context.Context, p user.Principal, dealID string) (deal.Deal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DealService.Get")
	defer span.End()

	d, err := s.get(ctx, dealID)
	if err != nil {
		return deal.Deal{}, err
	}
	if err := s.authorizeView(ctx, p, d); err != nil {
		return deal.Deal{}, err
	}
	return d, nil
}

func (s *DealService) authorizeView(ctx context.Context, p user.Principal, d deal.Deal) error {
	switch p.Role {
	case user.RoleComplianceOfficer, user.RoleAdmin:
		return nil
	case user.RoleAgency:
		if d.AgencyID != "" && d.AgencyID == p.UserID {
			return nil
		}
	case user.RoleAthlete:
		profile, exists, err := s.athleteRepo.GetByUserID(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("get athlete profile: %w", err)
		}
		if exists && profile.ID == d.AthleteID {
			return nil
		}
	case user.RoleParent:
		linked, err := s.inviteRepo.IsLinked(ctx, p.UserID, d.AthleteID)
		if err != nil {
			return fmt.Errorf("check parent link: %w", err)
		}
		if linked {
			return nil
		}
	}
	return fmt.Errorf("%w: no access to this deal", ErrForbidden)
}

func (s *DealService) Review(ctx context.Context, input ReviewDealInput) (deal.Deal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DealService.Review")
	defer span.End()

	_, status, ok := deal.ParseDecision(input.Decision)
	if !ok {
		return deal.Deal{}, fmt.Errorf("%w: decision must be one of approve, reject, request_changes", ErrInvalidInput)
	}

	d, err := s.get(ctx, input.DealID)
	if err != nil {
		return deal.Deal{}, err
	}
	if !d.Status.IsOpen() {
		return deal.Deal{}, fmt.Errorf("%w: deal is already %s", ErrConflict, d.Status)
	}

	now := s.now().UTC()
	d.Status = status
	d.ReviewerID = strings.TrimSpace(input.ReviewerID)
	d.ReviewNote = strings.TrimSpace(input.Note)
	d.ReviewedAt = &now
	d.UpdatedAt = now

	updated, err := s.dealRepo.UpdateReview(ctx, d)
	if err != nil {
		recordSpanError(span, err)
		return deal.Deal{}, fmt.Errorf("update deal review: %w", err)
	}
	if !updated {
		return deal.Deal{}, fmt.Errorf("%w: deal was reviewed concurrently", ErrConflict)
	}

	if profile, exists, err := s.athleteRepo.GetByID(ctx, d.AthleteID); err == nil && exists && profile.UserID != "" {
		s.notifier.NotifyBestEffort(ctx, NotifyInput{
			UserID: profile.UserID,
			Kind:   notification.KindDealReviewed,
			Title:  fmt.Sprintf("Your %s deal was %s", d.BrandName, strings.ReplaceAll(string(d.Status), "_", " ")),
			Body:   d.ReviewNote,
			Link:   "/deals/" + d.ID,
		})
	}

	return d, nil
}

// ActionItems lists open deals, riskiest and oldest first.
func (s *DealService) ActionItems(ctx context.Context, limit int) ([]ActionItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DealService.ActionItems")
	defer span.End()

	open, err := s.dealRepo.List(ctx, deal.ListFilter{
		Statuses:  []deal.Status{deal.StatusSubmitted, deal.StatusUnderReview},
		RiskFirst: true,
		Limit:     clampLimit(limit, defaultActionItemLimit, maxActionItemLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("list open deals: %w", err)
	}

	ids := make([]string, 0, len(open))
	for _, d := range open {
		ids = append(ids, d.AthleteID)
	}
	profiles, err := s.athleteRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list deal athletes: %w", err)
	}
	byID := make(map[string]athlete.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	now := s.now().UTC()
	items := make([]ActionItem, 0, len(open))
	for _, d := range open {
		profile := byID[d.AthleteID]
		items = append(items, ActionItem{
			Deal:     d,
			Athlete:  profile,
			Reasons:  compliance.Evaluate(d, profile.FMVCents).Reasons,
			AgeHours: int(now.Sub(d.CreatedAt).Hours()),
		})
	}
	return items, nil
}

func (s *DealService) get(ctx context.Context, dealID string) (deal.Deal, error) {
	dealID = strings.TrimSpace(dealID)
	if dealID == "" {
		return deal.Deal{}, fmt.Errorf("%w: deal id is required", ErrInvalidInput)
	}
	d, exists, err := s.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return deal.Deal{}, fmt.Errorf("get deal: %w", err)
	}
	if !exists {
		return deal.Deal{}, fmt.Errorf("%w: deal not found", ErrNotFound)
	}
	return d, nil
}
