package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/geo"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

type UpsertProfileInput struct {
	UserID             string
	Email              string
	FirstName          string
	LastName           string
	Sport              string
	Position           string
	School             string
	State              string
	GraduationYear     int
	InstagramFollowers int64
	TikTokFollowers    int64
	TwitterFollowers   int64
	EngagementRate     float64
	Bio                string
	OpenToDeals        bool
}

type DiscoverInput struct {
	Sport        string
	State        string
	MinFollowers int64
	MaxFMVCents  int64
	Query        string
	Paging       Paging
}

type DiscoveryPage struct {
	Items      []athlete.Profile
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

type SavedAthleteView struct {
	Saved   athlete.SavedAthlete
	Athlete athlete.Profile
}

type matchJobEnqueuer interface {
	EnqueueMatchRecompute(ctx context.Context, job MatchRecomputeJob) error
}

type AthleteService struct {
	athleteRepo athlete.Repository
	savedRepo   athlete.SavedRepository
	jobs        matchJobEnqueuer
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewAthleteService(
	athleteRepo athlete.Repository,
	savedRepo athlete.SavedRepository,
	jobs matchJobEnqueuer,
	idGen idgen.Generator,
	logger *logging.Logger,
) *AthleteService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AthleteService{
		athleteRepo: athleteRepo,
		savedRepo:   savedRepo,
		jobs:        jobs,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// UpsertMyProfile creates or replaces the caller's profile and recomputes FMV.
func (s *AthleteService) UpsertMyProfile(ctx context.Context, input UpsertProfileInput) (athlete.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AthleteService.UpsertMyProfile")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return athlete.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	existing, exists, err := s.athleteRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return athlete.Profile{}, fmt.Errorf("get athlete profile: %w", err)
	}

	now := s.now().UTC()
	profile := athlete.Profile{
		UserID:             input.UserID,
		FirstName:          strings.TrimSpace(input.FirstName),
		LastName:           strings.TrimSpace(input.LastName),
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		Sport:              athlete.NormalizeSport(input.Sport),
		Position:           strings.TrimSpace(input.Position),
		School:             strings.TrimSpace(input.School),
		State:              geo.NormalizeState(input.State),
		GraduationYear:     input.GraduationYear,
		InstagramFollowers: input.InstagramFollowers,
		TikTokFollowers:    input.TikTokFollowers,
		TwitterFollowers:   input.TwitterFollowers,
		EngagementRate:     input.EngagementRate,
		Bio:                strings.TrimSpace(input.Bio),
		OpenToDeals:        input.OpenToDeals,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if exists {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		if profile.Email == "" {
			profile.Email = existing.Email
		}
	} else {
		profile.ID, err = s.idGen.NewID()
		if err != nil {
			return athlete.Profile{}, fmt.Errorf("generate athlete id: %w", err)
		}
	}
	if err := profile.Validate(); err != nil {
		return athlete.Profile{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	profile.FMVCents = profile.ComputeFMV()

	if err := s.athleteRepo.Upsert(ctx, profile); err != nil {
		if errors.Is(err, athlete.ErrEmailTaken) {
			return athlete.Profile{}, fmt.Errorf("%w: email already used by another profile", ErrConflict)
		}
		recordSpanError(span, err)
		return athlete.Profile{}, fmt.Errorf("upsert athlete profile: %w", err)
	}

	if s.jobs != nil {
		if err := s.jobs.EnqueueMatchRecompute(ctx, MatchRecomputeJob{AthleteID: profile.ID}); err != nil {
			s.logger.WarnContext(ctx, "enqueue athlete match recompute failed", "athlete_id", profile.ID, "error", err)
		}
	}

	return profile, nil
}

func (s *AthleteService) GetMyProfile(ctx context.Context, userID string) (athlete.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AthleteService.GetMyProfile")
	defer span.End()

	profile, exists, err := s.athleteRepo.GetByUserID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return athlete.Profile{}, fmt.Errorf("get athlete profile: %w", err)
	}
	if !exists {
		return athlete.Profile{}, fmt.Errorf("%w: athlete profile not found", ErrNotFound)
	}
	return profile, nil
}

func (s *AthleteService) GetProfile(ctx context.Context, athleteID string) (athlete.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AthleteService.GetProfile")
	defer span.End()

	athleteID = strings.TrimSpace(athleteID)
	if athleteID == "" {
		return athlete.Profile{}, fmt.Errorf("%w: athlete id is required", ErrInvalidInput)
	}

	profile, exists, err := s.athleteRepo.GetByID(ctx, athleteID)
	if err != nil {
		return athlete.Profile{}, fmt.Errorf("get athlete profile: %w", err)
	}
	if !exists {
		return athlete.Profile{}, fmt.Errorf("%w: athlete not found", ErrNotFound)
	}
	return profile, nil
}

func (s *AthleteService) Discover(ctx context.Context, input DiscoverInput) (DiscoveryPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AthleteService.Discover")
	defer span.End()

	filter := athlete.DiscoveryFilter{
		Sport:        athlete.NormalizeSport(input.Sport),
		State:        geo.NormalizeState(input.State),
		MinFollowers: input.MinFollowers,
		MaxFMVCents:  input.MaxFMVCents,
		Query:        strings.TrimSpace(input.Query),
	}
	if filter.State != "" && !geo.IsState(filter.State) {
		return DiscoveryPage{}, fmt.Errorf("%w: invalid state %q", ErrInvalidInput, input.State)
	}
	if filter.MinFollowers < 0 || filter.MaxFMVCents < 0 {
		return DiscoveryPage{}, fmt.Errorf("%w: filters must be >= 0", ErrInvalidInput)
	}

	paging := input.Paging.normalize()
	filter.Limit = paging.PageSize
	filter.Offset = paging.offset()

	items, total, err := s.athleteRepo.Search(ctx, filter)
	if err != nil {
		recordSpanError(span, err)
		return DiscoveryPage{}, fmt.Errorf("search athletes: %w", err)
	}

	return DiscoveryPage{
		Items:      items,
		Total:      total,
		Page:       paging.Page,
		PageSize:   paging.PageSize,
		TotalPages: totalPages(total, paging.PageSize),
	}, nil
}

func (s *AthleteService) SaveAthlete(ctx context.Context, agencyID, athleteID, note string) (athlete.SavedAthlete, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AthleteService.SaveAthlete")
	defer span.End()

	agencyID = strings.TrimSpace(agencyID)
	athleteID = strings.TrimSpace(athleteID)
	if agencyID == "" || athleteID == "" {
		return athlete.SavedAthlete{}, fmt.Errorf("%w: agency id and athlete id are required", ErrInvalidInput)
	}

	if _, exists, err := s.athleteRepo.GetByID(ctx, athleteID); err != nil {
		return athlete.SavedAthlete{}, fmt.Errorf("get athlete for save: %w", err)
	} else if !exists {
		return athlete.SavedAthlete{}, fmt.Errorf("%w: athlete not found", ErrNotFound)
	}

	saved := athlete.SavedAthlete{
		AgencyID:  agencyID,
		AthleteID: athleteID,
		Note:      strings.TrimSpace(note),
		CreatedAt: s.now().UTC(),
	}
	if err := s.savedRepo.Save(ctx, saved); err != nil {
		if errors.Is(err, athlete.ErrAlreadySaved) {
			return athlete.SavedAthlete{}, fmt.Errorf("%w: athlete already saved", ErrConflict)
		}
		return athlete.SavedAthlete{}, fmt.Errorf("save athlete: %w", err)
	}
	return saved, nil
}

func (s *AthleteService) ListSaved(ctx context.Context, agencyID string) ([]SavedAthleteView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AthleteService.ListSaved")
	defer span.End()

	saved, err := s.savedRepo.ListByAgency(ctx, strings.TrimSpace(agencyID))
	if err != nil {
		return nil, fmt.Errorf("list saved athletes: %w", err)
	}

	ids := make([]string, 0, len(saved))
	for _, item := range saved {
		ids = append(ids, item.AthleteID)
	}
	profiles, err := s.athleteRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list saved athlete profiles: %w", err)
	}
	byID := make(map[string]athlete.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	out := make([]SavedAthleteView, 0, len(saved))
	for _, item := range saved {
		out = append(out, SavedAthleteView{Saved: item, Athlete: byID[item.AthleteID]})
	}
	return out, nil
}

func (s *AthleteService) RemoveSaved(ctx context.Context, agencyID, athleteID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AthleteService.RemoveSaved")
	defer span.End()

	removed, err := s.savedRepo.Delete(ctx, strings.TrimSpace(agencyID), strings.TrimSpace(athleteID))
	if err != nil {
		return fmt.Errorf("remove saved athlete: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: saved athlete not found", ErrNotFound)
	}
	return nil
}
