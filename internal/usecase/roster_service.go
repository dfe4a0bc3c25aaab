package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
)

type RosterPreview struct {
	Import roster.Import
	Page   roster.Page
}

type RosterCommitResult struct {
	ImportID string `json:"import_id"`
	Created  int    `json:"created"`
	Skipped  int    `json:"skipped"`
}

type RosterService struct {
	importRepo  roster.Repository
	athleteRepo athlete.Repository
	userRepo    user.Repository
	idGen       idgen.Generator
	now         func() time.Time
}

func NewRosterService(importRepo roster.Repository, athleteRepo athlete.Repository, userRepo user.Repository, idGen idgen.Generator) *RosterService {
	return &RosterService{
		importRepo:  importRepo,
		athleteRepo: athleteRepo,
		userRepo:    userRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

// Validate parses and checks a roster CSV and keeps the result for commit.
func (s *RosterService) Validate(ctx context.Context, agencyID string, csv io.Reader, page, pageSize int) (RosterPreview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Validate")
	defer span.End()

	agencyID = strings.TrimSpace(agencyID)
	if agencyID == "" {
		return RosterPreview{}, fmt.Errorf("%w: agency id is required", ErrInvalidInput)
	}

	rows, err := roster.Parse(csv)
	if err != nil {
		if errors.Is(err, roster.ErrInvalidHeader) || errors.Is(err, roster.ErrTooManyRows) || errors.Is(err, roster.ErrEmptyRoster) {
			return RosterPreview{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return RosterPreview{}, fmt.Errorf("%w: malformed csv: %v", ErrInvalidInput, err)
	}

	registered, err := s.registeredEmails(ctx, roster.Emails(rows))
	if err != nil {
		return RosterPreview{}, err
	}

	now := s.now().UTC()
	roster.Check(rows, roster.Options{Now: now, Registered: registered})

	id, err := s.idGen.NewID()
	if err != nil {
		return RosterPreview{}, fmt.Errorf("generate import id: %w", err)
	}
	imp := roster.Import{
		ID:        id,
		AgencyID:  agencyID,
		Rows:      rows,
		CreatedAt: now,
	}
	imp.Summarize()

	if err := s.importRepo.Save(ctx, imp); err != nil {
		recordSpanError(span, err)
		return RosterPreview{}, fmt.Errorf("save roster import: %w", err)
	}

	return RosterPreview{Import: imp, Page: imp.Paginate(page, pageSize)}, nil
}

func (s *RosterService) Get(ctx context.Context, agencyID, importID string, page, pageSize int) (RosterPreview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Get")
	defer span.End()

	imp, err := s.owned(ctx, agencyID, importID)
	if err != nil {
		return RosterPreview{}, err
	}
	return RosterPreview{Import: imp, Page: imp.Paginate(page, pageSize)}, nil
}

// Commit creates athlete profiles for every valid row not already registered.
func (s *RosterService) Commit(ctx context.Context, agencyID, importID string) (RosterCommitResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.Commit")
	defer span.End()

	imp, err := s.owned(ctx, agencyID, importID)
	if err != nil {
		return RosterCommitResult{}, err
	}
	if imp.CommittedAt != nil {
		return RosterCommitResult{}, fmt.Errorf("%w: import already committed", ErrConflict)
	}

	valid := imp.ValidRowsOnly()
	emails := make([]string, 0, len(valid))
	for _, row := range valid {
		emails = append(emails, row.Email)
	}
	registered, err := s.registeredEmails(ctx, emails)
	if err != nil {
		return RosterCommitResult{}, err
	}

	now := s.now().UTC()
	profiles := make([]athlete.Profile, 0, len(valid))
	for _, row := range valid {
		if _, taken := registered[row.Email]; taken {
			continue
		}
		id, err := s.idGen.NewID()
		if err != nil {
			return RosterCommitResult{}, fmt.Errorf("generate athlete id: %w", err)
		}
		p := row.ToProfile()
		p.ID = id
		p.FMVCents = p.ComputeFMV()
		p.CreatedAt = now
		p.UpdatedAt = now
		profiles = append(profiles, p)
	}

	committed, err := s.importRepo.Commit(ctx, imp.ID, now, profiles)
	if err != nil {
		recordSpanError(span, err)
		if errors.Is(err, athlete.ErrEmailTaken) {
			return RosterCommitResult{}, fmt.Errorf("%w: roster rows were registered concurrently", ErrConflict)
		}
		return RosterCommitResult{}, fmt.Errorf("commit roster import: %w", err)
	}
	if !committed {
		return RosterCommitResult{}, fmt.Errorf("%w: import already committed", ErrConflict)
	}

	return RosterCommitResult{
		ImportID: imp.ID,
		Created:  len(profiles),
		Skipped:  imp.TotalRows - len(profiles),
	}, nil
}

func (s *RosterService) owned(ctx context.Context, agencyID, importID string) (roster.Import, error) {
	importID = strings.TrimSpace(importID)
	if importID == "" {
		return roster.Import{}, fmt.Errorf("%w: import id is required", ErrInvalidInput)
	}
	imp, exists, err := s.importRepo.Get(ctx, importID)
	if err != nil {
		return roster.Import{}, fmt.Errorf("get roster import: %w", err)
	}
	if !exists {
		return roster.Import{}, fmt.Errorf("%w: import not found", ErrNotFound)
	}
	if imp.AgencyID != strings.TrimSpace(agencyID) {
		return roster.Import{}, fmt.Errorf("%w: import belongs to another agency", ErrForbidden)
	}
	return imp, nil
}

func (s *RosterService) registeredEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	if len(emails) == 0 {
		return out, nil
	}

	fromAthletes, err := s.athleteRepo.ExistingEmails(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("lookup athlete emails: %w", err)
	}
	for email := range fromAthletes {
		out[email] = struct{}{}
	}

	if s.userRepo != nil {
		fromUsers, err := s.userRepo.ExistingEmails(ctx, emails)
		if err != nil {
			return nil, fmt.Errorf("lookup user emails: %w", err)
		}
		for email := range fromUsers {
			out[email] = struct{}{}
		}
	}
	return out, nil
}
