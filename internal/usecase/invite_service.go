package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	idgen "github.com/riskibarqy/nil-marketplace/internal/platform/id"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

const inviteTokenBytes = 32

var inputValidator = validator.New()

type InviteConfig struct {
	TTL       time.Duration
	PublicURL string
}

type CreatedInvite struct {
	Invite    invite.Invite
	AcceptURL string
}

type InviteView struct {
	Invite invite.Invite
	Status invite.Status
}

type emailEnqueuer interface {
	EnqueueEmail(ctx context.Context, email Email) error
}

type InviteService struct {
	inviteRepo  invite.Repository
	athleteRepo athlete.Repository
	notifier    *NotificationService
	mail        emailEnqueuer
	cfg         InviteConfig
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
	newToken    func(n int) (string, error)
}

func NewInviteService(
	inviteRepo invite.Repository,
	athleteRepo athlete.Repository,
	notifier *NotificationService,
	mail emailEnqueuer,
	cfg InviteConfig,
	idGen idgen.Generator,
	logger *logging.Logger,
) *InviteService {
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	if logger == nil {
		logger = logging.Default()
	}
	return &InviteService{
		inviteRepo:  inviteRepo,
		athleteRepo: athleteRepo,
		notifier:    notifier,
		mail:        mail,
		cfg:         cfg,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
		newToken:    idgen.NewToken,
	}
}

func (s *InviteService) Create(ctx context.Context, athleteUserID, parentEmail string) (CreatedInvite, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.Create")
	defer span.End()

	parentEmail = strings.ToLower(strings.TrimSpace(parentEmail))
	if err := inputValidator.Var(parentEmail, "required,email"); err != nil {
		return CreatedInvite{}, fmt.Errorf("%w: parent_email must be a valid e-mail address", ErrInvalidInput)
	}

	profile, exists, err := s.athleteRepo.GetByUserID(ctx, strings.TrimSpace(athleteUserID))
	if err != nil {
		return CreatedInvite{}, fmt.Errorf("get athlete profile: %w", err)
	}
	if !exists {
		return CreatedInvite{}, fmt.Errorf("%w: create an athlete profile before inviting a parent", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return CreatedInvite{}, fmt.Errorf("generate invite id: %w", err)
	}
	token, err := s.newToken(inviteTokenBytes)
	if err != nil {
		return CreatedInvite{}, fmt.Errorf("generate invite token: %w", err)
	}

	now := s.now().UTC()
	inv := invite.Invite{
		ID:          id,
		AthleteID:   profile.ID,
		ParentEmail: parentEmail,
		TokenHash:   idgen.HashToken(token),
		ExpiresAt:   now.Add(s.cfg.TTL),
		CreatedAt:   now,
	}
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		recordSpanError(span, err)
		return CreatedInvite{}, fmt.Errorf("create invite: %w", err)
	}

	acceptURL := s.cfg.PublicURL + "/invites/accept?token=" + url.QueryEscape(token)
	if s.mail != nil {
		err := s.mail.EnqueueEmail(ctx, Email{
			To:      parentEmail,
			Subject: fmt.Sprintf("%s invited you to follow their NIL activity", profile.FullName()),
			HTML: fmt.Sprintf(
				"<p>%s invited you to link your parent account.</p><p><a href=\"%s\">Accept invite</a></p><p>This link expires on %s.</p>",
				profile.FullName(), acceptURL, inv.ExpiresAt.Format("January 2, 2006"),
			),
			Text: fmt.Sprintf("%s invited you to link your parent account: %s", profile.FullName(), acceptURL),
		})
		if err != nil {
			s.logger.WarnContext(ctx, "enqueue invite email failed", "invite_id", inv.ID, "error", err)
		}
	}

	return CreatedInvite{Invite: inv, AcceptURL: acceptURL}, nil
}

func (s *InviteService) List(ctx context.Context, athleteUserID string) ([]InviteView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.List")
	defer span.End()

	profile, exists, err := s.athleteRepo.GetByUserID(ctx, strings.TrimSpace(athleteUserID))
	if err != nil {
		return nil, fmt.Errorf("get athlete profile: %w", err)
	}
	if !exists {
		return []InviteView{}, nil
	}

	items, err := s.inviteRepo.ListByAthlete(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}

	now := s.now()
	out := make([]InviteView, 0, len(items))
	for _, item := range items {
		out = append(out, InviteView{Invite: item, Status: item.StatusAt(now)})
	}
	return out, nil
}

func (s *InviteService) Accept(ctx context.Context, parentID, token string) (athlete.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.Accept")
	defer span.End()

	token = strings.TrimSpace(token)
	parentID = strings.TrimSpace(parentID)
	if token == "" {
		return athlete.Profile{}, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	inv, exists, err := s.inviteRepo.GetByTokenHash(ctx, idgen.HashToken(token))
	if err != nil {
		return athlete.Profile{}, fmt.Errorf("get invite: %w", err)
	}
	if !exists {
		return athlete.Profile{}, fmt.Errorf("%w: invite not found", ErrNotFound)
	}

	now := s.now().UTC()
	switch inv.StatusAt(now) {
	case invite.StatusAccepted:
		return athlete.Profile{}, fmt.Errorf("%w: invite already accepted", ErrInvalidInput)
	case invite.StatusExpired:
		return athlete.Profile{}, fmt.Errorf("%w: invite expired", ErrInvalidInput)
	}

	inv.AcceptedAt = &now
	inv.AcceptedBy = parentID
	if err := s.inviteRepo.Accept(ctx, inv, invite.Link{ParentID: parentID, AthleteID: inv.AthleteID, CreatedAt: now}); err != nil {
		if errors.Is(err, invite.ErrAlreadyAccepted) {
			return athlete.Profile{}, fmt.Errorf("%w: invite already accepted", ErrInvalidInput)
		}
		recordSpanError(span, err)
		return athlete.Profile{}, fmt.Errorf("accept invite: %w", err)
	}

	profile, exists, err := s.athleteRepo.GetByID(ctx, inv.AthleteID)
	if err != nil {
		return athlete.Profile{}, fmt.Errorf("get linked athlete: %w", err)
	}
	if !exists {
		return athlete.Profile{}, fmt.Errorf("%w: athlete not found", ErrNotFound)
	}

	if profile.UserID != "" {
		s.notifier.NotifyBestEffort(ctx, NotifyInput{
			UserID: profile.UserID,
			Kind:   notification.KindInviteAccepted,
			Title:  "Your parent accepted your invite",
			Body:   inv.ParentEmail + " can now follow your deals.",
			Link:   "/invites",
		})
	}
	return profile, nil
}

func (s *InviteService) ListLinkedAthletes(ctx context.Context, parentID string) ([]athlete.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InviteService.ListLinkedAthletes")
	defer span.End()

	ids, err := s.inviteRepo.ListAthleteIDsByParent(ctx, strings.TrimSpace(parentID))
	if err != nil {
		return nil, fmt.Errorf("list linked athlete ids: %w", err)
	}
	if len(ids) == 0 {
		return []athlete.Profile{}, nil
	}

	profiles, err := s.athleteRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list linked athletes: %w", err)
	}
	return profiles, nil
}
