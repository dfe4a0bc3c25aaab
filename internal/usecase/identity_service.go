package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	"github.com/riskibarqy/nil-marketplace/internal/platform/cache"
	"github.com/riskibarqy/nil-marketplace/internal/platform/logging"
)

// TokenVerifier resolves a bearer token into the caller's principal.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (user.Principal, error)
}

type IdentityService struct {
	verifier TokenVerifier
	userRepo user.Repository
	synced   *cache.Store
	logger   *logging.Logger
	now      func() time.Time
}

// NewIdentityService mirrors verified principals into the users table. synced
// suppresses repeated upserts for the same principal and may be nil.
func NewIdentityService(verifier TokenVerifier, userRepo user.Repository, synced *cache.Store, logger *logging.Logger) *IdentityService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IdentityService{
		verifier: verifier,
		userRepo: userRepo,
		synced:   synced,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *IdentityService) Authenticate(ctx context.Context, token string) (user.Principal, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Authenticate")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	principal, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		recordSpanError(span, err)
		return user.Principal{}, err
	}

	if err := s.sync(ctx, principal); err != nil {
		s.logger.WarnContext(ctx, "sync user failed", "user_id", principal.UserID, "error", err)
	}
	return principal, nil
}

// Me returns the stored account for the principal, creating it when missing.
func (s *IdentityService) Me(ctx context.Context, p user.Principal) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityService.Me")
	defer span.End()

	u, exists, err := s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if exists && u.Role == p.Role && u.Email == p.Email {
		return u, nil
	}

	if err := s.upsert(ctx, p); err != nil {
		return user.User{}, err
	}
	u, exists, err = s.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return u, nil
}

func (s *IdentityService) sync(ctx context.Context, p user.Principal) error {
	key := "user:" + p.UserID + ":" + string(p.Role) + ":" + p.Email
	_, err := cache.Load(ctx, s.synced, key, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.upsert(ctx, p)
	})
	return err
}

func (s *IdentityService) upsert(ctx context.Context, p user.Principal) error {
	now := s.now().UTC()
	err := s.userRepo.Upsert(ctx, user.User{
		ID:        p.UserID,
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		FullName:  strings.TrimSpace(p.FullName),
		Role:      p.Role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
