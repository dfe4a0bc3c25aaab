package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[string]user.User)}
}

func (r *UserRepository) Upsert(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[u.ID]; ok {
		u.CreatedAt = existing.CreatedAt
	}
	r.items[u.ID] = u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[userID]
	return u, ok, nil
}

func (r *UserRepository) ExistingEmails(_ context.Context, emails []string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := lowerSet(emails)
	out := make(map[string]struct{})
	for _, u := range r.items {
		email := strings.ToLower(u.Email)
		if _, ok := wanted[email]; ok {
			out[email] = struct{}{}
		}
	}
	return out, nil
}

func lowerSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	return out
}
