package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
)

type InviteRepository struct {
	mu      sync.RWMutex
	invites map[string]invite.Invite
	links   map[string]invite.Link
}

func NewInviteRepository() *InviteRepository {
	return &InviteRepository{
		invites: make(map[string]invite.Invite),
		links:   make(map[string]invite.Link),
	}
}

func (r *InviteRepository) Create(_ context.Context, inv invite.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.invites {
		if existing.TokenHash == inv.TokenHash {
			return fmt.Errorf("invite token hash collision")
		}
	}
	r.invites[inv.ID] = inv
	return nil
}

func (r *InviteRepository) GetByTokenHash(_ context.Context, tokenHash string) (invite.Invite, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, inv := range r.invites {
		if inv.TokenHash == tokenHash {
			return inv, true, nil
		}
	}
	return invite.Invite{}, false, nil
}

func (r *InviteRepository) ListByAthlete(_ context.Context, athleteID string) ([]invite.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]invite.Invite, 0)
	for _, inv := range r.invites {
		if inv.AthleteID == athleteID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InviteRepository) Accept(_ context.Context, inv invite.Invite, link invite.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.invites[inv.ID]
	if !ok {
		return fmt.Errorf("invite %s not found", inv.ID)
	}
	if stored.AcceptedAt != nil {
		return invite.ErrAlreadyAccepted
	}
	stored.AcceptedAt = inv.AcceptedAt
	stored.AcceptedBy = inv.AcceptedBy
	r.invites[inv.ID] = stored

	key := pairKey(link.ParentID, link.AthleteID)
	if _, exists := r.links[key]; !exists {
		r.links[key] = link
	}
	return nil
}

func (r *InviteRepository) ListAthleteIDsByParent(_ context.Context, parentID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, link := range r.links {
		if link.ParentID == parentID {
			out = append(out, link.AthleteID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *InviteRepository) ListParentIDsByAthlete(_ context.Context, athleteID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for _, link := range r.links {
		if link.AthleteID == athleteID {
			out = append(out, link.ParentID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *InviteRepository) IsLinked(_ context.Context, parentID, athleteID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.links[pairKey(parentID, athleteID)]
	return ok, nil
}
