package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
)

type AthleteRepository struct {
	mu    sync.RWMutex
	items map[string]athlete.Profile
}

func NewAthleteRepository(seed ...athlete.Profile) *AthleteRepository {
	items := make(map[string]athlete.Profile, len(seed))
	for _, p := range seed {
		items[p.ID] = p
	}
	return &AthleteRepository{items: items}
}

func (r *AthleteRepository) Upsert(_ context.Context, profile athlete.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(profile.Email, profile.ID) {
		return athlete.ErrEmailTaken
	}
	if existing, ok := r.items[profile.ID]; ok {
		profile.CreatedAt = existing.CreatedAt
	}
	r.items[profile.ID] = profile
	return nil
}

func (r *AthleteRepository) CreateBatch(_ context.Context, profiles []athlete.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		email := strings.ToLower(p.Email)
		if _, dup := seen[email]; dup || r.emailTakenLocked(p.Email, p.ID) {
			return athlete.ErrEmailTaken
		}
		seen[email] = struct{}{}
	}
	for _, p := range profiles {
		r.items[p.ID] = p
	}
	return nil
}

func (r *AthleteRepository) GetByID(_ context.Context, athleteID string) (athlete.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[athleteID]
	return p, ok, nil
}

func (r *AthleteRepository) GetByUserID(_ context.Context, userID string) (athlete.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if userID == "" {
		return athlete.Profile{}, false, nil
	}
	for _, p := range r.items {
		if p.UserID == userID {
			return p, true, nil
		}
	}
	return athlete.Profile{}, false, nil
}

func (r *AthleteRepository) ListByIDs(_ context.Context, athleteIDs []string) ([]athlete.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]athlete.Profile, 0, len(athleteIDs))
	for _, id := range athleteIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *AthleteRepository) ListOpenToDeals(_ context.Context) ([]athlete.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]athlete.Profile, 0, len(r.items))
	for _, p := range r.items {
		if p.OpenToDeals {
			out = append(out, p)
		}
	}
	sortByFollowers(out)
	return out, nil
}

func (r *AthleteRepository) Search(_ context.Context, filter athlete.DiscoveryFilter) ([]athlete.Profile, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	matched := make([]athlete.Profile, 0)
	for _, p := range r.items {
		switch {
		case !p.OpenToDeals:
			continue
		case filter.Sport != "" && p.Sport != filter.Sport:
			continue
		case filter.State != "" && p.State != filter.State:
			continue
		case filter.MinFollowers > 0 && p.FollowersTotal() < filter.MinFollowers:
			continue
		case filter.MaxFMVCents > 0 && p.FMVCents > filter.MaxFMVCents:
			continue
		case query != "" && !strings.Contains(strings.ToLower(p.FullName()+" "+p.School), query):
			continue
		}
		matched = append(matched, p)
	}
	sortByFollowers(matched)

	total := len(matched)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

func (r *AthleteRepository) ExistingEmails(_ context.Context, emails []string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := lowerSet(emails)
	out := make(map[string]struct{})
	for _, p := range r.items {
		email := strings.ToLower(p.Email)
		if _, ok := wanted[email]; ok && email != "" {
			out[email] = struct{}{}
		}
	}
	return out, nil
}

func (r *AthleteRepository) emailTakenLocked(email, exceptID string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for id, p := range r.items {
		if id != exceptID && strings.ToLower(p.Email) == email {
			return true
		}
	}
	return false
}

func sortByFollowers(items []athlete.Profile) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].FollowersTotal() != items[j].FollowersTotal() {
			return items[i].FollowersTotal() > items[j].FollowersTotal()
		}
		return items[i].ID < items[j].ID
	})
}

type SavedAthleteRepository struct {
	mu    sync.RWMutex
	items map[string]athlete.SavedAthlete
}

func NewSavedAthleteRepository() *SavedAthleteRepository {
	return &SavedAthleteRepository{items: make(map[string]athlete.SavedAthlete)}
}

func (r *SavedAthleteRepository) Save(_ context.Context, saved athlete.SavedAthlete) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(saved.AgencyID, saved.AthleteID)
	if _, ok := r.items[key]; ok {
		return athlete.ErrAlreadySaved
	}
	r.items[key] = saved
	return nil
}

func (r *SavedAthleteRepository) Delete(_ context.Context, agencyID, athleteID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(agencyID, athleteID)
	if _, ok := r.items[key]; !ok {
		return false, nil
	}
	delete(r.items, key)
	return true, nil
}

func (r *SavedAthleteRepository) ListByAgency(_ context.Context, agencyID string) ([]athlete.SavedAthlete, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]athlete.SavedAthlete, 0)
	for _, item := range r.items {
		if item.AgencyID == agencyID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].AthleteID < out[j].AthleteID
	})
	return out, nil
}

func pairKey(a, b string) string {
	return a + "::" + b
}
