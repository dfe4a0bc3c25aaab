package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/matching"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]matching.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[string]matching.Match)}
}

func (r *MatchRepository) Upsert(_ context.Context, m matching.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(m.CampaignID, m.AthleteID)
	if existing, ok := r.items[key]; ok {
		m.Status = existing.Status
		m.NotifiedAt = existing.NotifiedAt
		m.CreatedAt = existing.CreatedAt
	}
	if m.Status == "" {
		m.Status = matching.StatusNew
	}
	r.items[key] = m
	return nil
}

func (r *MatchRepository) Get(_ context.Context, campaignID, athleteID string) (matching.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[pairKey(campaignID, athleteID)]
	return m, ok, nil
}

func (r *MatchRepository) ListByCampaign(_ context.Context, filter matching.ListFilter) ([]matching.Match, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matching.Match, 0)
	for _, m := range r.items {
		if m.CampaignID == filter.CampaignID && m.Score >= filter.MinScore {
			out = append(out, m)
		}
	}
	sortByScore(out)

	total := len(out)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return out[start:end], total, nil
}

func (r *MatchRepository) ListByAthlete(_ context.Context, athleteID string) ([]matching.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matching.Match, 0)
	for _, m := range r.items {
		if m.AthleteID == athleteID {
			out = append(out, m)
		}
	}
	sortByScore(out)
	return out, nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, campaignID, athleteID string, status matching.Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(campaignID, athleteID)
	m, ok := r.items[key]
	if !ok {
		return false, nil
	}
	m.Status = status
	m.UpdatedAt = at
	r.items[key] = m
	return true, nil
}

func (r *MatchRepository) MarkNotified(_ context.Context, campaignID, athleteID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(campaignID, athleteID)
	if m, ok := r.items[key]; ok {
		m.NotifiedAt = &at
		r.items[key] = m
	}
	return nil
}

func sortByScore(items []matching.Match) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].AthleteID < items[j].AthleteID
	})
}
