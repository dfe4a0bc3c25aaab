package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
)

type DealRepository struct {
	mu    sync.RWMutex
	items map[string]deal.Deal
}

func NewDealRepository() *DealRepository {
	return &DealRepository{items: make(map[string]deal.Deal)}
}

func (r *DealRepository) Create(_ context.Context, d deal.Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[d.ID]; ok {
		return fmt.Errorf("deal %s already exists", d.ID)
	}
	r.items[d.ID] = cloneDeal(d)
	return nil
}

func (r *DealRepository) UpdateReview(_ context.Context, d deal.Deal) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[d.ID]
	if !ok || !stored.Status.IsOpen() {
		return false, nil
	}
	stored.Status = d.Status
	stored.ReviewerID = d.ReviewerID
	stored.ReviewNote = d.ReviewNote
	stored.ReviewedAt = d.ReviewedAt
	stored.UpdatedAt = d.UpdatedAt
	r.items[d.ID] = stored
	return true, nil
}

func (r *DealRepository) GetByID(_ context.Context, dealID string) (deal.Deal, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.items[dealID]
	if !ok {
		return deal.Deal{}, false, nil
	}
	return cloneDeal(d), true, nil
}

func (r *DealRepository) List(_ context.Context, filter deal.ListFilter) ([]deal.Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]deal.Deal, 0)
	for _, d := range r.items {
		if len(filter.AthleteIDs) > 0 && !slices.Contains(filter.AthleteIDs, d.AthleteID) {
			continue
		}
		if filter.AgencyID != "" && d.AgencyID != filter.AgencyID {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, d.Status) {
			continue
		}
		out = append(out, cloneDeal(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.RiskFirst {
			if ri, rj := out[i].RiskLevel.Rank(), out[j].RiskLevel.Rank(); ri != rj {
				return ri < rj
			}
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			return out[i].ID < out[j].ID
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func cloneDeal(d deal.Deal) deal.Deal {
	copied := d
	copied.Deliverables = append([]string(nil), d.Deliverables...)
	copied.RedFlags = append([]deal.RedFlag(nil), d.RedFlags...)
	return copied
}
