package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
)

type CampaignRepository struct {
	mu    sync.RWMutex
	items map[string]campaign.Campaign
}

func NewCampaignRepository() *CampaignRepository {
	return &CampaignRepository{items: make(map[string]campaign.Campaign)}
}

func (r *CampaignRepository) Create(_ context.Context, c campaign.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; ok {
		return fmt.Errorf("campaign %s already exists", c.ID)
	}
	r.items[c.ID] = cloneCampaign(c)
	return nil
}

func (r *CampaignRepository) Update(_ context.Context, c campaign.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.ID]; !ok {
		return fmt.Errorf("campaign %s not found", c.ID)
	}
	r.items[c.ID] = cloneCampaign(c)
	return nil
}

func (r *CampaignRepository) GetByID(_ context.Context, campaignID string) (campaign.Campaign, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[campaignID]
	if !ok {
		return campaign.Campaign{}, false, nil
	}
	return cloneCampaign(c), true, nil
}

func (r *CampaignRepository) ListByAgency(_ context.Context, agencyID string) ([]campaign.Campaign, error) {
	return r.list(func(c campaign.Campaign) bool { return c.AgencyID == agencyID }), nil
}

func (r *CampaignRepository) ListActive(_ context.Context) ([]campaign.Campaign, error) {
	return r.list(campaign.Campaign.IsActive), nil
}

func (r *CampaignRepository) list(keep func(campaign.Campaign) bool) []campaign.Campaign {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]campaign.Campaign, 0)
	for _, c := range r.items {
		if keep(c) {
			out = append(out, cloneCampaign(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneCampaign(c campaign.Campaign) campaign.Campaign {
	copied := c
	copied.Sports = append([]string(nil), c.Sports...)
	copied.TargetStates = append([]string(nil), c.TargetStates...)
	return copied
}
