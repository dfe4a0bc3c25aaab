package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
	basecache "github.com/riskibarqy/nil-marketplace/internal/platform/cache"
)

const (
	athleteKeyPrefix  = "athlete:"
	campaignKeyPrefix = "campaign:"
)

type AthleteRepository struct {
	next  athlete.Repository
	cache *basecache.Store
}

func NewAthleteRepository(next athlete.Repository, cache *basecache.Store) *AthleteRepository {
	return &AthleteRepository{next: next, cache: cache}
}

func (r *AthleteRepository) Upsert(ctx context.Context, profile athlete.Profile) error {
	if err := r.next.Upsert(ctx, profile); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, athleteKeyPrefix)
	return nil
}

func (r *AthleteRepository) CreateBatch(ctx context.Context, profiles []athlete.Profile) error {
	if err := r.next.CreateBatch(ctx, profiles); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, athleteKeyPrefix)
	return nil
}

func (r *AthleteRepository) GetByID(ctx context.Context, athleteID string) (athlete.Profile, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, athleteKeyPrefix+"id:"+athleteID, func(ctx context.Context) (cachedProfile, error) {
		item, exists, err := r.next.GetByID(ctx, athleteID)
		return cachedProfile{value: item, exists: exists}, err
	})
	if err != nil {
		return athlete.Profile{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *AthleteRepository) GetByUserID(ctx context.Context, userID string) (athlete.Profile, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, athleteKeyPrefix+"user:"+userID, func(ctx context.Context) (cachedProfile, error) {
		item, exists, err := r.next.GetByUserID(ctx, userID)
		return cachedProfile{value: item, exists: exists}, err
	})
	if err != nil {
		return athlete.Profile{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *AthleteRepository) ListByIDs(ctx context.Context, athleteIDs []string) ([]athlete.Profile, error) {
	return r.next.ListByIDs(ctx, athleteIDs)
}

func (r *AthleteRepository) ListOpenToDeals(ctx context.Context) ([]athlete.Profile, error) {
	items, err := basecache.Load(ctx, r.cache, athleteKeyPrefix+"open", r.next.ListOpenToDeals)
	if err != nil {
		return nil, err
	}
	return append([]athlete.Profile(nil), items...), nil
}

func (r *AthleteRepository) Search(ctx context.Context, filter athlete.DiscoveryFilter) ([]athlete.Profile, int, error) {
	return r.next.Search(ctx, filter)
}

func (r *AthleteRepository) ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	return r.next.ExistingEmails(ctx, emails)
}

type cachedProfile struct {
	value  athlete.Profile
	exists bool
}

type CampaignRepository struct {
	next  campaign.Repository
	cache *basecache.Store
}

func NewCampaignRepository(next campaign.Repository, cache *basecache.Store) *CampaignRepository {
	return &CampaignRepository{next: next, cache: cache}
}

func (r *CampaignRepository) Create(ctx context.Context, c campaign.Campaign) error {
	if err := r.next.Create(ctx, c); err != nil {
		return err
	}
	r.cache.Delete(ctx, campaignKeyPrefix+"active")
	return nil
}

func (r *CampaignRepository) Update(ctx context.Context, c campaign.Campaign) error {
	if err := r.next.Update(ctx, c); err != nil {
		return err
	}
	r.cache.Delete(ctx, campaignKeyPrefix+"id:"+c.ID)
	r.cache.Delete(ctx, campaignKeyPrefix+"active")
	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, campaignID string) (campaign.Campaign, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, campaignKeyPrefix+"id:"+campaignID, func(ctx context.Context) (cachedCampaign, error) {
		item, exists, err := r.next.GetByID(ctx, campaignID)
		return cachedCampaign{value: item, exists: exists}, err
	})
	if err != nil {
		return campaign.Campaign{}, false, err
	}
	return cloneCampaign(cached.value), cached.exists, nil
}

func (r *CampaignRepository) ListByAgency(ctx context.Context, agencyID string) ([]campaign.Campaign, error) {
	return r.next.ListByAgency(ctx, agencyID)
}

func (r *CampaignRepository) ListActive(ctx context.Context) ([]campaign.Campaign, error) {
	items, err := basecache.Load(ctx, r.cache, campaignKeyPrefix+"active", r.next.ListActive)
	if err != nil {
		return nil, err
	}
	out := make([]campaign.Campaign, 0, len(items))
	for _, item := range items {
		out = append(out, cloneCampaign(item))
	}
	return out, nil
}

type cachedCampaign struct {
	value  campaign.Campaign
	exists bool
}

func cloneCampaign(c campaign.Campaign) campaign.Campaign {
	c.Sports = append([]string(nil), c.Sports...)
	c.TargetStates = append([]string(nil), c.TargetStates...)
	return c
}

// RosterImportRepository drops cached athlete reads once a commit inserts profiles.
type RosterImportRepository struct {
	roster.Repository
	cache *basecache.Store
}

func NewRosterImportRepository(next roster.Repository, cache *basecache.Store) *RosterImportRepository {
	return &RosterImportRepository{Repository: next, cache: cache}
}

func (r *RosterImportRepository) Commit(ctx context.Context, importID string, at time.Time, profiles []athlete.Profile) (bool, error) {
	committed, err := r.Repository.Commit(ctx, importID, at, profiles)
	if err != nil {
		return false, err
	}
	if committed && len(profiles) > 0 {
		r.cache.DeletePrefix(ctx, athleteKeyPrefix)
	}
	return committed, nil
}
