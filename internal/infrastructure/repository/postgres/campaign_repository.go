package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

type CampaignRepository struct {
	db *sqlx.DB
}

func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c campaign.Campaign) error {
	query, args, err := qb.InsertModel("agency_campaigns", toCampaignTableModel(c), "")
	if err != nil {
		return fmt.Errorf("build insert campaign query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert campaign id=%s: %w", c.ID, err)
	}
	return nil
}

func (r *CampaignRepository) Update(ctx context.Context, c campaign.Campaign) error {
	query, args, err := qb.Update("agency_campaigns").
		Set("title", c.Title).
		Set("description", c.Description).
		Set("sports", pq.StringArray(c.Sports)).
		Set("target_states", pq.StringArray(c.TargetStates)).
		Set("min_followers", c.MinFollowers).
		Set("min_engagement", c.MinEngagement).
		Set("budget_min_cents", c.BudgetMinCents).
		Set("budget_max_cents", c.BudgetMaxCents).
		Set("status", string(c.Status)).
		Set("updated_at", c.UpdatedAt).
		Where(qb.Eq("public_id", c.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update campaign query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update campaign id=%s: %w", c.ID, err)
	}
	return nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, campaignID string) (campaign.Campaign, bool, error) {
	query, args, err := qb.Select(campaignColumns).From("agency_campaigns").Where(qb.Eq("public_id", campaignID)).ToSQL()
	if err != nil {
		return campaign.Campaign{}, false, fmt.Errorf("build select campaign query: %w", err)
	}

	var row campaignTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return campaign.Campaign{}, false, nil
		}
		return campaign.Campaign{}, false, fmt.Errorf("select campaign id=%s: %w", campaignID, err)
	}
	return row.toDomain(), true, nil
}

func (r *CampaignRepository) ListByAgency(ctx context.Context, agencyID string) ([]campaign.Campaign, error) {
	return r.list(ctx, qb.Eq("agency_id", agencyID))
}

func (r *CampaignRepository) ListActive(ctx context.Context) ([]campaign.Campaign, error) {
	return r.list(ctx, qb.Eq("status", string(campaign.StatusActive)))
}

func (r *CampaignRepository) list(ctx context.Context, cond qb.Condition) ([]campaign.Campaign, error) {
	query, args, err := qb.Select(campaignColumns).
		From("agency_campaigns").
		Where(cond).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select campaigns query: %w", err)
	}

	var rows []campaignTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select campaigns: %w", err)
	}
	out := make([]campaign.Campaign, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (m campaignTableModel) toDomain() campaign.Campaign {
	return campaign.Campaign{
		ID:             m.PublicID,
		AgencyID:       m.AgencyID,
		Title:          m.Title,
		Description:    m.Description,
		Sports:         append([]string{}, m.Sports...),
		TargetStates:   append([]string{}, m.TargetStates...),
		MinFollowers:   m.MinFollowers,
		MinEngagement:  m.MinEngagement,
		BudgetMinCents: m.BudgetMinCents,
		BudgetMaxCents: m.BudgetMaxCents,
		Status:         campaign.Status(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toCampaignTableModel(c campaign.Campaign) campaignTableModel {
	sports := c.Sports
	if sports == nil {
		sports = []string{}
	}
	states := c.TargetStates
	if states == nil {
		states = []string{}
	}
	return campaignTableModel{
		PublicID:       c.ID,
		AgencyID:       c.AgencyID,
		Title:          c.Title,
		Description:    c.Description,
		Sports:         sports,
		TargetStates:   states,
		MinFollowers:   c.MinFollowers,
		MinEngagement:  c.MinEngagement,
		BudgetMinCents: c.BudgetMinCents,
		BudgetMaxCents: c.BudgetMaxCents,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
