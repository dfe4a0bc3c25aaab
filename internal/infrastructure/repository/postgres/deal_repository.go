package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

const riskRankOrder = "CASE risk_level WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"

type DealRepository struct {
	db *sqlx.DB
}

func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, d deal.Deal) error {
	flags, err := marshalJSONB(nonNilFlags(d.RedFlags))
	if err != nil {
		return err
	}
	deliverables := d.Deliverables
	if deliverables == nil {
		deliverables = []string{}
	}
	query, args, err := qb.InsertModel("nil_deals", dealInsertModel{
		PublicID:          d.ID,
		AthleteID:         d.AthleteID,
		AgencyID:          nullableString(d.AgencyID),
		BrandName:         d.BrandName,
		Description:       d.Description,
		CompensationCents: d.CompensationCents,
		Deliverables:      deliverables,
		StartDate:         nullableTime(d.StartDate),
		EndDate:           nullableTime(d.EndDate),
		Status:            string(d.Status),
		RedFlags:          flags,
		ComplianceScore:   d.ComplianceScore,
		RiskLevel:         string(d.RiskLevel),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert deal query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert deal id=%s: %w", d.ID, err)
	}
	return nil
}

// UpdateReview applies the decision only while the stored deal is still open.
func (r *DealRepository) UpdateReview(ctx context.Context, d deal.Deal) (bool, error) {
	query, args, err := qb.Update("nil_deals").
		Set("status", string(d.Status)).
		SetIf(d.ReviewerID != "", "reviewer_id", nullableString(d.ReviewerID)).
		Set("review_note", d.ReviewNote).
		SetIf(d.ReviewedAt != nil, "reviewed_at", nullableTime(d.ReviewedAt)).
		Set("updated_at", d.UpdatedAt).
		Where(
			qb.Eq("public_id", d.ID),
			qb.In("status", []any{string(deal.StatusSubmitted), string(deal.StatusUnderReview)}),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update deal review query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update deal review id=%s: %w", d.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read updated deal rows: %w", err)
	}
	return affected == 1, nil
}

func (r *DealRepository) GetByID(ctx context.Context, dealID string) (deal.Deal, bool, error) {
	query, args, err := qb.Select(dealColumns).From("nil_deals").Where(qb.Eq("public_id", dealID)).ToSQL()
	if err != nil {
		return deal.Deal{}, false, fmt.Errorf("build select deal query: %w", err)
	}

	var row dealTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return deal.Deal{}, false, nil
		}
		return deal.Deal{}, false, fmt.Errorf("select deal id=%s: %w", dealID, err)
	}
	d, err := row.toDomain()
	if err != nil {
		return deal.Deal{}, false, err
	}
	return d, true, nil
}

func (r *DealRepository) List(ctx context.Context, filter deal.ListFilter) ([]deal.Deal, error) {
	conds := make([]qb.Condition, 0, 3)
	if len(filter.AthleteIDs) > 0 {
		conds = append(conds, qb.In("athlete_public_id", anySlice(filter.AthleteIDs)))
	}
	if filter.AgencyID != "" {
		conds = append(conds, qb.Eq("agency_id", filter.AgencyID))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]any, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		conds = append(conds, qb.In("status", statuses))
	}

	order := []string{"created_at DESC", "public_id"}
	if filter.RiskFirst {
		order = []string{riskRankOrder, "created_at ASC", "public_id"}
	}
	query, args, err := qb.Select(dealColumns).
		From("nil_deals").
		Where(conds...).
		OrderBy(order...).
		Limit(filter.Limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select deals query: %w", err)
	}

	var rows []dealTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select deals: %w", err)
	}
	out := make([]deal.Deal, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (m dealTableModel) toDomain() (deal.Deal, error) {
	flags := []deal.RedFlag{}
	if err := unmarshalJSONB(m.RedFlags, &flags); err != nil {
		return deal.Deal{}, fmt.Errorf("decode deal red flags id=%s: %w", m.PublicID, err)
	}
	return deal.Deal{
		ID:                m.PublicID,
		AthleteID:         m.AthleteID,
		AgencyID:          stringOrEmpty(m.AgencyID),
		BrandName:         m.BrandName,
		Description:       m.Description,
		CompensationCents: m.CompensationCents,
		Deliverables:      append([]string{}, m.Deliverables...),
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Status:            deal.Status(m.Status),
		RedFlags:          flags,
		ComplianceScore:   m.ComplianceScore,
		RiskLevel:         deal.RiskLevel(m.RiskLevel),
		ReviewerID:        stringOrEmpty(m.ReviewerID),
		ReviewNote:        m.ReviewNote,
		ReviewedAt:        m.ReviewedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}, nil
}

func nonNilFlags(flags []deal.RedFlag) []deal.RedFlag {
	if flags == nil {
		return []deal.RedFlag{}
	}
	return flags
}
