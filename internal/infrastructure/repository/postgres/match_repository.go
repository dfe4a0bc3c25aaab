package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/domain/matching"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

const matchColumns = "campaign_public_id, athlete_public_id, agency_id, score, breakdown, status, notified_at, created_at, updated_at"

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert refreshes score and breakdown; status, notified_at and created_at survive recomputes.
func (r *MatchRepository) Upsert(ctx context.Context, m matching.Match) error {
	const query = `
INSERT INTO agency_athlete_matches (
    campaign_public_id, athlete_public_id, agency_id, score, breakdown, status, created_at, updated_at
)
VALUES (:campaign_public_id, :athlete_public_id, :agency_id, :score, :breakdown, :status, :created_at, :updated_at)
ON CONFLICT (campaign_public_id, athlete_public_id)
DO UPDATE SET
    agency_id = EXCLUDED.agency_id,
    score = EXCLUDED.score,
    breakdown = EXCLUDED.breakdown,
    updated_at = EXCLUDED.updated_at`

	breakdown, err := marshalJSONB(m.Breakdown)
	if err != nil {
		return err
	}
	status := m.Status
	if status == "" {
		status = matching.StatusNew
	}
	model := matchTableModel{
		CampaignID: m.CampaignID,
		AthleteID:  m.AthleteID,
		AgencyID:   m.AgencyID,
		Score:      m.Score,
		Breakdown:  breakdown,
		Status:     string(status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("upsert match campaign=%s athlete=%s: %w", m.CampaignID, m.AthleteID, err)
	}
	return nil
}

func (r *MatchRepository) Get(ctx context.Context, campaignID, athleteID string) (matching.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).
		From("agency_athlete_matches").
		Where(qb.Eq("campaign_public_id", campaignID), qb.Eq("athlete_public_id", athleteID)).
		ToSQL()
	if err != nil {
		return matching.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matching.Match{}, false, nil
		}
		return matching.Match{}, false, fmt.Errorf("select match campaign=%s athlete=%s: %w", campaignID, athleteID, err)
	}
	m, err := row.toDomain()
	if err != nil {
		return matching.Match{}, false, err
	}
	return m, true, nil
}

func (r *MatchRepository) ListByCampaign(ctx context.Context, filter matching.ListFilter) ([]matching.Match, int, error) {
	conds := []qb.Condition{qb.Eq("campaign_public_id", filter.CampaignID)}
	if filter.MinScore > 0 {
		conds = append(conds, qb.Gte("score", filter.MinScore))
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("agency_athlete_matches").Where(conds...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count matches query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count matches campaign=%s: %w", filter.CampaignID, err)
	}

	query, args, err := qb.Select(matchColumns).
		From("agency_athlete_matches").
		Where(conds...).
		OrderBy("score DESC", "athlete_public_id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build select matches query: %w", err)
	}
	items, err := r.selectMany(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MatchRepository) ListByAthlete(ctx context.Context, athleteID string) ([]matching.Match, error) {
	query, args, err := qb.Select(matchColumns).
		From("agency_athlete_matches").
		Where(qb.Eq("athlete_public_id", athleteID)).
		OrderBy("score DESC", "campaign_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select athlete matches query: %w", err)
	}
	return r.selectMany(ctx, query, args)
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, campaignID, athleteID string, status matching.Status, at time.Time) (bool, error) {
	query, args, err := qb.Update("agency_athlete_matches").
		Set("status", string(status)).
		Set("updated_at", at).
		Where(qb.Eq("campaign_public_id", campaignID), qb.Eq("athlete_public_id", athleteID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update match status query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update match status campaign=%s athlete=%s: %w", campaignID, athleteID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read updated match rows: %w", err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) MarkNotified(ctx context.Context, campaignID, athleteID string, at time.Time) error {
	query, args, err := qb.Update("agency_athlete_matches").
		Set("notified_at", at).
		Where(
			qb.Eq("campaign_public_id", campaignID),
			qb.Eq("athlete_public_id", athleteID),
			qb.IsNull("notified_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark match notified query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark match notified campaign=%s athlete=%s: %w", campaignID, athleteID, err)
	}
	return nil
}

func (r *MatchRepository) selectMany(ctx context.Context, query string, args []any) ([]matching.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	out := make([]matching.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (m matchTableModel) toDomain() (matching.Match, error) {
	var breakdown matching.Breakdown
	if err := unmarshalJSONB(m.Breakdown, &breakdown); err != nil {
		return matching.Match{}, fmt.Errorf("decode match breakdown campaign=%s athlete=%s: %w", m.CampaignID, m.AthleteID, err)
	}
	return matching.Match{
		CampaignID: m.CampaignID,
		AthleteID:  m.AthleteID,
		AgencyID:   m.AgencyID,
		Score:      m.Score,
		Breakdown:  breakdown,
		Status:     matching.Status(m.Status),
		NotifiedAt: m.NotifiedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}, nil
}
