package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

const (
	athleteEmailConstraint = "uq_athlete_profiles_email"
	athleteBatchSize       = 500
)

type AthleteRepository struct {
	db *sqlx.DB
}

func NewAthleteRepository(db *sqlx.DB) *AthleteRepository {
	return &AthleteRepository{db: db}
}

func (r *AthleteRepository) Upsert(ctx context.Context, profile athlete.Profile) error {
	const query = `
INSERT INTO athlete_profiles (
    public_id, user_id, first_name, last_name, email, sport, position, school, state,
    graduation_year, instagram_followers, tiktok_followers, twitter_followers, engagement_rate,
    bio, open_to_deals, fmv_cents, created_at, updated_at
)
VALUES (
    :public_id, :user_id, :first_name, :last_name, :email, :sport, :position, :school, :state,
    :graduation_year, :instagram_followers, :tiktok_followers, :twitter_followers, :engagement_rate,
    :bio, :open_to_deals, :fmv_cents, :created_at, :updated_at
)
ON CONFLICT (public_id)
DO UPDATE SET
    user_id = EXCLUDED.user_id,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    email = EXCLUDED.email,
    sport = EXCLUDED.sport,
    position = EXCLUDED.position,
    school = EXCLUDED.school,
    state = EXCLUDED.state,
    graduation_year = EXCLUDED.graduation_year,
    instagram_followers = EXCLUDED.instagram_followers,
    tiktok_followers = EXCLUDED.tiktok_followers,
    twitter_followers = EXCLUDED.twitter_followers,
    engagement_rate = EXCLUDED.engagement_rate,
    bio = EXCLUDED.bio,
    open_to_deals = EXCLUDED.open_to_deals,
    fmv_cents = EXCLUDED.fmv_cents,
    updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, toAthleteInsertModel(profile)); err != nil {
		if isUniqueViolation(err, athleteEmailConstraint) {
			return athlete.ErrEmailTaken
		}
		return fmt.Errorf("upsert athlete profile id=%s: %w", profile.ID, err)
	}
	return nil
}

// CreateBatch inserts every profile or none of them.
func (r *AthleteRepository) CreateBatch(ctx context.Context, profiles []athlete.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create athlete batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertAthleteBatch(ctx, tx, profiles); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create athlete batch tx: %w", err)
	}
	return nil
}

// insertAthleteBatch writes profiles in chunks inside the caller's transaction.
func insertAthleteBatch(ctx context.Context, tx *sqlx.Tx, profiles []athlete.Profile) error {
	for start := 0; start < len(profiles); start += athleteBatchSize {
		end := min(start+athleteBatchSize, len(profiles))
		rows := make([]athleteInsertModel, 0, end-start)
		for _, p := range profiles[start:end] {
			rows = append(rows, toAthleteInsertModel(p))
		}
		query, args, err := qb.InsertModels("athlete_profiles", rows, "")
		if err != nil {
			return fmt.Errorf("build insert athlete batch query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isUniqueViolation(err, athleteEmailConstraint) {
				return athlete.ErrEmailTaken
			}
			return fmt.Errorf("insert athlete batch rows=%d: %w", end-start, err)
		}
	}
	return nil
}

func (r *AthleteRepository) GetByID(ctx context.Context, athleteID string) (athlete.Profile, bool, error) {
	return r.getOne(ctx, qb.Eq("public_id", athleteID))
}

func (r *AthleteRepository) GetByUserID(ctx context.Context, userID string) (athlete.Profile, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return athlete.Profile{}, false, nil
	}
	return r.getOne(ctx, qb.Eq("user_id", userID))
}

func (r *AthleteRepository) getOne(ctx context.Context, cond qb.Condition) (athlete.Profile, bool, error) {
	query, args, err := qb.Select(athleteColumns).From("athlete_profiles").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return athlete.Profile{}, false, fmt.Errorf("build select athlete query: %w", err)
	}

	var row athleteTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return athlete.Profile{}, false, nil
		}
		return athlete.Profile{}, false, fmt.Errorf("select athlete: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *AthleteRepository) ListByIDs(ctx context.Context, athleteIDs []string) ([]athlete.Profile, error) {
	if len(athleteIDs) == 0 {
		return []athlete.Profile{}, nil
	}
	query, args, err := qb.Select(athleteColumns).
		From("athlete_profiles").
		Where(qb.In("public_id", anySlice(athleteIDs))).
		OrderBy("followers_total DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select athletes by ids query: %w", err)
	}
	return r.selectMany(ctx, query, args)
}

func (r *AthleteRepository) ListOpenToDeals(ctx context.Context) ([]athlete.Profile, error) {
	query, args, err := qb.Select(athleteColumns).
		From("athlete_profiles").
		Where(qb.Eq("open_to_deals", true)).
		OrderBy("followers_total DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select open athletes query: %w", err)
	}
	return r.selectMany(ctx, query, args)
}

func (r *AthleteRepository) Search(ctx context.Context, filter athlete.DiscoveryFilter) ([]athlete.Profile, int, error) {
	conds := discoveryConditions(filter)

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("athlete_profiles").Where(conds...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count athletes query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count athletes: %w", err)
	}

	query, args, err := qb.Select(athleteColumns).
		From("athlete_profiles").
		Where(conds...).
		OrderBy("followers_total DESC", "public_id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build search athletes query: %w", err)
	}
	items, err := r.selectMany(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func discoveryConditions(filter athlete.DiscoveryFilter) []qb.Condition {
	conds := []qb.Condition{qb.Eq("open_to_deals", true)}
	if filter.Sport != "" {
		conds = append(conds, qb.Eq("sport", string(filter.Sport)))
	}
	if filter.State != "" {
		conds = append(conds, qb.Eq("state", filter.State))
	}
	if filter.MinFollowers > 0 {
		conds = append(conds, qb.Gte("followers_total", filter.MinFollowers))
	}
	if filter.MaxFMVCents > 0 {
		conds = append(conds, qb.Lte("fmv_cents", filter.MaxFMVCents))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		conds = append(conds, qb.Or(
			qb.ILike("first_name", q),
			qb.ILike("last_name", q),
			qb.ILike("school", q),
		))
	}
	return conds
}

func (r *AthleteRepository) ExistingEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	return selectEmailSet(ctx, r.db, "athlete_profiles", emails)
}

func (r *AthleteRepository) selectMany(ctx context.Context, query string, args []any) ([]athlete.Profile, error) {
	var rows []athleteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select athletes: %w", err)
	}
	out := make([]athlete.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (m athleteTableModel) toDomain() athlete.Profile {
	return athlete.Profile{
		ID:                 m.PublicID,
		UserID:             stringOrEmpty(m.UserID),
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Email:              stringOrEmpty(m.Email),
		Sport:              athlete.Sport(m.Sport),
		Position:           m.Position,
		School:             m.School,
		State:              m.State,
		GraduationYear:     m.GraduationYear,
		InstagramFollowers: m.InstagramFollowers,
		TikTokFollowers:    m.TikTokFollowers,
		TwitterFollowers:   m.TwitterFollowers,
		EngagementRate:     m.EngagementRate,
		Bio:                m.Bio,
		OpenToDeals:        m.OpenToDeals,
		FMVCents:           m.FMVCents,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toAthleteInsertModel(p athlete.Profile) athleteInsertModel {
	return athleteInsertModel{
		PublicID:           p.ID,
		UserID:             nullableString(p.UserID),
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              nullableString(strings.ToLower(strings.TrimSpace(p.Email))),
		Sport:              string(p.Sport),
		Position:           p.Position,
		School:             p.School,
		State:              p.State,
		GraduationYear:     p.GraduationYear,
		InstagramFollowers: p.InstagramFollowers,
		TikTokFollowers:    p.TikTokFollowers,
		TwitterFollowers:   p.TwitterFollowers,
		EngagementRate:     p.EngagementRate,
		Bio:                p.Bio,
		OpenToDeals:        p.OpenToDeals,
		FMVCents:           p.FMVCents,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

type SavedAthleteRepository struct {
	db *sqlx.DB
}

func NewSavedAthleteRepository(db *sqlx.DB) *SavedAthleteRepository {
	return &SavedAthleteRepository{db: db}
}

func (r *SavedAthleteRepository) Save(ctx context.Context, saved athlete.SavedAthlete) error {
	query, args, err := qb.InsertModel("saved_athletes", savedAthleteTableModel{
		AgencyID:  saved.AgencyID,
		AthleteID: saved.AthleteID,
		Note:      saved.Note,
		CreatedAt: saved.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert saved athlete query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return athlete.ErrAlreadySaved
		}
		return fmt.Errorf("insert saved athlete agency=%s athlete=%s: %w", saved.AgencyID, saved.AthleteID, err)
	}
	return nil
}

func (r *SavedAthleteRepository) Delete(ctx context.Context, agencyID, athleteID string) (bool, error) {
	const query = `DELETE FROM saved_athletes WHERE agency_id = $1 AND athlete_public_id = $2`
	res, err := r.db.ExecContext(ctx, query, agencyID, athleteID)
	if err != nil {
		return false, fmt.Errorf("delete saved athlete agency=%s athlete=%s: %w", agencyID, athleteID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted saved athlete rows: %w", err)
	}
	return affected > 0, nil
}

func (r *SavedAthleteRepository) ListByAgency(ctx context.Context, agencyID string) ([]athlete.SavedAthlete, error) {
	query, args, err := qb.Select("agency_id", "athlete_public_id", "note", "created_at").
		From("saved_athletes").
		Where(qb.Eq("agency_id", agencyID)).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select saved athletes query: %w", err)
	}

	var rows []savedAthleteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select saved athletes agency=%s: %w", agencyID, err)
	}
	out := make([]athlete.SavedAthlete, 0, len(rows))
	for _, row := range rows {
		out = append(out, athlete.SavedAthlete{
			AgencyID:  row.AgencyID,
			AthleteID: row.AthleteID,
			Note:      row.Note,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
