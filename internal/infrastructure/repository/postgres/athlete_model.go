package postgres

import (
	"database/sql"
	"strings"
	"time"

	qb "github.com/riskibarqy/nil-marketplace/internal/platform/querybuilder"
)

var athleteColumns = strings.Join(qb.Columns(athleteTableModel{}), ", ")

type athleteTableModel struct {
	PublicID           string         `db:"public_id"`
	UserID             sql.NullString `db:"user_id"`
	FirstName          string         `db:"first_name"`
	LastName           string         `db:"last_name"`
	Email              sql.NullString `db:"email"`
	Sport              string         `db:"sport"`
	Position           string         `db:"position"`
	School             string         `db:"school"`
	State              string         `db:"state"`
	GraduationYear     int            `db:"graduation_year"`
	InstagramFollowers int64          `db:"instagram_followers"`
	TikTokFollowers    int64          `db:"tiktok_followers"`
	TwitterFollowers   int64          `db:"twitter_followers"`
	EngagementRate     float64        `db:"engagement_rate"`
	Bio                string         `db:"bio"`
	OpenToDeals        bool           `db:"open_to_deals"`
	FMVCents           int64          `db:"fmv_cents"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

type athleteInsertModel struct {
	PublicID           string    `db:"public_id"`
	UserID             *string   `db:"user_id"`
	FirstName          string    `db:"first_name"`
	LastName           string    `db:"last_name"`
	Email              *string   `db:"email"`
	Sport              string    `db:"sport"`
	Position           string    `db:"position"`
	School             string    `db:"school"`
	State              string    `db:"state"`
	GraduationYear     int       `db:"graduation_year"`
	InstagramFollowers int64     `db:"instagram_followers"`
	TikTokFollowers    int64     `db:"tiktok_followers"`
	TwitterFollowers   int64     `db:"twitter_followers"`
	EngagementRate     float64   `db:"engagement_rate"`
	Bio                string    `db:"bio"`
	OpenToDeals        bool      `db:"open_to_deals"`
	FMVCents           int64     `db:"fmv_cents"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type savedAthleteTableModel struct {
	AgencyID  string    `db:"agency_id"`
	AthleteID string    `db:"athlete_public_id"`
	Note      string    `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}
