package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

const dealColumns = "public_id, athlete_public_id, agency_id, brand_name, description, compensation_cents, deliverables, start_date, end_date, status, red_flags, compliance_score, risk_level, reviewer_id, review_note, reviewed_at, created_at, updated_at"

type dealTableModel struct {
	PublicID          string         `db:"public_id"`
	AthleteID         string         `db:"athlete_public_id"`
	AgencyID          sql.NullString `db:"agency_id"`
	BrandName         string         `db:"brand_name"`
	Description       string         `db:"description"`
	CompensationCents int64          `db:"compensation_cents"`
	Deliverables      pq.StringArray `db:"deliverables"`
	StartDate         *time.Time     `db:"start_date"`
	EndDate           *time.Time     `db:"end_date"`
	Status            string         `db:"status"`
	RedFlags          []byte         `db:"red_flags"`
	ComplianceScore   int            `db:"compliance_score"`
	RiskLevel         string         `db:"risk_level"`
	ReviewerID        sql.NullString `db:"reviewer_id"`
	ReviewNote        string         `db:"review_note"`
	ReviewedAt        *time.Time     `db:"reviewed_at"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type dealInsertModel struct {
	PublicID          string         `db:"public_id"`
	AthleteID         string         `db:"athlete_public_id"`
	AgencyID          *string        `db:"agency_id"`
	BrandName         string         `db:"brand_name"`
	Description       string         `db:"description"`
	CompensationCents int64          `db:"compensation_cents"`
	Deliverables      pq.StringArray `db:"deliverables"`
	StartDate         *time.Time     `db:"start_date"`
	EndDate           *time.Time     `db:"end_date"`
	Status            string         `db:"status"`
	RedFlags          []byte         `db:"red_flags"`
	ComplianceScore   int            `db:"compliance_score"`
	RiskLevel         string         `db:"risk_level"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type rosterImportTableModel struct {
	PublicID      string     `db:"public_id"`
	AgencyID      string     `db:"agency_id"`
	Rows          []byte     `db:"rows"`
	TotalRows     int        `db:"total_rows"`
	ValidRows     int        `db:"valid_rows"`
	InvalidRows   int        `db:"invalid_rows"`
	WarningsCount int        `db:"warnings_count"`
	CommittedAt   *time.Time `db:"committed_at"`
	CreatedAt     time.Time  `db:"created_at"`
}
