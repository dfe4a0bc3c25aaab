package postgres

import (
	"time"

	"github.com/lib/pq"
)

const campaignColumns = "public_id, agency_id, title, description, sports, target_states, min_followers, min_engagement, budget_min_cents, budget_max_cents, status, created_at, updated_at"

type campaignTableModel struct {
	PublicID       string         `db:"public_id"`
	AgencyID       string         `db:"agency_id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	Sports         pq.StringArray `db:"sports"`
	TargetStates   pq.StringArray `db:"target_states"`
	MinFollowers   int64          `db:"min_followers"`
	MinEngagement  float64        `db:"min_engagement"`
	BudgetMinCents int64          `db:"budget_min_cents"`
	BudgetMaxCents int64          `db:"budget_max_cents"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type matchTableModel struct {
	CampaignID string     `db:"campaign_public_id"`
	AthleteID  string     `db:"athlete_public_id"`
	AgencyID   string     `db:"agency_id"`
	Score      int        `db:"score"`
	Breakdown  []byte     `db:"breakdown"`
	Status     string     `db:"status"`
	NotifiedAt *time.Time `db:"notified_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}
