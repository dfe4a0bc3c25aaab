package matching

import (
	"strings"
	"time"
)

type Status string

const (
	StatusNew         Status = "new"
	StatusShortlisted Status = "shortlisted"
	StatusContacted   Status = "contacted"
	StatusDismissed   Status = "dismissed"
)

// ParseStatus accepts the statuses an agency can set.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusShortlisted:
		return StatusShortlisted, true
	case StatusContacted:
		return StatusContacted, true
	case StatusDismissed:
		return StatusDismissed, true
	default:
		return "", false
	}
}

// Match is one scored agency_athlete_matches row.
type Match struct {
	CampaignID string
	AthleteID  string
	AgencyID   string
	Score      int
	Breakdown  Breakdown
	Status     Status
	NotifiedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ListFilter struct {
	CampaignID string
	MinScore   int
	Limit      int
	Offset     int
}
