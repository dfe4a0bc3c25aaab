package deal

import (
	"strings"
	"time"
)

type Status string

const (
	StatusSubmitted        Status = "submitted"
	StatusUnderReview      Status = "under_review"
	StatusApproved         Status = "approved"
	StatusRejected         Status = "rejected"
	StatusChangesRequested Status = "changes_requested"
)

var AllStatuses = map[Status]struct{}{
	StatusSubmitted:        {},
	StatusUnderReview:      {},
	StatusApproved:         {},
	StatusRejected:         {},
	StatusChangesRequested: {},
}

func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := AllStatuses[s]
	return s, ok
}

// IsOpen reports whether a compliance officer still has to act on the deal.
func (s Status) IsOpen() bool {
	return s == StatusSubmitted || s == StatusUnderReview
}

type Decision string

const (
	DecisionApprove        Decision = "approve"
	DecisionReject         Decision = "reject"
	DecisionRequestChanges Decision = "request_changes"
)

func ParseDecision(raw string) (Decision, Status, bool) {
	switch Decision(strings.ToLower(strings.TrimSpace(raw))) {
	case DecisionApprove:
		return DecisionApprove, StatusApproved, true
	case DecisionReject:
		return DecisionReject, StatusRejected, true
	case DecisionRequestChanges:
		return DecisionRequestChanges, StatusChangesRequested, true
	default:
		return "", "", false
	}
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func ParseSeverity(raw string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Rank orders risk levels with the riskiest first.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	default:
		return 2
	}
}

type RedFlag struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Deal is an NIL agreement an athlete submits for compliance review.
type Deal struct {
	ID                string
	AthleteID         string
	AgencyID          string
	BrandName         string
	Description       string
	CompensationCents int64
	Deliverables      []string
	StartDate         *time.Time
	EndDate           *time.Time
	Status            Status
	RedFlags          []RedFlag
	ComplianceScore   int
	RiskLevel         RiskLevel
	ReviewerID        string
	ReviewNote        string
	ReviewedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Text is the searchable body used by the red flag detector.
func (d Deal) Text() string {
	parts := append([]string{d.BrandName, d.Description}, d.Deliverables...)
	return strings.Join(parts, "\n")
}

type ListFilter struct {
	AthleteIDs []string
	AgencyID   string
	Statuses   []Status
	// RiskFirst orders by risk rank, then oldest first, instead of newest first.
	RiskFirst bool
	Limit     int
}
