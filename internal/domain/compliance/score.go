package compliance

import (
	"fmt"

	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
)

const (
	maxScore = 100

	penaltyOverThreeTimesFMV = 25
	penaltyOverTwiceFMV      = 10
	penaltyHighFlag          = 15
	penaltyMediumFlag        = 5
	penaltyNoDeliverables    = 10
	penaltyNoEndDate         = 10
)

// Assessment is the outcome of scoring one deal. Higher scores are safer.
type Assessment struct {
	Score     int
	RiskLevel deal.RiskLevel
	Reasons   []string
}

// Evaluate scores d against the athlete's fair market value in cents.
// A zero fmvCents skips the compensation checks.
func Evaluate(d deal.Deal, fmvCents int64) Assessment {
	score := maxScore
	reasons := make([]string, 0, 4)

	if fmvCents > 0 && d.CompensationCents > 0 {
		switch {
		case d.CompensationCents > 3*fmvCents:
			score -= penaltyOverThreeTimesFMV
			reasons = append(reasons, "compensation is more than 3x the athlete's fair market value")
		case d.CompensationCents > 2*fmvCents:
			score -= penaltyOverTwiceFMV
			reasons = append(reasons, "compensation is more than 2x the athlete's fair market value")
		}
	}

	for _, flag := range d.RedFlags {
		switch flag.Severity {
		case deal.SeverityHigh:
			score -= penaltyHighFlag
			reasons = append(reasons, fmt.Sprintf("high risk: %s", flag.Code))
		case deal.SeverityMedium:
			score -= penaltyMediumFlag
			reasons = append(reasons, fmt.Sprintf("medium risk: %s", flag.Code))
		}
	}

	if len(d.Deliverables) == 0 {
		score -= penaltyNoDeliverables
		reasons = append(reasons, "no deliverables listed")
	}
	if d.EndDate == nil {
		score -= penaltyNoEndDate
		reasons = append(reasons, "no end date")
	}

	score = max(0, min(maxScore, score))
	return Assessment{
		Score:     score,
		RiskLevel: RiskFor(score),
		Reasons:   reasons,
	}
}

func RiskFor(score int) deal.RiskLevel {
	switch {
	case score >= 80:
		return deal.RiskLow
	case score >= 50:
		return deal.RiskMedium
	default:
		return deal.RiskHigh
	}
}
