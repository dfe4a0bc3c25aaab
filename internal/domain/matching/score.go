package matching

import (
	"math"
	"strings"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/geo"
)

// Breakdown holds every sub-score in [0,1].
type Breakdown struct {
	Sport        float64 `json:"sport"`
	Geography    float64 `json:"geography"`
	Followers    float64 `json:"followers"`
	Engagement   float64 `json:"engagement"`
	Budget       float64 `json:"budget"`
	Availability float64 `json:"availability"`
}

// Score rates how well an athlete fits a campaign as a 0-100 percentage.
func Score(a athlete.Profile, c campaign.Campaign, w Weights) (int, Breakdown) {
	b := Breakdown{
		Sport:        sportScore(a.Sport, c.Sports),
		Geography:    geographyScore(a.State, c.TargetStates),
		Followers:    ratioScore(float64(a.FollowersTotal()), float64(c.MinFollowers)),
		Engagement:   ratioScore(a.EngagementRate, c.MinEngagement),
		Budget:       budgetScore(fmvOf(a), c.BudgetMinCents, c.BudgetMaxCents),
		Availability: availabilityScore(a.OpenToDeals),
	}

	total := w.Total()
	if total <= 0 {
		w = DefaultWeights()
		total = w.Total()
	}

	sum := w.Sport*b.Sport +
		w.Geography*b.Geography +
		w.Followers*b.Followers +
		w.Engagement*b.Engagement +
		w.Budget*b.Budget +
		w.Availability*b.Availability

	return int(math.Round(sum * 100 / total)), b
}

func fmvOf(a athlete.Profile) int64 {
	if a.FMVCents > 0 {
		return a.FMVCents
	}
	return a.ComputeFMV()
}

func sportScore(s athlete.Sport, sports []string) float64 {
	if len(sports) == 0 {
		return 1
	}
	for _, item := range sports {
		if athlete.NormalizeSport(item) == s {
			return 1
		}
	}
	return 0
}

func geographyScore(state string, targets []string) float64 {
	if len(targets) == 0 {
		return 1
	}

	state = geo.NormalizeState(state)
	best := 0.0
	for _, target := range targets {
		target = strings.ToUpper(strings.TrimSpace(target))
		if target == state {
			return 1
		}
		if geo.SameRegion(state, target) {
			best = 0.5
		}
	}
	return best
}

func ratioScore(value, minimum float64) float64 {
	if minimum <= 0 || value >= minimum {
		return 1
	}
	if value <= 0 {
		return 0
	}
	return value / minimum
}

// budgetScore treats a zero max as an open ended budget.
func budgetScore(fmv, minCents, maxCents int64) float64 {
	if fmv < minCents {
		return 0.75
	}
	if maxCents > 0 && fmv > maxCents {
		return float64(maxCents) / float64(fmv)
	}
	return 1
}

func availabilityScore(open bool) float64 {
	if open {
		return 1
	}
	return 0
}
