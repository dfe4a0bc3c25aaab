package compliance

import (
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
)

func TestEvaluate(t *testing.T) {
	end := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		deal    deal.Deal
		fmv     int64
		score   int
		risk    deal.RiskLevel
		reasons int
	}{
		{
			name:  "clean deal",
			deal:  deal.Deal{CompensationCents: 50_000, Deliverables: []string{"1 post"}, EndDate: &end},
			fmv:   40_000,
			score: 100,
			risk:  deal.RiskLow,
		},
		{
			name:    "over twice fmv",
			deal:    deal.Deal{CompensationCents: 90_000, Deliverables: []string{"1 post"}, EndDate: &end},
			fmv:     40_000,
			score:   90,
			risk:    deal.RiskLow,
			reasons: 1,
		},
		{
			name: "many problems",
			deal: deal.Deal{
				CompensationCents: 500_000,
				RedFlags: []deal.RedFlag{
					{Code: "perpetual_rights", Severity: deal.SeverityHigh},
					{Code: "exclusivity", Severity: deal.SeverityMedium},
					{Code: "note", Severity: deal.SeverityLow},
				},
			},
			fmv: 40_000,
			// 100 - 25 - 15 - 5 - 10 - 10
			score:   35,
			risk:    deal.RiskHigh,
			reasons: 5,
		},
		{
			name: "clamped at zero",
			deal: deal.Deal{RedFlags: []deal.RedFlag{
				{Code: "a", Severity: deal.SeverityHigh}, {Code: "b", Severity: deal.SeverityHigh},
				{Code: "c", Severity: deal.SeverityHigh}, {Code: "d", Severity: deal.SeverityHigh},
				{Code: "e", Severity: deal.SeverityHigh}, {Code: "f", Severity: deal.SeverityHigh},
				{Code: "g", Severity: deal.SeverityHigh},
			}},
			score:   0,
			risk:    deal.RiskHigh,
			reasons: 9,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.deal, tc.fmv)
			if got.Score != tc.score || got.RiskLevel != tc.risk || len(got.Reasons) != tc.reasons {
				t.Fatalf("Evaluate = %+v, want score=%d risk=%s reasons=%d", got, tc.score, tc.risk, tc.reasons)
			}
		})
	}
}

func TestRiskFor(t *testing.T) {
	if RiskFor(80) != deal.RiskLow || RiskFor(79) != deal.RiskMedium || RiskFor(50) != deal.RiskMedium || RiskFor(49) != deal.RiskHigh {
		t.Fatalf("unexpected risk thresholds")
	}
}
