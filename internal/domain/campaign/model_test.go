package campaign

import "testing"

func TestCampaign_Validate(t *testing.T) {
	base := Campaign{
		Title:          "Back to school drop",
		Sports:         []string{"football"},
		TargetStates:   []string{"TX", "OK"},
		BudgetMinCents: 50_000,
		BudgetMaxCents: 200_000,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid campaign, got %v", err)
	}

	tests := map[string]func(*Campaign){
		"missing title":   func(c *Campaign) { c.Title = " " },
		"inverted budget": func(c *Campaign) { c.BudgetMinCents = 300_000 },
		"bad state":       func(c *Campaign) { c.TargetStates = []string{"TX", "QQ"} },
		"bad engagement":  func(c *Campaign) { c.MinEngagement = 2 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base
			c.TargetStates = append([]string(nil), base.TargetStates...)
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	if s, ok := ParseStatus(""); !ok || s != StatusDraft {
		t.Fatalf("empty status should default to draft")
	}
	if _, ok := ParseStatus("archived"); ok {
		t.Fatalf("unexpected status accepted")
	}
}
