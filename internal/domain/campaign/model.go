package campaign

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/geo"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusDraft:
		return StatusDraft, true
	case StatusActive:
		return StatusActive, true
	case StatusClosed:
		return StatusClosed, true
	default:
		return "", false
	}
}

// Campaign is an agency brief that athletes are matched against.
type Campaign struct {
	ID             string
	AgencyID       string
	Title          string
	Description    string
	Sports         []string
	TargetStates   []string
	MinFollowers   int64
	MinEngagement  float64
	BudgetMinCents int64
	BudgetMaxCents int64
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (c Campaign) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if c.MinFollowers < 0 {
		return fmt.Errorf("min followers must be >= 0")
	}
	if c.MinEngagement < 0 || c.MinEngagement > 1 {
		return fmt.Errorf("min engagement must be between 0 and 1")
	}
	if c.BudgetMinCents < 0 || c.BudgetMaxCents < 0 {
		return fmt.Errorf("budget must be >= 0")
	}
	if c.BudgetMaxCents > 0 && c.BudgetMinCents > c.BudgetMaxCents {
		return fmt.Errorf("budget min must be <= budget max")
	}
	for _, state := range c.TargetStates {
		if !geo.IsState(state) {
			return fmt.Errorf("invalid target state %q", state)
		}
	}

	return nil
}

func (c Campaign) IsActive() bool {
	return c.Status == StatusActive
}
