package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"
	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
)

func TestIsUniqueViolation(t *testing.T) {
	pairErr := fmt.Errorf("insert conversation: %w", &pq.Error{Code: "23505", Constraint: "uq_conversations_pair"})

	t.Run("matches any constraint when none given", func(t *testing.T) {
		if !isUniqueViolation(pairErr) {
			t.Fatalf("expected wrapped 23505 to match")
		}
	})

	t.Run("matches named constraint", func(t *testing.T) {
		if !isUniqueViolation(pairErr, "uq_messages_client_id", "UQ_CONVERSATIONS_PAIR") {
			t.Fatalf("expected constraint match")
		}
	})

	t.Run("ignores other constraint", func(t *testing.T) {
		if isUniqueViolation(pairErr, athleteEmailConstraint) {
			t.Fatalf("expected false for unrelated constraint")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
		if isUniqueViolation(errors.New("duplicate key")) {
			t.Fatalf("expected false for plain error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(sql.ErrConnDone) {
		t.Fatalf("expected ErrConnDone to be a real error")
	}
}

func TestDealRowDecodesRedFlags(t *testing.T) {
	raw, err := marshalJSONB([]deal.RedFlag{{Code: "perpetual_rights", Severity: deal.SeverityHigh, Message: "forever"}})
	if err != nil {
		t.Fatalf("marshal red flags: %v", err)
	}

	row := dealTableModel{
		PublicID:     "deal-1",
		AthleteID:    "ath-1",
		AgencyID:     sql.NullString{String: "agency-1", Valid: true},
		Deliverables: pq.StringArray{"2 posts"},
		Status:       string(deal.StatusSubmitted),
		RedFlags:     raw,
		RiskLevel:    string(deal.RiskHigh),
	}
	got, err := row.toDomain()
	if err != nil {
		t.Fatalf("decode deal row: %v", err)
	}

	want := []deal.RedFlag{{Code: "perpetual_rights", Severity: deal.SeverityHigh, Message: "forever"}}
	if diff := cmp.Diff(want, got.RedFlags); diff != "" {
		t.Fatalf("red flags mismatch (-want +got):\n%s", diff)
	}
	if got.AgencyID != "agency-1" || got.ReviewerID != "" {
		t.Fatalf("unexpected nullable mapping: agency=%q reviewer=%q", got.AgencyID, got.ReviewerID)
	}
}

func TestDealRowRejectsCorruptRedFlags(t *testing.T) {
	row := dealTableModel{PublicID: "deal-1", RedFlags: []byte("{not json")}
	if _, err := row.toDomain(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestToAthleteInsertModelNullsEmptyIdentity(t *testing.T) {
	model := toAthleteInsertModel(athlete.Profile{ID: "ath-1", Email: "  Jo@School.EDU "})
	if model.UserID != nil {
		t.Fatalf("expected nil user id for imported athlete")
	}
	if model.Email == nil || *model.Email != "jo@school.edu" {
		t.Fatalf("expected lowercased email, got %v", model.Email)
	}

	model = toAthleteInsertModel(athlete.Profile{ID: "ath-2"})
	if model.Email != nil {
		t.Fatalf("expected nil email, got %q", *model.Email)
	}
}

func TestDiscoveryConditionsAlwaysRequireOpenToDeals(t *testing.T) {
	conds := discoveryConditions(athlete.DiscoveryFilter{})
	if len(conds) != 1 {
		t.Fatalf("expected only the open_to_deals condition, got %d", len(conds))
	}

	conds = discoveryConditions(athlete.DiscoveryFilter{
		Sport:        athlete.SportFootball,
		State:        "TX",
		MinFollowers: 1000,
		MaxFMVCents:  50000,
		Query:        "smith",
	})
	if len(conds) != 6 {
		t.Fatalf("expected 6 conditions, got %d", len(conds))
	}
}

func TestAthleteColumnsSkipGeneratedTotal(t *testing.T) {
	if strings.Contains(athleteColumns, "followers_total") {
		t.Fatalf("generated column must not be selected into the table model: %s", athleteColumns)
	}
	if !strings.HasPrefix(athleteColumns, "public_id, user_id") {
		t.Fatalf("unexpected column order: %s", athleteColumns)
	}
}
