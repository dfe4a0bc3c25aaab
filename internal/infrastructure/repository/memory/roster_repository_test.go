package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
)

func TestRosterImportRepository_CommitIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	athletes := NewAthleteRepository(athlete.Profile{ID: "ath-1", Email: "taken@x.edu"})
	imports := NewRosterImportRepository(athletes)
	if err := imports.Save(ctx, roster.Import{ID: "imp-1", AgencyID: "agency-1"}); err != nil {
		t.Fatalf("save import: %v", err)
	}
	at := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	clash := []athlete.Profile{
		{ID: "ath-2", Email: "fresh@x.edu"},
		{ID: "ath-3", Email: "TAKEN@x.edu"},
	}
	committed, err := imports.Commit(ctx, "imp-1", at, clash)
	if !errors.Is(err, athlete.ErrEmailTaken) || committed {
		t.Fatalf("expected email clash, committed=%v err=%v", committed, err)
	}
	imp, _, _ := imports.Get(ctx, "imp-1")
	if imp.CommittedAt != nil {
		t.Fatalf("failed commit must leave the import open")
	}
	if _, ok, _ := athletes.GetByID(ctx, "ath-2"); ok {
		t.Fatalf("failed commit must not insert any profile")
	}

	committed, err = imports.Commit(ctx, "imp-1", at, clash[:1])
	if err != nil || !committed {
		t.Fatalf("retry: committed=%v err=%v", committed, err)
	}
	if _, ok, _ := athletes.GetByID(ctx, "ath-2"); !ok {
		t.Fatalf("expected profile inserted on retry")
	}

	committed, err = imports.Commit(ctx, "imp-1", at, []athlete.Profile{{ID: "ath-4", Email: "late@x.edu"}})
	if err != nil || committed {
		t.Fatalf("second commit: committed=%v err=%v", committed, err)
	}
	if _, ok, _ := athletes.GetByID(ctx, "ath-4"); ok {
		t.Fatalf("second commit must not insert profiles")
	}
}
