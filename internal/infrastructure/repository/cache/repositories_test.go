package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/nil-marketplace/internal/platform/cache"
)

type countingAthletes struct {
	*memory.AthleteRepository
	gets int
}

func (c *countingAthletes) GetByID(ctx context.Context, athleteID string) (athlete.Profile, bool, error) {
	c.gets++
	return c.AthleteRepository.GetByID(ctx, athleteID)
}

func TestAthleteRepository_GetByIDCachesUntilUpsert(t *testing.T) {
	ctx := context.Background()
	next := &countingAthletes{AthleteRepository: memory.NewAthleteRepository(athlete.Profile{ID: "ath-1", FirstName: "Jo"})}
	repo := NewAthleteRepository(next, basecache.NewStore(time.Minute))

	for range 3 {
		got, ok, err := repo.GetByID(ctx, "ath-1")
		if err != nil || !ok || got.FirstName != "Jo" {
			t.Fatalf("unexpected get result: %+v ok=%v err=%v", got, ok, err)
		}
	}
	if next.gets != 1 {
		t.Fatalf("expected one backing read, got %d", next.gets)
	}

	if err := repo.Upsert(ctx, athlete.Profile{ID: "ath-1", FirstName: "Joanna"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _, err := repo.GetByID(ctx, "ath-1")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.FirstName != "Joanna" || next.gets != 2 {
		t.Fatalf("expected fresh read after upsert, name=%s gets=%d", got.FirstName, next.gets)
	}
}

func TestAthleteRepository_CachesMissingProfile(t *testing.T) {
	ctx := context.Background()
	next := &countingAthletes{AthleteRepository: memory.NewAthleteRepository()}
	repo := NewAthleteRepository(next, basecache.NewStore(time.Minute))

	for range 2 {
		if _, ok, err := repo.GetByID(ctx, "missing"); err != nil || ok {
			t.Fatalf("expected miss, ok=%v err=%v", ok, err)
		}
	}
	if next.gets != 1 {
		t.Fatalf("expected cached miss, got %d reads", next.gets)
	}
}

func TestCampaignRepository_ListActiveInvalidatedByUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewCampaignRepository(memory.NewCampaignRepository(), basecache.NewStore(time.Minute))

	c := campaign.Campaign{ID: "cmp-1", AgencyID: "agency-1", Title: "Fall", Status: campaign.StatusActive, Sports: []string{"football"}}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	active, err := repo.ListActive(ctx)
	if err != nil || len(active) != 1 {
		t.Fatalf("expected one active campaign, got %d err=%v", len(active), err)
	}
	active[0].Sports[0] = "mutated"

	c.Status = campaign.StatusClosed
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}
	active, err = repo.ListActive(ctx)
	if err != nil || len(active) != 0 {
		t.Fatalf("expected no active campaigns after close, got %d err=%v", len(active), err)
	}

	got, ok, err := repo.GetByID(ctx, "cmp-1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Sports[0] != "football" {
		t.Fatalf("cached campaign was mutated by caller: %v", got.Sports)
	}
}

func TestRosterImportRepository_CommitInvalidatesOpenAthletes(t *testing.T) {
	ctx := context.Background()
	store := basecache.NewStore(time.Minute)
	athletes := memory.NewAthleteRepository()
	cachedAthletes := NewAthleteRepository(athletes, store)
	imports := NewRosterImportRepository(memory.NewRosterImportRepository(athletes), store)

	if err := imports.Save(ctx, roster.Import{ID: "imp-1", AgencyID: "agency-1"}); err != nil {
		t.Fatalf("save import: %v", err)
	}
	open, err := cachedAthletes.ListOpenToDeals(ctx)
	if err != nil || len(open) != 0 {
		t.Fatalf("expected no open athletes, got %d err=%v", len(open), err)
	}

	imported := athlete.Profile{ID: "ath-9", Email: "new@x.edu", FirstName: "Nia", OpenToDeals: true}
	committed, err := imports.Commit(ctx, "imp-1", time.Now(), []athlete.Profile{imported})
	if err != nil || !committed {
		t.Fatalf("commit: committed=%v err=%v", committed, err)
	}

	open, err = cachedAthletes.ListOpenToDeals(ctx)
	if err != nil || len(open) != 1 || open[0].ID != "ath-9" {
		t.Fatalf("expected imported athlete after commit, got %+v err=%v", open, err)
	}
}
