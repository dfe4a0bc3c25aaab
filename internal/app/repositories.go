package app

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
	"github.com/riskibarqy/nil-marketplace/internal/domain/campaign"
	"github.com/riskibarqy/nil-marketplace/internal/domain/deal"
	"github.com/riskibarqy/nil-marketplace/internal/domain/invite"
	"github.com/riskibarqy/nil-marketplace/internal/domain/matching"
	"github.com/riskibarqy/nil-marketplace/internal/domain/messaging"
	"github.com/riskibarqy/nil-marketplace/internal/domain/notification"
	"github.com/riskibarqy/nil-marketplace/internal/domain/roster"
	"github.com/riskibarqy/nil-marketplace/internal/domain/user"
	cacherepo "github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/nil-marketplace/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/nil-marketplace/internal/platform/cache"
)

const repositoryCacheMaxEntries = 10_000

type repositories struct {
	users         user.Repository
	athletes      athlete.Repository
	saved         athlete.SavedRepository
	campaigns     campaign.Repository
	matches       matching.Repository
	deals         deal.Repository
	imports       roster.Repository
	invites       invite.Repository
	notifications notification.Repository
	messaging     messaging.Repository
}

func newMemoryRepositories() repositories {
	athletes := memory.NewAthleteRepository(memory.SeedAthletes()...)
	return repositories{
		users:         memory.NewUserRepository(),
		athletes:      athletes,
		saved:         memory.NewSavedAthleteRepository(),
		campaigns:     memory.NewCampaignRepository(),
		matches:       memory.NewMatchRepository(),
		deals:         memory.NewDealRepository(),
		imports:       memory.NewRosterImportRepository(athletes),
		invites:       memory.NewInviteRepository(),
		notifications: memory.NewNotificationRepository(),
		messaging:     memory.NewMessagingRepository(),
	}
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		users:         postgres.NewUserRepository(db),
		athletes:      postgres.NewAthleteRepository(db),
		saved:         postgres.NewSavedAthleteRepository(db),
		campaigns:     postgres.NewCampaignRepository(db),
		matches:       postgres.NewMatchRepository(db),
		deals:         postgres.NewDealRepository(db),
		imports:       postgres.NewRosterImportRepository(db),
		invites:       postgres.NewInviteRepository(db),
		notifications: postgres.NewNotificationRepository(db),
		messaging:     postgres.NewMessagingRepository(db),
	}
}

// withReadCache fronts athlete and campaign lookups with one shared TTL store.
// Roster commits write athletes too, so they invalidate the same store.
func (r repositories) withReadCache(ttl time.Duration) repositories {
	store := cache.NewStore(ttl, cache.WithMaxEntries(repositoryCacheMaxEntries))
	r.athletes = cacherepo.NewAthleteRepository(r.athletes, store)
	r.campaigns = cacherepo.NewCampaignRepository(r.campaigns, store)
	r.imports = cacherepo.NewRosterImportRepository(r.imports, store)
	return r
}
