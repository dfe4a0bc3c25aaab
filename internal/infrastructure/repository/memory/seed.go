package memory

import (
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/athlete"
)

var seedCreatedAt = time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)

// SeedAthletes returns demo profiles without linked accounts, used for local discovery.
func SeedAthletes() []athlete.Profile {
	items := []athlete.Profile{
		{
			ID: "seed-ath-jordan-ellis", FirstName: "Jordan", LastName: "Ellis", Email: "jordan.ellis@demo.example",
			Sport: athlete.SportFootball, Position: "QB", School: "Lakeview High", State: "TX", GraduationYear: 2027,
			InstagramFollowers: 18400, TikTokFollowers: 9200, TwitterFollowers: 2100, EngagementRate: 0.061,
			Bio: "Dual-threat quarterback, two-time district MVP.", OpenToDeals: true,
		},
		{
			ID: "seed-ath-maya-chen", FirstName: "Maya", LastName: "Chen", Email: "maya.chen@demo.example",
			Sport: athlete.SportBasketball, Position: "PG", School: "Northgate Prep", State: "CA", GraduationYear: 2026,
			InstagramFollowers: 32500, TikTokFollowers: 51000, TwitterFollowers: 4300, EngagementRate: 0.048,
			Bio: "Point guard and youth camp coach.", OpenToDeals: true,
		},
		{
			ID: "seed-ath-luis-ortega", FirstName: "Luis", LastName: "Ortega", Email: "luis.ortega@demo.example",
			Sport: athlete.SportBaseball, Position: "SS", School: "Riverside Academy", State: "FL", GraduationYear: 2027,
			InstagramFollowers: 7600, TikTokFollowers: 3100, TwitterFollowers: 900, EngagementRate: 0.072,
			OpenToDeals: true,
		},
		{
			ID: "seed-ath-ava-brooks", FirstName: "Ava", LastName: "Brooks", Email: "ava.brooks@demo.example",
			Sport: athlete.SportVolleyball, Position: "OH", School: "Summit High", State: "OH", GraduationYear: 2028,
			InstagramFollowers: 12100, TikTokFollowers: 20400, TwitterFollowers: 600, EngagementRate: 0.083,
			OpenToDeals: true,
		},
		{
			ID: "seed-ath-noah-james", FirstName: "Noah", LastName: "James", Email: "noah.james@demo.example",
			Sport: athlete.SportTrack, School: "Eastwood High", State: "GA", GraduationYear: 2026,
			InstagramFollowers: 4200, TikTokFollowers: 1500, TwitterFollowers: 300, EngagementRate: 0.05,
			OpenToDeals: false,
		},
	}
	for idx := range items {
		items[idx].FMVCents = items[idx].ComputeFMV()
		items[idx].CreatedAt = seedCreatedAt
		items[idx].UpdatedAt = seedCreatedAt
	}
	return items
}
