package athlete

import "math"

const (
	FMVBaseCents = 25_000
	// Each engaged follower is worth ten cents before the sport multiplier.
	centsPerEngagedFollower = 10
)

var sportMultipliers = map[Sport]float64{
	SportFootball:   1.5,
	SportBasketball: 1.4,
	SportBaseball:   1.1,
}

func SportMultiplier(s Sport) float64 {
	if m, ok := sportMultipliers[s]; ok {
		return m
	}
	return 1.0
}

// ComputeFMV estimates fair market value per post in cents.
func ComputeFMV(followersTotal int64, engagementRate float64, sport Sport) int64 {
	if followersTotal < 0 {
		followersTotal = 0
	}
	if engagementRate < 0 {
		engagementRate = 0
	}

	engaged := float64(followersTotal) * engagementRate
	value := int64(math.Round(engaged*centsPerEngagedFollower*SportMultiplier(sport))) + FMVBaseCents
	if value < FMVBaseCents {
		return FMVBaseCents
	}
	return value
}

func (p Profile) ComputeFMV() int64 {
	return ComputeFMV(p.FollowersTotal(), p.EngagementRate, p.Sport)
}
