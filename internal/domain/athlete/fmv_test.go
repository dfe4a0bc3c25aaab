package athlete

import "testing"

func TestComputeFMV(t *testing.T) {
	tests := []struct {
		name       string
		followers  int64
		engagement float64
		sport      Sport
		want       int64
	}{
		{name: "no audience gets base", followers: 0, engagement: 0.05, sport: SportSoccer, want: FMVBaseCents},
		// 10,000 * 0.05 = 500 engaged * 10c = 5,000c, football x1.5 = 7,500c
		{name: "football multiplier", followers: 10_000, engagement: 0.05, sport: SportFootball, want: 7_500 + FMVBaseCents},
		{name: "basketball multiplier", followers: 10_000, engagement: 0.05, sport: SportBasketball, want: 7_000 + FMVBaseCents},
		{name: "other sport", followers: 10_000, engagement: 0.05, sport: SportTennis, want: 5_000 + FMVBaseCents},
		{name: "negative inputs clamp", followers: -5, engagement: -1, sport: SportFootball, want: FMVBaseCents},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeFMV(tc.followers, tc.engagement, tc.sport); got != tc.want {
				t.Fatalf("ComputeFMV = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestProfile_Validate(t *testing.T) {
	valid := Profile{
		FirstName:          "Jordan",
		LastName:           "Lee",
		Sport:              SportBasketball,
		School:             "Ohio State",
		State:              "OH",
		GraduationYear:     2027,
		InstagramFollowers: 12_000,
		EngagementRate:     0.04,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}
	if valid.FollowersTotal() != 12_000 {
		t.Fatalf("unexpected follower total %d", valid.FollowersTotal())
	}

	bad := valid
	bad.State = "ZZ"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected invalid state error")
	}

	bad = valid
	bad.EngagementRate = 1.5
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected engagement range error")
	}
}
