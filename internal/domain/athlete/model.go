package athlete

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/nil-marketplace/internal/domain/geo"
)

var (
	ErrAlreadySaved = errors.New("athlete already saved")
	ErrEmailTaken   = errors.New("athlete email already registered")
)

type Sport string

const (
	SportFootball   Sport = "football"
	SportBasketball Sport = "basketball"
	SportBaseball   Sport = "baseball"
	SportSoftball   Sport = "softball"
	SportSoccer     Sport = "soccer"
	SportVolleyball Sport = "volleyball"
	SportTrack      Sport = "track"
	SportSwimming   Sport = "swimming"
	SportTennis     Sport = "tennis"
	SportGolf       Sport = "golf"
	SportWrestling  Sport = "wrestling"
	SportHockey     Sport = "hockey"
	SportLacrosse   Sport = "lacrosse"
	SportGymnastics Sport = "gymnastics"
)

var KnownSports = map[Sport]struct{}{
	SportFootball: {}, SportBasketball: {}, SportBaseball: {}, SportSoftball: {},
	SportSoccer: {}, SportVolleyball: {}, SportTrack: {}, SportSwimming: {},
	SportTennis: {}, SportGolf: {}, SportWrestling: {}, SportHockey: {},
	SportLacrosse: {}, SportGymnastics: {},
}

func NormalizeSport(raw string) Sport {
	return Sport(strings.ToLower(strings.TrimSpace(raw)))
}

func IsKnownSport(s Sport) bool {
	_, ok := KnownSports[s]
	return ok
}

// Profile is an athlete's public marketplace profile. UserID is empty for
// profiles imported from a roster and not yet claimed.
type Profile struct {
	ID                 string
	UserID             string
	FirstName          string
	LastName           string
	Email              string
	Sport              Sport
	Position           string
	School             string
	State              string
	GraduationYear     int
	InstagramFollowers int64
	TikTokFollowers    int64
	TwitterFollowers   int64
	EngagementRate     float64
	Bio                string
	OpenToDeals        bool
	FMVCents           int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (p Profile) FollowersTotal() int64 {
	return p.InstagramFollowers + p.TikTokFollowers + p.TwitterFollowers
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return fmt.Errorf("first and last name are required")
	}
	if p.Sport == "" {
		return fmt.Errorf("sport is required")
	}
	if strings.TrimSpace(p.School) == "" {
		return fmt.Errorf("school is required")
	}
	if !geo.IsState(p.State) {
		return fmt.Errorf("invalid state %q", p.State)
	}
	if p.GraduationYear < 1900 {
		return fmt.Errorf("graduation year is required")
	}
	if p.InstagramFollowers < 0 || p.TikTokFollowers < 0 || p.TwitterFollowers < 0 {
		return fmt.Errorf("follower counts must be >= 0")
	}
	if p.EngagementRate < 0 || p.EngagementRate > 1 {
		return fmt.Errorf("engagement rate must be between 0 and 1")
	}

	return nil
}

// SavedAthlete is an agency bookmark.
type SavedAthlete struct {
	AgencyID  string
	AthleteID string
	Note      string
	CreatedAt time.Time
}

// DiscoveryFilter drives the agency discovery feed. Zero values are ignored.
type DiscoveryFilter struct {
	Sport        Sport
	State        string
	MinFollowers int64
	MaxFMVCents  int64
	Query        string
	Limit        int
	Offset       int
}
