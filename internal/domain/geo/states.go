package geo

import "strings"

// Region is a US Census Bureau region.
type Region string

const (
	RegionNortheast Region = "northeast"
	RegionMidwest   Region = "midwest"
	RegionSouth     Region = "south"
	RegionWest      Region = "west"
)

var stateRegions = map[string]Region{
	"CT": RegionNortheast, "ME": RegionNortheast, "MA": RegionNortheast, "NH": RegionNortheast,
	"RI": RegionNortheast, "VT": RegionNortheast, "NJ": RegionNortheast, "NY": RegionNortheast,
	"PA": RegionNortheast,

	"IL": RegionMidwest, "IN": RegionMidwest, "MI": RegionMidwest, "OH": RegionMidwest,
	"WI": RegionMidwest, "IA": RegionMidwest, "KS": RegionMidwest, "MN": RegionMidwest,
	"MO": RegionMidwest, "NE": RegionMidwest, "ND": RegionMidwest, "SD": RegionMidwest,

	"DE": RegionSouth, "DC": RegionSouth, "FL": RegionSouth, "GA": RegionSouth,
	"MD": RegionSouth, "NC": RegionSouth, "SC": RegionSouth, "VA": RegionSouth,
	"WV": RegionSouth, "AL": RegionSouth, "KY": RegionSouth, "MS": RegionSouth,
	"TN": RegionSouth, "AR": RegionSouth, "LA": RegionSouth, "OK": RegionSouth,
	"TX": RegionSouth,

	"AZ": RegionWest, "CO": RegionWest, "ID": RegionWest, "MT": RegionWest,
	"NV": RegionWest, "NM": RegionWest, "UT": RegionWest, "WY": RegionWest,
	"AK": RegionWest, "CA": RegionWest, "HI": RegionWest, "OR": RegionWest,
	"WA": RegionWest,
}

// NormalizeState upper-cases and trims a two letter state code.
func NormalizeState(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func IsState(code string) bool {
	_, ok := stateRegions[NormalizeState(code)]
	return ok
}

// RegionOf returns the census region of a state code, or "" when unknown.
func RegionOf(code string) Region {
	return stateRegions[NormalizeState(code)]
}

func SameRegion(a, b string) bool {
	ra := RegionOf(a)
	return ra != "" && ra == RegionOf(b)
}
