package domain

import "strings"

// Region is one of the fixed set of domestic aggregation buckets: the 50 US
// states, the District of Columbia, and a catch-all Other bucket for domestic
// locations that are not states (overseas territories, army bases).
type Region struct {
	Code string
	Name string
}

// Other collects domestic ship-to locations that do not resolve to a state.
var Other = Region{Code: "OTHER", Name: "Other"}

// Regions is the canonical enumeration, in output order. Other is a permanent
// member so territory sales are always visible in the final table.
var Regions = []Region{
	{"AL", "Alabama"},
	{"AK", "Alaska"},
	{"AZ", "Arizona"},
	{"AR", "Arkansas"},
	{"CA", "California"},
	{"CO", "Colorado"},
	{"CT", "Connecticut"},
	{"DE", "Delaware"},
	{"DC", "District Of Columbia"},
	{"FL", "Florida"},
	{"GA", "Georgia"},
	{"HI", "Hawaii"},
	{"ID", "Idaho"},
	{"IL", "Illinois"},
	{"IN", "Indiana"},
	{"IA", "Iowa"},
	{"KS", "Kansas"},
	{"KY", "Kentucky"},
	{"LA", "Louisiana"},
	{"ME", "Maine"},
	{"MD", "Maryland"},
	{"MA", "Massachusetts"},
	{"MI", "Michigan"},
	{"MN", "Minnesota"},
	{"MS", "Mississippi"},
	{"MO", "Missouri"},
	{"MT", "Montana"},
	{"NE", "Nebraska"},
	{"NV", "Nevada"},
	{"NH", "New Hampshire"},
	{"NJ", "New Jersey"},
	{"NM", "New Mexico"},
	{"NY", "New York"},
	{"NC", "North Carolina"},
	{"ND", "North Dakota"},
	{"OH", "Ohio"},
	{"OK", "Oklahoma"},
	{"OR", "Oregon"},
	{"PA", "Pennsylvania"},
	{"RI", "Rhode Island"},
	{"SC", "South Carolina"},
	{"SD", "South Dakota"},
	{"TN", "Tennessee"},
	{"TX", "Texas"},
	{"UT", "Utah"},
	{"VT", "Vermont"},
	{"VA", "Virginia"},
	{"WA", "Washington"},
	{"WV", "West Virginia"},
	{"WI", "Wisconsin"},
	{"WY", "Wyoming"},
	Other,
}

// Both projections are derived from the single Regions slice, so the forward
// and inverse lookups can never diverge.
var (
	regionsByCode = make(map[string]Region, len(Regions))
	regionsByName = make(map[string]Region, len(Regions))
)

func init() {
	for _, r := range Regions {
		regionsByCode[r.Code] = r
		regionsByName[strings.ToUpper(r.Name)] = r
	}
}

// RegionByCode resolves a two-letter code ("CA") to its region.
func RegionByCode(code string) (Region, bool) {
	r, ok := regionsByCode[strings.ToUpper(code)]
	return r, ok
}

// RegionByName resolves a full name ("California") to its region.
func RegionByName(name string) (Region, bool) {
	r, ok := regionsByName[strings.ToUpper(name)]
	return r, ok
}

// CanonicalRegion maps a raw ship-to region string onto the enumeration.
// Matching is case-insensitive and ignores punctuation, so "CA", "California"
// and "CALIFORNIA." all resolve to the same bucket. Anything unmatched lands
// in Other. The mapping is idempotent: feeding a canonical code or name back
// in yields the same region.
func CanonicalRegion(raw string) Region {
	cleaned := normalizeRegionInput(raw)
	if r, ok := regionsByCode[cleaned]; ok {
		return r
	}
	if r, ok := regionsByName[cleaned]; ok {
		return r
	}
	return Other
}

func normalizeRegionInput(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range strings.ToUpper(raw) {
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteRune(c)
		case c == ' ':
			b.WriteRune(c)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
