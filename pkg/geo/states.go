// Package geo holds the location metadata sources need to fill in state
// and county columns.
package geo

import "strings"

type State struct {
	FIPS string
	Abbr string
	Name string
}

var states = []State{
	{"01", "AL", "Alabama"},
	{"02", "AK", "Alaska"},
	{"04", "AZ", "Arizona"},
	{"05", "AR", "Arkansas"},
	{"06", "CA", "California"},
	{"08", "CO", "Colorado"},
	{"09", "CT", "Connecticut"},
	{"10", "DE", "Delaware"},
	{"11", "DC", "District of Columbia"},
	{"12", "FL", "Florida"},
	{"13", "GA", "Georgia"},
	{"15", "HI", "Hawaii"},
	{"16", "ID", "Idaho"},
	{"17", "IL", "Illinois"},
	{"18", "IN", "Indiana"},
	{"19", "IA", "Iowa"},
	{"20", "KS", "Kansas"},
	{"21", "KY", "Kentucky"},
	{"22", "LA", "Louisiana"},
	{"23", "ME", "Maine"},
	{"24", "MD", "Maryland"},
	{"25", "MA", "Massachusetts"},
	{"26", "MI", "Michigan"},
	{"27", "MN", "Minnesota"},
	{"28", "MS", "Mississippi"},
	{"29", "MO", "Missouri"},
	{"30", "MT", "Montana"},
	{"31", "NE", "Nebraska"},
	{"32", "NV", "Nevada"},
	{"33", "NH", "New Hampshire"},
	{"34", "NJ", "New Jersey"},
	{"35", "NM", "New Mexico"},
	{"36", "NY", "New York"},
	{"37", "NC", "North Carolina"},
	{"38", "ND", "North Dakota"},
	{"39", "OH", "Ohio"},
	{"40", "OK", "Oklahoma"},
	{"41", "OR", "Oregon"},
	{"42", "PA", "Pennsylvania"},
	{"44", "RI", "Rhode Island"},
	{"45", "SC", "South Carolina"},
	{"46", "SD", "South Dakota"},
	{"47", "TN", "Tennessee"},
	{"48", "TX", "Texas"},
	{"49", "UT", "Utah"},
	{"50", "VT", "Vermont"},
	{"51", "VA", "Virginia"},
	{"53", "WA", "Washington"},
	{"54", "WV", "West Virginia"},
	{"55", "WI", "Wisconsin"},
	{"56", "WY", "Wyoming"},
	{"60", "AS", "American Samoa"},
	{"66", "GU", "Guam"},
	{"69", "MP", "Northern Mariana Islands"},
	{"72", "PR", "Puerto Rico"},
	{"78", "VI", "Virgin Islands"},
}

var (
	statesByFIPS = map[string]State{}
	statesByAbbr = map[string]State{}
)

func init() {
	for _, s := range states {
		statesByFIPS[s.FIPS] = s
		statesByAbbr[s.Abbr] = s
	}
}

// States returns every state and territory ordered by FIPS.
func States() []State {
	return append([]State(nil), states...)
}

// StateByFIPS looks up a state by its two digit FIPS code. County codes are
// resolved to their state.
func StateByFIPS(fips string) (State, bool) {
	s, ok := statesByFIPS[StateFIPS(fips)]
	return s, ok
}

func StateByAbbr(abbr string) (State, bool) {
	s, ok := statesByAbbr[strings.ToUpper(strings.TrimSpace(abbr))]
	return s, ok
}

// StateFIPS extracts the state part of a state or county FIPS code.
func StateFIPS(fips string) string {
	if len(fips) < 2 {
		return fips
	}
	return fips[:2]
}

// IsCountyFIPS reports whether fips has the five digit county form.
func IsCountyFIPS(fips string) bool {
	return len(fips) == 5
}

// IsStateFIPS reports whether fips has the two digit state form.
func IsStateFIPS(fips string) bool {
	return len(fips) == 2
}
