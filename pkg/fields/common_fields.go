package fields

import (
	"sort"
)

// CommonField identifies a column shared across every normalized source.
// The zero value is None, which means "no canonical field".
type CommonField int

const (
	None CommonField = iota

	FIPS
	Date
	// CovidAtlas style locationID
	LocationID
	// 2 letter state abbreviation, i.e. MA
	State
	Country
	County
	AggregateLevel
	// Full state name, i.e. Massachusetts
	StateFullName

	Cases
	Deaths
	Recovered

	NewCases
	NewDeaths
	WeeklyNewCases
	WeeklyNewDeaths

	ModelAbbr
	ForecastDate
	Quantile

	CumulativeHospitalized
	CumulativeICU

	PositiveTests
	NegativeTests
	TotalTests

	PositiveTestsViral
	PositiveCasesViral
	TotalTestsViral
	TotalTestsPeopleViral
	TotalTestEncountersViral

	CurrentICU
	CurrentHospitalized
	CurrentVentilated

	Population

	StaffedBeds
	LicensedBeds
	ICUBeds
	AllBedTypicalOccupancyRate
	ICUTypicalOccupancyRate
	MaxBedCount
	VentilatorCapacity

	HospitalBedsInUseAny
	CurrentHospitalizedTotal
	CurrentICUTotal

	ContactTracersCount
	Latitude
	Longitude

	// Ratio of positive tests to total tests, from 0.0 to 1.0
	TestPositivity
	TestPositivity7D
	TestPositivity14D

	VaccinesAllocated
	VaccinesDistributed
	VaccinesAdministered
	VaccinationsInitiated
	VaccinationsCompleted
	VaccinationsInitiatedPct
	VaccinationsCompletedPct

	CANLocationPageURL

	numCommonFields
)

// Maps CommonFields to their wire value
var CommonFieldStringsByCommonField = map[CommonField]string{
	FIPS:           "fips",
	Date:           "date",
	LocationID:     "location_id",
	State:          "state",
	Country:        "country",
	County:         "county",
	AggregateLevel: "aggregate_level",
	StateFullName:  "state_full_name",

	Cases:     "cases",
	Deaths:    "deaths",
	Recovered: "recovered",

	NewCases:        "new_cases",
	NewDeaths:       "new_deaths",
	WeeklyNewCases:  "weekly_new_cases",
	WeeklyNewDeaths: "weekly_new_deaths",

	ModelAbbr:    "model_abbr",
	ForecastDate: "forecast_date",
	Quantile:     "quantile",

	CumulativeHospitalized: "cumulative_hospitalized",
	CumulativeICU:          "cumulative_icu",

	PositiveTests: "positive_tests",
	NegativeTests: "negative_tests",
	TotalTests:    "total_tests",

	PositiveTestsViral:       "positive_tests_viral",
	PositiveCasesViral:       "positive_cases_viral",
	TotalTestsViral:          "total_tests_viral",
	TotalTestsPeopleViral:    "total_tests_people_viral",
	TotalTestEncountersViral: "total_test_encounters_viral",

	CurrentICU:          "current_icu",
	CurrentHospitalized: "current_hospitalized",
	CurrentVentilated:   "current_ventilated",

	Population: "population",

	StaffedBeds:                "staffed_beds",
	LicensedBeds:               "licensed_beds",
	ICUBeds:                    "icu_beds",
	AllBedTypicalOccupancyRate: "all_beds_occupancy_rate",
	ICUTypicalOccupancyRate:    "icu_occupancy_rate",
	MaxBedCount:                "max_bed_count",
	VentilatorCapacity:         "ventilator_capacity",

	HospitalBedsInUseAny:     "hospital_beds_in_use_any",
	CurrentHospitalizedTotal: "current_hospitalized_total",
	CurrentICUTotal:          "current_icu_total",

	ContactTracersCount: "contact_tracers_count",
	Latitude:            "latitude",
	Longitude:           "longitude",

	TestPositivity:    "test_positivity",
	TestPositivity7D:  "test_positivity_7d",
	TestPositivity14D: "test_positivity_14d",

	VaccinesAllocated:        "vaccines_allocated",
	VaccinesDistributed:      "vaccines_distributed",
	VaccinesAdministered:     "vaccines_administered",
	VaccinationsInitiated:    "vaccinations_initiated",
	VaccinationsCompleted:    "vaccinations_completed",
	VaccinationsInitiatedPct: "vaccinations_initiated_pct",
	VaccinationsCompletedPct: "vaccinations_completed_pct",

	CANLocationPageURL: "can_location_page_url",
}

var commonFieldsByString = func() map[string]CommonField {
	m := make(map[string]CommonField, len(CommonFieldStringsByCommonField))
	for f, s := range CommonFieldStringsByCommonField {
		m[s] = f
	}
	return m
}()

// TimeseriesKeys are the index columns of a timeseries table.
var TimeseriesKeys = []CommonField{FIPS, Date}

// LegacyRegionFields are expected when a region is represented in a table.
// Newer code should only depend on FIPS.
var LegacyRegionFields = []CommonField{FIPS, State, Country, County, AggregateLevel}

func (f CommonField) String() string {
	if s, ok := CommonFieldStringsByCommonField[f]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether f is a member of the registry. None is not.
func (f CommonField) Valid() bool {
	_, ok := CommonFieldStringsByCommonField[f]
	return ok
}

// Order returns the declaration position of f, used for column ordering.
func (f CommonField) Order() int {
	return int(f)
}

// Lookup returns the field whose wire value is s.
func Lookup(s string) (CommonField, bool) {
	f, ok := commonFieldsByString[s]
	return f, ok
}

// All returns every field in declaration order.
func All() []CommonField {
	out := make([]CommonField, 0, numCommonFields-1)
	for f := None + 1; f < numCommonFields; f++ {
		out = append(out, f)
	}
	return out
}

// Strings returns the wire values of fs.
func Strings(fs []CommonField) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	return out
}

// SortColumns returns cols ordered for output: the index columns first in the
// order given, then canonical fields by declaration order, then everything
// else alphabetically. cols is not modified.
func SortColumns(cols []string, index ...CommonField) []string {
	indexPos := make(map[string]int, len(index))
	for i, f := range index {
		indexPos[f.String()] = i
	}

	out := make([]string, len(cols))
	copy(out, cols)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := columnRank(out[i], indexPos), columnRank(out[j], indexPos)
		if ri != rj {
			return ri < rj
		}
		return out[i] < out[j]
	})
	return out
}

// columnRank groups index columns, then canonical fields, then the rest.
func columnRank(col string, indexPos map[string]int) int {
	if i, ok := indexPos[col]; ok {
		return i
	}
	if f, ok := Lookup(col); ok {
		return len(indexPos) + f.Order()
	}
	return len(indexPos) + int(numCommonFields)
}
