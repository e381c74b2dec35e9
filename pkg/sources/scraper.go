package sources

import (
	"context"

	"github.com/covidactnow/datapublic/pkg/ccd"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

// ScraperURL is the published long format scraper dataset.
const ScraperURL = "https://storage.googleapis.com/us-east4-data-eng-scrapers-a02dc940-bucket/data/final/can_scrape_api_covid_us.parquet"

// scraperInput is the CSV export of the dataset at ScraperURL. The parquet
// file itself is converted upstream.
var scraperInput = InputSpec{Name: "scraper", Read: ccd.ReadOptions}

func scraperDataset(in Input, source string, warnOnMissingCoverage bool) (*ccd.Dataset, error) {
	t, err := in.Table(source, scraperInput.Name)
	if err != nil {
		return nil, err
	}
	ds, err := ccd.NewDataset(t, in.logger())
	if err != nil {
		return nil, err
	}
	ds.WarnOnMissingCoverage = warnOnMissingCoverage
	return ds, nil
}

// scraperQuery is a source that only selects and pivots scraper variables.
type scraperQuery struct {
	name      string
	variables []ccd.Variable
	// log variables without rows
	warnOnMissingCoverage bool
	// checked for rows when warnOnMissingCoverage is set, never pivoted
	coverage []ccd.Variable
}

func (q scraperQuery) Name() string { return q.name }

func (q scraperQuery) Inputs() []InputSpec {
	return []InputSpec{scraperInput}
}

func (q scraperQuery) Mappings() []*schema.Mapping {
	return []*schema.Mapping{ccd.Fields}
}

func (q scraperQuery) IndexFields() []fields.CommonField {
	return timeseriesIndex
}

func (q scraperQuery) Transform(ctx context.Context, in Input) (*table.Table, error) {
	ds, err := scraperDataset(in, q.name, q.warnOnMissingCoverage)
	if err != nil {
		return nil, err
	}
	if q.warnOnMissingCoverage {
		ds.LogMissingCoverage(q.coverage)
	}
	return ds.SelectAndPivot(q.variables)
}

func stateVariable(name, measurement, unit string, field fields.CommonField) ccd.Variable {
	return ccd.Variable{
		VariableName: name,
		Measurement:  measurement,
		Unit:         unit,
		Provider:     "state",
		CommonField:  field,
	}
}

// coverageVariables are state variables of any measurement and unit.
func coverageVariables(names ...string) []ccd.Variable {
	vars := make([]ccd.Variable, len(names))
	for i, name := range names {
		vars[i] = ccd.Variable{VariableName: name, Provider: "state"}
	}
	return vars
}

func init() {
	Register(scraperQuery{
		name: "cdc_vaccines",
		variables: []ccd.Variable{
			{VariableName: "total_vaccine_allocated", Measurement: "cumulative", Unit: "doses", Provider: "cdc", CommonField: fields.VaccinesAllocated},
			{VariableName: "total_vaccine_distributed", Measurement: "cumulative", Unit: "doses", Provider: "cdc", CommonField: fields.VaccinesDistributed},
			{VariableName: "total_vaccine_initiated", Measurement: "cumulative", Unit: "people", Provider: "cdc", CommonField: fields.VaccinationsInitiated},
			{VariableName: "total_vaccine_completed", Measurement: "cumulative", Unit: "people", Provider: "cdc", CommonField: fields.VaccinationsCompleted},
		},
	})

	Register(scraperQuery{
		name:                  "can_scraper_state_providers",
		warnOnMissingCoverage: true,
		coverage: coverageVariables(
			"pcr_tests_negative",
			"unspecified_tests_total",
			"unspecified_tests_positive",
			"icu_beds_available",
			"antibody_tests_total",
			"antigen_tests_positive",
			"antigen_tests_negative",
			"total_vaccine_doses_administered",
			"hospital_beds_in_use",
			"ventilators_in_use",
			"ventilators_available",
			"ventilators_capacity",
			"pediatric_icu_beds_in_use",
			"adult_icu_beds_available",
			"pediatric_icu_beds_capacity",
			"unspecified_tests_negative",
			"antigen_tests_total",
			"adult_icu_beds_in_use",
			"hospital_beds_available",
			"pediatric_icu_beds_available",
			"adult_icu_beds_capacity",
			"icu_beds_in_use",
		),
		variables: []ccd.Variable{
			stateVariable("cases", "cumulative", "people", fields.Cases),
			stateVariable("deaths", "cumulative", "people", fields.Deaths),
			stateVariable("hospital_beds_in_use_covid", "current", "beds", fields.CurrentHospitalized),
			stateVariable("hospital_beds_capacity", "current", "beds", fields.StaffedBeds),
			stateVariable("icu_beds_capacity", "current", "beds", fields.ICUBeds),
			stateVariable("icu_beds_in_use_covid", "current", "beds", fields.CurrentICU),
			// less common units test_encounters and unique_people are ignored
			stateVariable("pcr_tests_total", "cumulative", "specimens", fields.TotalTestsViral),
			stateVariable("pcr_tests_positive", "cumulative", "specimens", fields.PositiveTestsViral),
			stateVariable("total_vaccine_allocated", "cumulative", "doses", fields.VaccinesAllocated),
			stateVariable("total_vaccine_distributed", "cumulative", "doses", fields.VaccinesDistributed),
			stateVariable("total_vaccine_initiated", "cumulative", "people", fields.VaccinationsInitiated),
			stateVariable("total_vaccine_initiated", "current", "percentage", fields.VaccinationsInitiatedPct),
			stateVariable("total_vaccine_completed", "cumulative", "people", fields.VaccinationsCompleted),
			stateVariable("total_vaccine_completed", "current", "percentage", fields.VaccinationsCompletedPct),
			stateVariable("total_vaccine_doses_administered", "cumulative", "doses", fields.VaccinesAdministered),
		},
	})
}
