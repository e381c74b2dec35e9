package sources

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/reconcile"
	"github.com/covidactnow/datapublic/pkg/table"
	"github.com/covidactnow/datapublic/pkg/tests"
)

func readInput(t *testing.T, s Source, name, csv string) *table.Table {
	t.Helper()
	for _, spec := range s.Inputs() {
		if spec.Name == name {
			tbl, err := table.ReadCSV(strings.NewReader(csv), spec.Read)
			require.NoError(t, err)
			return tbl
		}
	}
	t.Fatalf("source %s has no input %s", s.Name(), name)
	return nil
}

func mustSource(t *testing.T, name string) Source {
	t.Helper()
	s, err := Get(name)
	require.NoError(t, err)
	return s
}

func day(month time.Month, d int) time.Time {
	return time.Date(2020, month, d, 0, 0, 0, 0, time.UTC)
}

func requireRecords(t *testing.T, want []map[string]interface{}, got *table.Table) {
	t.Helper()
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry(t *testing.T) {
	require.Equal(t, []string{
		"can_scraper_state_providers",
		"cdc_testing",
		"cdc_vaccines",
		"cms_testing",
		"covid_care_map",
		"covid_tracking",
		"hhs_hospital",
		"hhs_testing",
	}, Names())

	for _, name := range Names() {
		s := mustSource(t, name)
		require.Equal(t, name, s.Name())
		require.NotEmpty(t, s.Inputs(), name)
		require.NotEmpty(t, s.IndexFields(), name)
		for _, m := range s.Mappings() {
			require.NoError(t, m.Validate(), name)
		}
	}

	_, err := Get("nope")
	require.Error(t, err)
	require.Equal(t, 2, errs.ExitCode(err))

	require.Panics(t, func() { Register(covidTracking{}) })
}

func TestMissingInput(t *testing.T) {
	for _, name := range Names() {
		_, err := mustSource(t, name).Transform(context.Background(), Input{Logger: tests.CaptureEvents().Logger})
		require.True(t, errs.IsConfiguration(err), "%s: %v", name, err)
	}
}

const covidTrackingCSV = `date,state,positive,negative,hospitalizedCurrently,inIcuCurrently,fips,hash
20200717,CT,100,200,10,5,09,a
20200716,CT,90,180,10,12,09,b
20200717,NY,50,60,20,8,36,c
20200717,XX,1,1,,,99001,d
`

func TestCovidTracking(t *testing.T) {
	s := mustSource(t, "covid_tracking")
	rec := tests.CaptureEvents()

	out, err := s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{"daily": readInput(t, s, "daily", covidTrackingCSV)},
		Logger: rec.Logger,
	})
	require.NoError(t, err)

	require.Equal(t, []string{
		reconcile.MissingColumnsMessage,
		NonStateRegionsMessage,
	}, without(rec.Messages(), ICUHospitalizedMismatchMessage))
	icu := rec.Events(ICUHospitalizedMismatchMessage)
	require.Len(t, icu, 1)
	lines, _ := tests.Arg(icu[0], "lines_changed")
	states, _ := tests.Arg(icu[0], "unique_states")
	require.Equal(t, 1, lines)
	require.Equal(t, 1, states)

	requireRecords(t, []map[string]interface{}{
		{"date": day(7, 17), "state": "CT", "fips": "09", "positive_tests": nil, "negative_tests": nil, "current_hospitalized": 10.0, "current_icu": 5.0, "country": "USA", "aggregate_level": "state"},
		{"date": day(7, 16), "state": "CT", "fips": "09", "positive_tests": 90.0, "negative_tests": 180.0, "current_hospitalized": 10.0, "current_icu": nil, "country": "USA", "aggregate_level": "state"},
		{"date": day(7, 17), "state": "NY", "fips": "36", "positive_tests": 50.0, "negative_tests": 60.0, "current_hospitalized": 20.0, "current_icu": 8.0, "country": "USA", "aggregate_level": "state"},
	}, out)
}

func TestCovidTrackingBadDate(t *testing.T) {
	s := mustSource(t, "covid_tracking")
	_, err := s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{"daily": readInput(t, s, "daily", "date,state,fips\n2020-07-17,NY,36\n")},
		Logger: tests.CaptureEvents().Logger,
	})
	require.Error(t, err)
	require.Equal(t, 5, errs.ExitCode(err))
}

func without(msgs []string, drop string) []string {
	var out []string
	for _, m := range msgs {
		if m != drop {
			out = append(out, m)
		}
	}
	return out
}

const hhsTestingCSV = `state,state_name,state_fips,fema_region,overall_outcome,date,new_results_reported,total_results_reported
AL,Alabama,01,Region 4,Negative,2020-10-01,10,1000
AL,Alabama,01,Region 4,Positive,2020-10-01,2,100
AL,Alabama,01,Region 4,Inconclusive,2020-10-01,0,5
CA,California,06,Region 9,Positive,2020-10-01,3,300
`

func TestHHSTesting(t *testing.T) {
	s := mustSource(t, "hhs_testing")
	rec := tests.CaptureEvents()

	out, err := s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{"testing": readInput(t, s, "testing", hhsTestingCSV)},
		Logger: rec.Logger,
	})
	require.NoError(t, err)
	require.Empty(t, rec.Messages())
	requireRecords(t, []map[string]interface{}{
		{"fips": "01", "date": day(10, 1), "state": "AL", "positive_tests": 100.0, "negative_tests": 1000.0, "country": "USA", "aggregate_level": "state"},
	}, out)
}

func TestLocateHHSTestingCSV(t *testing.T) {
	url, err := locateHHSTestingCSV([]byte(`{"result":[{"resources":[{"url":"https://example.com/a.csv"},{"url":"b"}]}]}`))
	require.NoError(t, err)
	require.Equal(t, "https://example.com/a.csv", url)

	_, err = locateHHSTestingCSV([]byte(`{"result":[]}`))
	require.Error(t, err)
	_, err = locateHHSTestingCSV([]byte(`not json`))
	require.Error(t, err)
}

const hhsHospitalCSV = `provider,dt,location_type,location,variable_name,measurement,unit,age,race,sex,value
hhs,2020-10-01,county,1001,adult_icu_beds_capacity,current,beds,all,all,all,10
hhs,2020-10-01,county,1001,adult_icu_beds_capacity,rolling_average_7_day,beds,all,all,all,9
hhs,2020-10-01,county,1001,hospital_beds_capacity,rolling_average_7_day,beds,all,all,all,50
hhs,2020-10-01,state,1,hospital_beds_in_use_covid,current,beds,all,all,all,7
hhs,2020-08-01,state,1,hospital_beds_in_use_covid,current,beds,all,all,all,6
hhs,2020-10-01,state,2,hospital_beds_in_use_covid,current,beds,all,all,all,3
cdc,2020-10-01,state,1,hospital_beds_in_use_covid,current,beds,all,all,all,99
`

func TestHHSHospital(t *testing.T) {
	s := mustSource(t, "hhs_hospital")
	rec := tests.CaptureEvents()

	out, err := s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{
			"scraper":  readInput(t, s, "scraper", hhsHospitalCSV),
			"counties": readInput(t, s, "counties", "fips,state,county\n1001,AL,Autauga County\n"),
		},
		Logger: rec.Logger,
	})
	require.NoError(t, err)

	missing := rec.Events(reconcile.MissingColumnsMessage)
	require.Len(t, missing, 1)
	fieldsArg, _ := tests.Arg(missing[0], "missing_fields")
	require.Equal(t, []string{"adult_icu_beds_in_use", "adult_icu_beds_in_use_covid", "hospital_beds_in_use"}, fieldsArg)

	requireRecords(t, []map[string]interface{}{
		{"fips": "01", "date": day(10, 1), "icu_beds": nil, "staffed_beds": nil, "current_hospitalized": 7.0, "county": nil, "state": "AL", "aggregate_level": "state", "country": "USA"},
		{"fips": "01001", "date": day(10, 1), "icu_beds": 10.0, "staffed_beds": 50.0, "current_hospitalized": nil, "county": "Autauga County", "state": "AL", "aggregate_level": "county", "country": "USA"},
	}, out)
}

func TestFilterEarlyHospitalData(t *testing.T) {
	in, err := table.FromRecords([]string{"fips", "date"},
		map[string]interface{}{"fips": "06", "date": day(8, 31)},
		map[string]interface{}{"fips": "06", "date": day(9, 1)},
		map[string]interface{}{"fips": "53", "date": day(10, 24)},
		map[string]interface{}{"fips": "53", "date": day(10, 25)},
		map[string]interface{}{"fips": "53033", "date": day(10, 1)},
		map[string]interface{}{"fips": "36", "date": nil},
	)
	require.NoError(t, err)
	requireRecords(t, []map[string]interface{}{
		{"fips": "06", "date": day(9, 1)},
		{"fips": "53", "date": day(10, 25)},
		{"fips": "53033", "date": day(10, 1)},
	}, filterEarlyHospitalData(in))
}

const careMapStateCSV = `State,Staffed All Beds,Staffed ICU Beds,Licensed All Beds,All Bed Occupancy Rate,ICU Bed Occupancy Rate,Population
NV,100,50,120,0.6,0.7,3000000
UT,80,40,70,0.5,0.6,3200000
VI,10,2,12,0.5,0.5,100000
`

const careMapCountyCSV = `fips_code,State,County Name,Staffed All Beds,Staffed ICU Beds,Licensed All Beds,All Bed Occupancy Rate,ICU Bed Occupancy Rate
32031,NV,Washoe,30,20,,0.6,0.7
`

func TestCovidCareMap(t *testing.T) {
	s := mustSource(t, "covid_care_map")
	rec := tests.CaptureEvents()

	out, err := s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{
			"state":  readInput(t, s, "state", careMapStateCSV),
			"county": readInput(t, s, "county", careMapCountyCSV),
		},
		Logger: rec.Logger,
	})
	require.NoError(t, err)
	require.Empty(t, rec.Messages(), "extra columns are not reported")

	requireRecords(t, []map[string]interface{}{
		{"fips": "32031", "state": "NV", "county": "Washoe", "staffed_beds": 30.0, "icu_beds": 162.0, "licensed_beds": nil, "all_beds_occupancy_rate": 0.6, "icu_occupancy_rate": 0.7, "aggregate_level": "county", "country": "USA", "max_bed_count": 30.0},
		{"fips": "32", "state": "NV", "county": nil, "staffed_beds": 100.0, "icu_beds": 844.0, "licensed_beds": 120.0, "all_beds_occupancy_rate": 0.6, "icu_occupancy_rate": 0.7, "aggregate_level": "state", "country": "USA", "max_bed_count": 120.0},
		{"fips": "49", "state": "UT", "county": nil, "staffed_beds": 80.0, "icu_beds": 564.0, "licensed_beds": 70.0, "all_beds_occupancy_rate": 0.5, "icu_occupancy_rate": 0.6, "aggregate_level": "state", "country": "USA", "max_bed_count": 80.0},
	}, out)
}

func TestCovidCareMapRejectsBadLocations(t *testing.T) {
	s := mustSource(t, "covid_care_map")
	suite := []struct {
		desc   string
		state  string
		county string
	}{
		{"duplicate county", careMapStateCSV, careMapCountyCSV + "32031,NV,Washoe,1,1,1,0.1,0.1\n"},
		{"unknown state", careMapStateCSV + "ZZ,1,1,1,0.1,0.1,1\n", careMapCountyCSV},
	}
	for i, testCase := range suite {
		t.Run(fmt.Sprintf("%d %s", i, testCase.desc), func(t *testing.T) {
			_, err := s.Transform(context.Background(), Input{
				Tables: map[string]*table.Table{
					"state":  readInput(t, s, "state", testCase.state),
					"county": readInput(t, s, "county", testCase.county),
				},
				Logger: tests.CaptureEvents().Logger,
			})
			require.Error(t, err)
			require.Equal(t, 5, errs.ExitCode(err))
		})
	}
}

func TestCMSTesting(t *testing.T) {
	s := mustSource(t, "cms_testing")
	current, err := table.FromRecords(
		[]string{"County", "FIPS Code", "State", "Percent Positivity in prior 14 days", "Population"},
		map[string]interface{}{"County": "Autauga", "FIPS Code": 1001.0, "State": "AL", "Percent Positivity in prior 14 days": 0.05, "Population": 55869.0},
	)
	require.NoError(t, err)
	older, err := table.FromRecords(
		[]string{"County", "FIPS", "State", "Percent Positive in prior 7 days"},
		map[string]interface{}{"County": "Autauga", "FIPS": 1001.0, "State": "AL", "Percent Positive in prior 7 days": "<10 tests"},
	)
	require.NoError(t, err)
	rec := tests.CaptureEvents()

	out, err := s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{
			"archive/2020-10-07": current,
			"archive/2020-09-30": older,
		},
		Logger: rec.Logger,
	})
	require.NoError(t, err)
	require.Empty(t, rec.Events(reconcile.MissingColumnsMessage, reconcile.ExtraColumnsMessage))

	requireRecords(t, []map[string]interface{}{
		{"county": "Autauga", "fips": "01001", "state": "AL", "test_positivity_14d": nil, "country": "USA", "aggregate_level": "county", "date": day(9, 30)},
		{"county": "Autauga", "fips": "01001", "state": "AL", "test_positivity_14d": 0.05, "country": "USA", "aggregate_level": "county", "date": day(10, 7)},
	}, out)

	_, err = s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{"archive/latest": current},
		Logger: rec.Logger,
	})
	require.True(t, errs.IsConfiguration(err), "%v", err)
}

func TestCountyFIPS(t *testing.T) {
	require.Equal(t, "01001", countyFIPS(1001.0))
	require.Equal(t, "01001", countyFIPS("1001"))
	require.Equal(t, "36061", countyFIPS("36061"))
	require.Nil(t, countyFIPS(""))
	require.Nil(t, countyFIPS(nil))
}

const cdcTestingCSV = `provider,dt,location_type,location,variable_name,measurement,unit,age,race,sex,value
cdc,2020-12-01,county,11001,pcr_tests_positive,rolling_average_7_day,percentage,all,all,all,5
cdc,2020-12-02,county,11001,pcr_tests_positive,rolling_average_7_day,percentage,all,all,all,0
cdc,2020-12-01,county,36061,pcr_tests_positive,rolling_average_7_day,percentage,all,all,all,0
cdc,2020-12-02,county,36061,pcr_tests_positive,rolling_average_7_day,percentage,all,all,all,0
`

func TestCDCTesting(t *testing.T) {
	s := mustSource(t, "cdc_testing")
	out, err := s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{"scraper": readInput(t, s, "scraper", cdcTestingCSV)},
		Logger: tests.CaptureEvents().Logger,
	})
	require.NoError(t, err)
	requireRecords(t, []map[string]interface{}{
		{"fips": "11", "date": time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC), "aggregate_level": "state", "test_positivity_7d": 0.05},
		{"fips": "11", "date": time.Date(2020, 12, 2, 0, 0, 0, 0, time.UTC), "aggregate_level": "state", "test_positivity_7d": nil},
		{"fips": "11001", "date": time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC), "aggregate_level": "county", "test_positivity_7d": 0.05},
		{"fips": "11001", "date": time.Date(2020, 12, 2, 0, 0, 0, 0, time.UTC), "aggregate_level": "county", "test_positivity_7d": nil},
		{"fips": "36061", "date": time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC), "aggregate_level": "county", "test_positivity_7d": nil},
		{"fips": "36061", "date": time.Date(2020, 12, 2, 0, 0, 0, 0, time.UTC), "aggregate_level": "county", "test_positivity_7d": nil},
	}, out)

	_, err = s.Transform(context.Background(), Input{
		Tables: map[string]*table.Table{"scraper": readInput(t, s, "scraper",
			cdcTestingCSV+"cdc,2020-12-01,state,36,pcr_tests_positive,rolling_average_7_day,percentage,all,all,all,3\n")},
		Logger: tests.CaptureEvents().Logger,
	})
	require.Equal(t, 5, errs.ExitCode(err), "%v", err)
}

func TestRemoveTrailingZeros(t *testing.T) {
	in, err := table.FromRecords([]string{"fips", "date", "v"},
		map[string]interface{}{"fips": "01", "date": day(1, 3), "v": 0.0},
		map[string]interface{}{"fips": "01", "date": day(1, 1), "v": 2.0},
		map[string]interface{}{"fips": "01", "date": day(1, 2), "v": nil},
		map[string]interface{}{"fips": "01", "date": day(1, 4), "v": 1.0},
		map[string]interface{}{"fips": "01", "date": day(1, 5), "v": 0.0},
	)
	require.NoError(t, err)
	out, err := RemoveTrailingZeros(in, "v")
	require.NoError(t, err)
	requireRecords(t, []map[string]interface{}{
		{"fips": "01", "date": day(1, 1), "v": 2.0},
		{"fips": "01", "date": day(1, 2), "v": nil},
		{"fips": "01", "date": day(1, 3), "v": 0.0},
		{"fips": "01", "date": day(1, 4), "v": 1.0},
		{"fips": "01", "date": day(1, 5), "v": nil},
	}, out)

	empty, err := RemoveTrailingZeros(table.MustNew("fips", "date", "v"), "v")
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())
}

const vaccinesCSV = `provider,dt,location_type,location,variable_name,measurement,unit,age,race,sex,value
cdc,2021-01-01,state,6,total_vaccine_allocated,cumulative,doses,all,all,all,1000
cdc,2021-01-01,state,6,total_vaccine_initiated,cumulative,people,all,all,all,300
cdc,2021-01-01,state,6,total_vaccine_initiated,current,percentage,all,all,all,1.2
state,2021-01-01,state,6,total_vaccine_initiated,cumulative,people,all,all,all,310
state,2021-01-01,state,6,total_vaccine_initiated,current,percentage,all,all,all,1.3
`

func TestScraperQueries(t *testing.T) {
	jan1 := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	suite := []struct {
		source string
		expect []map[string]interface{}
	}{
		{
			source: "cdc_vaccines",
			expect: []map[string]interface{}{
				{"fips": "06", "date": jan1, "aggregate_level": "state", "vaccines_allocated": 1000.0, "vaccinations_initiated": 300.0},
			},
		},
		{
			source: "can_scraper_state_providers",
			expect: []map[string]interface{}{
				{"fips": "06", "date": jan1, "aggregate_level": "state", "vaccinations_initiated": 310.0, "vaccinations_initiated_pct": 1.3},
			},
		},
	}
	for i, testCase := range suite {
		t.Run(fmt.Sprintf("%d %s", i, testCase.source), func(t *testing.T) {
			s := mustSource(t, testCase.source)
			out, err := s.Transform(context.Background(), Input{
				Tables: map[string]*table.Table{"scraper": readInput(t, s, "scraper", vaccinesCSV)},
				Logger: tests.CaptureEvents().Logger,
			})
			require.NoError(t, err)
			requireRecords(t, testCase.expect, out)
		})
	}
}

func TestScraperCoverage(t *testing.T) {
	const coverageCSV = vaccinesCSV + `state,2021-01-01,state,6,pcr_tests_negative,cumulative,specimens,all,all,all,40
state,2021-01-01,state,6,icu_beds_available,current,beds,all,all,all,12
`
	suite := []struct {
		desc     string
		source   string
		variable string
		warned   bool
	}{
		{"rows of any unit cover a variable", "can_scraper_state_providers", "pcr_tests_negative", false},
		{"rows of any measurement cover a variable", "can_scraper_state_providers", "icu_beds_available", false},
		{"missing variable is logged", "can_scraper_state_providers", "ventilators_in_use", true},
		{"missing pivoted variable is logged", "can_scraper_state_providers", "hospital_beds_in_use_covid", true},
		{"coverage is not checked without warnings", "cdc_vaccines", "ventilators_in_use", false},
	}
	for i, testCase := range suite {
		t.Run(fmt.Sprintf("%d %s", i, testCase.desc), func(t *testing.T) {
			s := mustSource(t, testCase.source)
			rec := tests.CaptureEvents()
			out, err := s.Transform(context.Background(), Input{
				Tables: map[string]*table.Table{"scraper": readInput(t, s, "scraper", coverageCSV)},
				Logger: rec.Logger,
			})
			require.NoError(t, err)
			require.False(t, out.HasColumn("pcr_tests_negative"))
			require.False(t, out.HasColumn("icu_beds_available"))

			var warned bool
			for _, msg := range rec.Messages() {
				if strings.Contains(msg, "variable "+testCase.variable+" ") {
					warned = true
				}
			}
			require.Equal(t, testCase.warned, warned, "%q", rec.Messages())
		})
	}
}
