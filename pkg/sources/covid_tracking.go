package sources

import (
	"context"

	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/reconcile"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

const (
	CovidTrackingURL = "https://covidtracking.com/api/v1/states/daily.csv"

	ICUHospitalizedMismatchMessage = "Removed ICU current where it is more than hospitalized current"
	NonStateRegionsMessage         = "Ignoring unexpected non-state regions"

	covidTrackingDateLayout = "20060102"
)

// CovidTrackingFields are the columns of the covidtracking.com states daily
// CSV export.
var CovidTrackingFields = schema.MustMapping("covid_tracking",
	schema.SourceField{Native: "dateChecked"},
	schema.SourceField{Native: "state", Canonical: fields.State},
	schema.SourceField{Native: "positive", Canonical: fields.PositiveTests},
	schema.SourceField{Native: "positiveIncrease"},
	schema.SourceField{Native: "negative", Canonical: fields.NegativeTests},
	schema.SourceField{Native: "negativeIncrease"},
	schema.SourceField{Native: "hospitalized", Canonical: fields.CumulativeHospitalized},
	schema.SourceField{Native: "hospitalizedCurrently", Canonical: fields.CurrentHospitalized},
	schema.SourceField{Native: "hospitalizedIncrease"},
	schema.SourceField{Native: "death", Canonical: fields.Deaths},
	schema.SourceField{Native: "deathIncrease"},
	schema.SourceField{Native: "pending"},
	schema.SourceField{Native: "totalTestResults", Canonical: fields.TotalTests},
	schema.SourceField{Native: "totalTestResultsIncrease"},
	schema.SourceField{Native: "inIcuCurrently", Canonical: fields.CurrentICU},
	schema.SourceField{Native: "inIcuCumulative", Canonical: fields.CumulativeICU},
	schema.SourceField{Native: "onVentilatorCurrently", Canonical: fields.CurrentVentilated},
	schema.SourceField{Native: "onVentilatorCumulative"},
	// parsed into the canonical date before reconciling
	schema.SourceField{Native: "date"},
	schema.SourceField{Native: "fips", Canonical: fields.FIPS},
	schema.SourceField{Native: "totalTestsPeopleViral", Canonical: fields.TotalTestsPeopleViral},
	schema.SourceField{Native: "totalTestsViral", Canonical: fields.TotalTestsViral},
	schema.SourceField{Native: "positiveCasesViral", Canonical: fields.PositiveCasesViral},
	schema.SourceField{Native: "positiveTestsViral", Canonical: fields.PositiveTestsViral},
	schema.SourceField{Native: "totalTestEncountersViral", Canonical: fields.TotalTestEncountersViral},
	schema.SourceField{Native: "totalTestsPeopleAntibody"},
	schema.SourceField{Native: "dateModified"},
	schema.SourceField{Native: "negativeScore"},
	schema.SourceField{Native: "posNeg"},
	schema.SourceField{Native: "deathConfirmed"},
	schema.SourceField{Native: "deathProbable"},
	schema.SourceField{Native: "totalTestsAntibody"},
	schema.SourceField{Native: "hospitalizedCumulative"},
	schema.SourceField{Native: "totalTestsAntigen"},
	schema.SourceField{Native: "positiveTestsPeopleAntibody"},
	schema.SourceField{Native: "totalTestResultsSource"},
	schema.SourceField{Native: "checkTimeEt"},
	schema.SourceField{Native: "positiveTestsAntigen"},
	schema.SourceField{Native: "recovered"},
	schema.SourceField{Native: "negativeTestsAntibody"},
	schema.SourceField{Native: "commercialScore"},
	schema.SourceField{Native: "score"},
	schema.SourceField{Native: "lastUpdateEt"},
	schema.SourceField{Native: "negativeTestsPeopleAntibody"},
	schema.SourceField{Native: "total"},
	schema.SourceField{Native: "hash"},
	schema.SourceField{Native: "dataQualityGrade"},
	schema.SourceField{Native: "negativeRegularScore"},
	schema.SourceField{Native: "positiveTestsAntibody"},
	schema.SourceField{Native: "totalTestsPeopleAntigen"},
	schema.SourceField{Native: "negativeTestsViral"},
	schema.SourceField{Native: "grade"},
	schema.SourceField{Native: "positiveScore"},
	schema.SourceField{Native: "positiveTestsPeopleAntigen"},
	schema.SourceField{Native: "probableCases"},
	schema.SourceField{Native: "hospitalizedDischarged"},
)

// CT reported incomplete or negative testing numbers on these days.
var ctBadTestingDates = map[string]bool{
	"20200717": true,
	"20200718": true,
	"20200719": true,
}

type covidTracking struct{}

func init() {
	Register(covidTracking{})
}

func (covidTracking) Name() string { return "covid_tracking" }

func (covidTracking) Inputs() []InputSpec {
	return []InputSpec{{
		Name: "daily",
		URL:  CovidTrackingURL,
		Read: table.ReadOptions{
			StringColumns: []string{
				"state", "fips", "date", "hash", "dateChecked", "dateModified",
				"lastUpdateEt", "checkTimeEt", "dataQualityGrade", "grade",
				"totalTestResultsSource",
			},
		},
	}}
}

func (covidTracking) Mappings() []*schema.Mapping {
	return []*schema.Mapping{CovidTrackingFields}
}

func (covidTracking) IndexFields() []fields.CommonField {
	return timeseriesIndex
}

func (s covidTracking) Transform(ctx context.Context, in Input) (*table.Table, error) {
	t, err := in.Table(s.Name(), "daily")
	if err != nil {
		return nil, err
	}
	log := in.logger()

	isBadCT := func(r table.Row) bool {
		return r.String("state") == "CT" && ctBadTestingDates[r.String("date")]
	}
	for _, c := range []string{"positive", "negative"} {
		if !t.HasColumn(c) {
			continue
		}
		col := c
		t = t.WithColumn(col, func(r table.Row) interface{} {
			if isBadCT(r) {
				return nil
			}
			return r.Get(col)
		})
	}

	var parseErr error
	t = t.WithColumn(fields.Date.String(), func(r table.Row) interface{} {
		d, err := table.ParseDate(covidTrackingDateLayout, r.String("date"))
		if err != nil && parseErr == nil {
			parseErr = errs.Data("covid_tracking: row %d: bad date %q", r.Index(), r.String("date"))
		}
		if err != nil {
			return nil
		}
		return d
	})
	if parseErr != nil {
		return nil, parseErr
	}

	if t.HasColumn("inIcuCurrently") && t.HasColumn("hospitalizedCurrently") {
		var (
			changed int
			states  = map[string]bool{}
		)
		t = t.WithColumn("inIcuCurrently", func(r table.Row) interface{} {
			icu, okICU := r.Float("inIcuCurrently")
			hosp, okHosp := r.Float("hospitalizedCurrently")
			if okICU && okHosp && icu > hosp {
				changed++
				states[r.String("state")] = true
				return nil
			}
			return r.Get("inIcuCurrently")
		})
		if changed > 0 {
			log.With(events.Args{
				{Name: "lines_changed", Value: changed},
				{Name: "unique_states", Value: len(states)},
			}).Log(ICUHospitalizedMismatchMessage)
		}
	}

	t, err = reconcile.Reconcile(t, CovidTrackingFields, []string{fields.Date.String()}, reconcile.Options{
		Logger:      log,
		Suggestions: in.Suggestions,
	})
	if err != nil {
		return nil, err
	}

	t = t.SetConstant(fields.Country.String(), Country)
	fips := fields.FIPS.String()
	if t.HasColumn(fips) {
		states := t.Filter(func(r table.Row) bool { return len(r.String(fips)) == 2 })
		if states.Len() != t.Len() {
			log.Log(NonStateRegionsMessage)
			t = states
		}
	}
	return t.SetConstant(fields.AggregateLevel.String(), LevelState), nil
}
