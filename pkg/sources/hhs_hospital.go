package sources

import (
	"context"
	"time"

	"github.com/covidactnow/datapublic/pkg/ccd"
	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/geo"
	"github.com/covidactnow/datapublic/pkg/reconcile"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

// HHSHospitalFields maps the pivoted HHS bed variables.
var HHSHospitalFields = schema.MustMapping("hhs_hospital",
	schema.SourceField{Native: "adult_icu_beds_capacity", Canonical: fields.ICUBeds},
	schema.SourceField{Native: "adult_icu_beds_in_use", Canonical: fields.CurrentICUTotal},
	schema.SourceField{Native: "adult_icu_beds_in_use_covid", Canonical: fields.CurrentICU},
	schema.SourceField{Native: "hospital_beds_capacity", Canonical: fields.StaffedBeds},
	schema.SourceField{Native: "hospital_beds_in_use", Canonical: fields.HospitalBedsInUseAny},
	schema.SourceField{Native: "hospital_beds_in_use_covid", Canonical: fields.CurrentHospitalized},
)

// Measurements in order of precedence. A 7 day average only fills cells
// without a current value.
var hhsHospitalMeasurements = []string{"current", "rolling_average_7_day"}

var hhsHospitalDefaultStart = mustDate("2020-09-01")

// Per state dates before which HHS reporting was incomplete.
var hhsHospitalStartDates = map[string]time.Time{
	"02": mustDate("2020-10-06"), // Alaska
	"04": mustDate("2020-09-02"), // Arizona
	"15": mustDate("2020-10-10"), // Hawaii
	"16": mustDate("2020-10-17"), // Idaho
	"19": mustDate("2020-09-05"), // Iowa
	"21": mustDate("2020-10-15"), // Kentucky
	"28": mustDate("2020-11-11"), // Mississippi
	"34": mustDate("2020-09-01"), // New Jersey
	"38": mustDate("2020-11-03"), // North Dakota
	"46": mustDate("2020-11-02"), // South Dakota
	"47": mustDate("2020-09-20"), // Tennessee
	"53": mustDate("2020-10-25"), // Washington
}

func mustDate(s string) time.Time {
	d, err := table.ParseDate(table.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

type hhsHospital struct{}

func init() {
	Register(hhsHospital{})
}

func (hhsHospital) Name() string { return "hhs_hospital" }

func (hhsHospital) Inputs() []InputSpec {
	return []InputSpec{
		scraperInput,
		{Name: "counties", Read: geo.CountiesReadOptions},
	}
}

func (hhsHospital) Mappings() []*schema.Mapping {
	return []*schema.Mapping{ccd.Fields, HHSHospitalFields}
}

func (hhsHospital) IndexFields() []fields.CommonField {
	return timeseriesIndex
}

func (s hhsHospital) Transform(ctx context.Context, in Input) (*table.Table, error) {
	ds, err := scraperDataset(in, s.Name(), false)
	if err != nil {
		return nil, err
	}
	countyTable, err := in.Table(s.Name(), "counties")
	if err != nil {
		return nil, err
	}
	counties, err := geo.NewCounties(countyTable)
	if err != nil {
		return nil, err
	}

	fips, date, level := fields.FIPS.String(), fields.Date.String(), fields.AggregateLevel.String()
	var byMeasurement []*table.Table
	for _, m := range hhsHospitalMeasurements {
		var vars []ccd.Variable
		for _, native := range HHSHospitalFields.NativeNames() {
			vars = append(vars, ccd.Variable{
				VariableName: native,
				Measurement:  m,
				Provider:     "hhs",
				Unit:         "beds",
			})
		}
		wide, err := ds.SelectAndPivot(vars)
		if err != nil {
			return nil, err
		}
		byMeasurement = append(byMeasurement, wide)
	}
	wide, err := table.Coalesce([]string{fips, date}, byMeasurement...)
	if err != nil {
		return nil, err
	}
	// recomputed from the FIPS code below
	wide = wide.Drop(level)

	wide, err = reconcile.Reconcile(wide, HHSHospitalFields, []string{fips, date}, reconcile.Options{
		Logger:      in.logger(),
		Suggestions: in.Suggestions,
	})
	if err != nil {
		return nil, err
	}

	var missing error
	wide = wide.Filter(func(r table.Row) bool {
		f := r.String(fips)
		return geo.IsCountyFIPS(f) || geo.IsStateFIPS(f)
	})
	wide = wide.WithColumn(fields.County.String(), func(r table.Row) interface{} {
		if c, ok := counties[r.String(fips)]; ok {
			return c.Name
		}
		return nil
	})
	wide = wide.WithColumn(fields.State.String(), func(r table.Row) interface{} {
		f := r.String(fips)
		if geo.IsCountyFIPS(f) {
			if c, ok := counties[f]; ok {
				return c.State
			}
			return nil
		}
		st, ok := geo.StateByFIPS(f)
		if !ok {
			if missing == nil {
				missing = errs.Data("hhs_hospital: unknown state fips %q", f)
			}
			return nil
		}
		return st.Abbr
	})
	if missing != nil {
		return nil, missing
	}
	wide = wide.WithColumn(level, func(r table.Row) interface{} {
		if geo.IsCountyFIPS(r.String(fips)) {
			return LevelCounty
		}
		return LevelState
	})
	wide = stampLocation(wide, "")
	return filterEarlyHospitalData(wide), nil
}

// filterEarlyHospitalData drops rows before the default start date and,
// for state level rows of states with a custom start, before that date.
func filterEarlyHospitalData(t *table.Table) *table.Table {
	fips, date := fields.FIPS.String(), fields.Date.String()
	return t.Filter(func(r table.Row) bool {
		d, ok := r.Get(date).(time.Time)
		if !ok || d.Before(hhsHospitalDefaultStart) {
			return false
		}
		start, ok := hhsHospitalStartDates[r.String(fips)]
		return !ok || !d.Before(start)
	})
}
