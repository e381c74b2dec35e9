// Package ccd queries the long format scraper dataset, one row per
// (provider, variable, measurement, unit, age, race, sex, location, date)
// and one value, and pivots selected variables into wide tables.
package ccd

import (
	"dario.cat/mergo"
	errors "github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

// Column names of the scraper dataset.
const (
	ColProvider     = "provider"
	ColDate         = "dt"
	ColLocationType = "location_type"
	ColLocation     = "location"
	ColVariableName = "variable_name"
	ColMeasurement  = "measurement"
	ColUnit         = "unit"
	ColAge          = "age"
	ColRace         = "race"
	ColSex          = "sex"
	ColValue        = "value"
)

// All is the demographic bucket covering everyone.
const All = "all"

// Fields maps the scraper dataset onto canonical fields. Only the index
// columns have one; location is transformed to a FIPS code on load.
var Fields = schema.MustMapping("ccd",
	schema.SourceField{Native: ColProvider},
	schema.SourceField{Native: ColDate, Canonical: fields.Date},
	schema.SourceField{Native: ColLocationType, Canonical: fields.AggregateLevel},
	schema.SourceField{Native: ColLocation, Canonical: fields.FIPS},
	schema.SourceField{Native: ColVariableName},
	schema.SourceField{Native: ColMeasurement},
	schema.SourceField{Native: ColUnit},
	schema.SourceField{Native: ColAge},
	schema.SourceField{Native: ColRace},
	schema.SourceField{Native: ColSex},
	schema.SourceField{Native: ColValue},
)

// pivotIndex are the columns identifying one wide row.
var pivotIndex = []string{ColLocation, ColDate, ColLocationType}

// Variable selects one scraped variable.
type Variable struct {
	VariableName string
	Provider     string
	// Empty Measurement or Unit matches any.
	Measurement string
	Unit        string
	// Age, Race and Sex default to All.
	Age  string
	Race string
	Sex  string
	// When set the pivoted column is named after this field instead of
	// VariableName.
	CommonField fields.CommonField
}

var variableDefaults = Variable{Age: All, Race: All, Sex: All}

// WithDefaults returns v with empty demographic dimensions set to All.
func (v Variable) WithDefaults() Variable {
	out := v
	// mergo only fills zero fields of out so explicit values win
	if err := mergo.Merge(&out, variableDefaults); err != nil {
		panic(err)
	}
	return out
}

// Label is the name of the column the variable becomes when pivoted.
func (v Variable) Label() string {
	if v.CommonField != fields.None {
		return v.CommonField.String()
	}
	return v.VariableName
}

func (v Variable) matches(r table.Row) bool {
	return r.String(ColProvider) == v.Provider &&
		r.String(ColVariableName) == v.VariableName &&
		(v.Measurement == "" || r.String(ColMeasurement) == v.Measurement) &&
		r.String(ColAge) == v.Age &&
		r.String(ColRace) == v.Race &&
		r.String(ColSex) == v.Sex &&
		(v.Unit == "" || r.String(ColUnit) == v.Unit)
}

// Dataset wraps a long format table.
type Dataset struct {
	Table *table.Table
	// Logger defaults to events.DefaultLogger.
	Logger *events.Logger
	// Log a warning for every variable that selects no rows.
	WarnOnMissingCoverage bool
}

func (d *Dataset) logger() *events.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return events.DefaultLogger
}

// SelectVariable returns the rows of one provider's variable for the whole
// population (age, race and sex all equal to All). An empty measurement or
// unit matches any. Rows are returned unchanged.
func (d *Dataset) SelectVariable(variableName, measurement, provider, unit string) *table.Table {
	v := Variable{
		VariableName: variableName,
		Measurement:  measurement,
		Provider:     provider,
		Unit:         unit,
	}.WithDefaults()
	return d.Table.Filter(v.matches)
}

// SelectAndPivot selects every variable, names its rows by Label and pivots
// them into a wide table with columns fips, date, aggregate_level followed
// by one column per label.
//
// Two values for one (location, date, location type, label) cell fail with
// a *errs.PivotConflictError. Nothing picks a winner.
func (d *Dataset) SelectAndPivot(vars []Variable) (*table.Table, error) {
	if len(vars) == 0 {
		return nil, errors.New("no variables to select")
	}
	selected := make([]*table.Table, 0, len(vars))
	for _, v := range vars {
		v = v.WithDefaults()
		rows := d.Table.Filter(v.matches)
		if rows.Len() == 0 && d.WarnOnMissingCoverage {
			d.logMissing(v)
		}
		label := v.Label()
		selected = append(selected, rows.SetConstant(ColVariableName, label))
	}

	wide, err := table.Concat(selected...).Pivot(pivotIndex, ColVariableName, ColValue)
	if err != nil {
		return nil, err
	}
	return wide.Rename(map[string]string{
		ColLocation:     fields.FIPS.String(),
		ColDate:         fields.Date.String(),
		ColLocationType: fields.AggregateLevel.String(),
	})
}

// LogMissingCoverage logs every variable in vars that selects no rows and
// returns those variables. Nothing is pivoted.
func (d *Dataset) LogMissingCoverage(vars []Variable) []Variable {
	var missing []Variable
	for _, v := range vars {
		v = v.WithDefaults()
		if d.Table.Filter(v.matches).Len() == 0 {
			d.logMissing(v)
			missing = append(missing, v)
		}
	}
	return missing
}

func (d *Dataset) logMissing(v Variable) {
	d.logger().Log("No rows found for variable %{variable}s measurement %{measurement}s provider %{provider}s unit %{unit}s",
		v.VariableName, v.Measurement, v.Provider, v.Unit)
}
