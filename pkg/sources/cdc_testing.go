package sources

import (
	"context"

	"github.com/covidactnow/datapublic/pkg/ccd"
	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

const (
	dcCountyFIPS = "11001"
	dcStateFIPS  = "11"
)

var cdcTestPositivity = ccd.Variable{
	VariableName: "pcr_tests_positive",
	Measurement:  "rolling_average_7_day",
	Provider:     "cdc",
	Unit:         "percentage",
	CommonField:  fields.TestPositivity7D,
}

type cdcTesting struct{}

func init() {
	Register(cdcTesting{})
}

func (cdcTesting) Name() string { return "cdc_testing" }

func (cdcTesting) Inputs() []InputSpec {
	return []InputSpec{scraperInput}
}

func (cdcTesting) Mappings() []*schema.Mapping {
	return []*schema.Mapping{ccd.Fields}
}

func (cdcTesting) IndexFields() []fields.CommonField {
	return timeseriesIndex
}

func (s cdcTesting) Transform(ctx context.Context, in Input) (*table.Table, error) {
	ds, err := scraperDataset(in, s.Name(), false)
	if err != nil {
		return nil, err
	}
	t, err := ds.SelectAndPivot([]ccd.Variable{cdcTestPositivity})
	if err != nil {
		return nil, err
	}

	fips, level := fields.FIPS.String(), fields.AggregateLevel.String()
	positivity := fields.TestPositivity7D.String()
	if !t.HasColumn(positivity) {
		t = t.SetConstant(positivity, nil)
	}
	t = t.WithColumn(positivity, func(r table.Row) interface{} {
		// reported as a percentage
		if v, ok := r.Float(positivity); ok {
			return v / 100
		}
		return nil
	})

	for i := 0; i < t.Len(); i++ {
		if f := t.Row(i).String(fips); len(f) != 5 {
			return nil, errs.Data("cdc_testing: expected county fips only, got %q", f)
		}
	}

	// DC county rows double as DC state rows.
	dc := t.Filter(func(r table.Row) bool { return r.String(fips) == dcCountyFIPS }).
		SetConstant(fips, dcStateFIPS).
		SetConstant(level, LevelState)
	t = table.Concat(t, dc)

	return RemoveTrailingZeros(t, positivity)
}

// RemoveTrailingZeros clears col after the last nonzero value of each FIPS
// ordered by date. A FIPS reporting only zeros is considered inaccurate and
// cleared entirely. Rows come back sorted by FIPS and date.
func RemoveTrailingZeros(t *table.Table, col string) (*table.Table, error) {
	fips, date := fields.FIPS.String(), fields.Date.String()
	sorted, err := t.SortBy(fips, date)
	if err != nil {
		return nil, err
	}
	groups, err := sorted.GroupBy(fips)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return sorted, nil
	}
	for gi, g := range groups {
		last := -1
		for i := 0; i < g.Len(); i++ {
			if v, ok := g.Row(i).Float(col); ok && v != 0 {
				last = i
			}
		}
		g = g.WithColumn(col, func(r table.Row) interface{} {
			if r.Index() > last {
				return nil
			}
			return r.Get(col)
		})
		groups[gi] = g
	}
	return table.Concat(groups...), nil
}
