package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/reconcile"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

// CMSArchiveIndexURL lists the weekly CMS county positivity datasets.
const CMSArchiveIndexURL = "https://data.cms.gov/stories/s/q5r5-gjyu"

var CMSTestingFields = schema.MustMapping("cms_testing",
	schema.SourceField{Native: "County", Canonical: fields.County},
	schema.SourceField{Native: "FIPS Code", Canonical: fields.FIPS},
	schema.SourceField{Native: "State", Canonical: fields.State},
	schema.SourceField{Native: "FEMA Region"},
	schema.SourceField{Native: "Population"},
	schema.SourceField{Native: "NCHS Urban Rural Classification"},
	schema.SourceField{Native: "Tests in prior 14 days"},
	schema.SourceField{Native: "14-day test rate per 100,000 population"},
	schema.SourceField{Native: "Percent Positivity in prior 14 days", Canonical: fields.TestPositivity14D},
	schema.SourceField{Native: "Test Positivity Classification - 14 days"},
)

// Older datasets used other spellings. Only the oldest one reported 7 day
// positivity, which is filed under the 14 day field.
var cmsHistoricalColumns = map[string]string{
	"FIPS":                             "FIPS Code",
	"FIPS code":                        "FIPS Code",
	"14-day test rate":                 "Tests in prior 14 days",
	"14-day test rate per 100,000":     "14-day test rate per 100,000 population",
	"Percent Positive in prior 7 days": "Percent Positivity in prior 14 days",
	"FEMA region":                      "FEMA Region",
	"Test Positivity Classification":   "Test Positivity Classification - 14 days",
}

const cmsArchiveInput = "archive"

type cmsTesting struct{}

func init() {
	Register(cmsTesting{})
}

func (cmsTesting) Name() string { return "cms_testing" }

// Inputs is a directory of weekly datasets exported to CSV and named by the
// week ending date, 2020-10-07.csv for example.
func (cmsTesting) Inputs() []InputSpec {
	return []InputSpec{{
		Name: cmsArchiveInput,
		URL:  CMSArchiveIndexURL,
		Dir:  true,
		Read: table.ReadOptions{StringColumns: []string{"County", "State", "FEMA Region", "FEMA region"}},
	}}
}

func (cmsTesting) Mappings() []*schema.Mapping {
	return []*schema.Mapping{CMSTestingFields}
}

func (cmsTesting) IndexFields() []fields.CommonField {
	return timeseriesIndex
}

func (s cmsTesting) Transform(ctx context.Context, in Input) (*table.Table, error) {
	var names []string
	for name := range in.Tables {
		if strings.HasPrefix(name, cmsArchiveInput+"/") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, errs.Configuration(s.Name(), "input %q has no datasets", cmsArchiveInput)
	}
	sort.Strings(names)

	weeks := make([]*table.Table, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stamp := strings.TrimPrefix(name, cmsArchiveInput+"/")
		date, err := table.ParseDate(table.DateLayout, stamp)
		if err != nil {
			return nil, errs.Configuration(s.Name(), "dataset %q is not named by date", name)
		}
		in.logger().Log("Parsing dataset %{file}s", name)
		week, err := s.transformWeek(in, in.Tables[name])
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, week.SetConstant(fields.Date.String(), date))
	}
	return table.Concat(weeks...), nil
}

func (cmsTesting) transformWeek(in Input, t *table.Table) (*table.Table, error) {
	renames := map[string]string{}
	for old, current := range cmsHistoricalColumns {
		if t.HasColumn(old) && !t.HasColumn(current) {
			renames[old] = current
		}
	}
	t, err := t.Rename(renames)
	if err != nil {
		return nil, err
	}

	if t.HasColumn("FIPS Code") {
		t = t.WithColumn("FIPS Code", func(r table.Row) interface{} {
			return countyFIPS(r.Get("FIPS Code"))
		})
	}
	positivity := "Percent Positivity in prior 14 days"
	if t.HasColumn(positivity) {
		// entries like "<10 tests"
		t = t.WithColumn(positivity, func(r table.Row) interface{} {
			if v, ok := r.Get(positivity).(float64); ok {
				return v
			}
			return nil
		})
	}

	// older datasets lack some columns and log them as missing
	t, err = reconcile.Reconcile(t, CMSTestingFields, nil, reconcile.Options{
		Logger:      in.logger(),
		Suggestions: in.Suggestions,
	})
	if err != nil {
		return nil, err
	}
	return stampLocation(t, LevelCounty), nil
}

// countyFIPS zero pads a county FIPS code to five digits.
func countyFIPS(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%05d", int(x))
	case string:
		if x == "" {
			return nil
		}
		if len(x) < 5 {
			return strings.Repeat("0", 5-len(x)) + x
		}
		return x
	}
	return nil
}
