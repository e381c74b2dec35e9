package sources

import (
	"context"
	"encoding/json"

	errors "github.com/segmentio/errors-go"

	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/reconcile"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

// HHSTestingMetadataURL lists the current HHS state testing CSV.
const HHSTestingMetadataURL = "https://healthdata.gov/api/3/action/package_show?id=c13c00e3-f3d0-4d49-8c43-bf600a6c0a0d&page=0"

// HHSTestingFields covers the wide table produced by pivoting
// overall_outcome. Columns like fema_region disappear in the pivot.
var HHSTestingFields = schema.MustMapping("hhs_testing",
	schema.SourceField{Native: "date", Canonical: fields.Date},
	schema.SourceField{Native: "state_fips", Canonical: fields.FIPS},
	schema.SourceField{Native: "state", Canonical: fields.State},
	// pivoted away
	schema.SourceField{Native: "overall_outcome"},
	schema.SourceField{Native: "total_results_reported"},
	// produced by the pivot
	schema.SourceField{Native: "Positive", Canonical: fields.PositiveTests},
	schema.SourceField{Native: "Negative", Canonical: fields.NegativeTests},
)

// States whose recent HHS numbers are outliers.
var hhsTestingExcludedStates = map[string]bool{"CA": true, "OR": true, "NE": true}

type hhsTesting struct{}

func init() {
	Register(hhsTesting{})
}

func (hhsTesting) Name() string { return "hhs_testing" }

func (hhsTesting) Inputs() []InputSpec {
	return []InputSpec{{
		Name:   "testing",
		URL:    HHSTestingMetadataURL,
		Locate: locateHHSTestingCSV,
		Read: table.ReadOptions{
			StringColumns: []string{"state_fips", "state", "overall_outcome", "state_name", "fema_region"},
			DateColumns:   map[string]string{"date": table.DateLayout},
		},
	}}
}

func (hhsTesting) Mappings() []*schema.Mapping {
	return []*schema.Mapping{HHSTestingFields}
}

func (hhsTesting) IndexFields() []fields.CommonField {
	return timeseriesIndex
}

func (s hhsTesting) Transform(ctx context.Context, in Input) (*table.Table, error) {
	t, err := in.Table(s.Name(), "testing")
	if err != nil {
		return nil, err
	}

	t = t.Filter(func(r table.Row) bool {
		return r.String("overall_outcome") != "Inconclusive"
	})
	wide, err := t.Pivot([]string{"state_fips", "date", "state"}, "overall_outcome", "total_results_reported")
	if err != nil {
		return nil, err
	}

	wide, err = reconcile.Reconcile(wide, HHSTestingFields, nil, reconcile.Options{
		Logger:      in.logger(),
		Suggestions: in.Suggestions,
	})
	if err != nil {
		return nil, err
	}

	state := fields.State.String()
	wide = wide.Filter(func(r table.Row) bool {
		return !hhsTestingExcludedStates[r.String(state)]
	})
	return stampLocation(wide, LevelState), nil
}

type ckanPackage struct {
	Result []struct {
		Resources []struct {
			URL string `json:"url"`
		} `json:"resources"`
	} `json:"result"`
}

// locateHHSTestingCSV returns the URL of the first resource of the first
// package in a CKAN package_show response.
func locateHHSTestingCSV(index []byte) (string, error) {
	var pkg ckanPackage
	if err := json.Unmarshal(index, &pkg); err != nil {
		return "", errors.Wrap(err, "decode hhs testing metadata")
	}
	if len(pkg.Result) == 0 || len(pkg.Result[0].Resources) == 0 || pkg.Result[0].Resources[0].URL == "" {
		return "", errors.New("hhs testing metadata lists no resources")
	}
	return pkg.Result[0].Resources[0].URL, nil
}
