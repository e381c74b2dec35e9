package geo

import (
	"io"

	errors "github.com/segmentio/errors-go"

	"github.com/covidactnow/datapublic/pkg/ccd"
	"github.com/covidactnow/datapublic/pkg/table"
)

type County struct {
	FIPS       string
	State      string
	Name       string
	Population float64
}

// Counties indexes county metadata by five digit FIPS.
type Counties map[string]County

// ReadCounties reads a county metadata CSV with fips, state and county
// columns and an optional population column. FIPS codes are zero padded.
func ReadCounties(r io.Reader) (Counties, error) {
	t, err := table.ReadCSV(r, CountiesReadOptions)
	if err != nil {
		return nil, errors.Wrap(err, "read county metadata")
	}
	return NewCounties(t)
}

// CountiesReadOptions reads the county metadata CSV.
var CountiesReadOptions = table.ReadOptions{StringColumns: []string{"fips", "state", "county"}}

// NewCounties indexes a county metadata table.
func NewCounties(t *table.Table) (Counties, error) {
	for _, c := range []string{"fips", "state", "county"} {
		if !t.HasColumn(c) {
			return nil, errors.Errorf("county metadata has no %s column", c)
		}
	}
	out := make(Counties, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		fips, ok := ccd.FIPSFromInt(row.Get("fips")).(string)
		if !ok || !IsCountyFIPS(fips) {
			continue
		}
		c := County{FIPS: fips, State: row.String("state"), Name: row.String("county")}
		if pop, ok := row.Float("population"); ok {
			c.Population = pop
		}
		out[fips] = c
	}
	return out, nil
}
