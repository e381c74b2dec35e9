package ccd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	errors "github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"

	"github.com/covidactnow/datapublic/pkg/table"
)

// FIPSFromInt formats a numeric location as a FIPS code: two digits for
// states (below 100), five digits for counties. Numeric strings are padded
// the same way and other strings are returned unchanged. Negative or
// fractional numbers return nil, as does any other type.
func FIPSFromInt(v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		n, err := strconv.Atoi(s)
		if err != nil {
			return x
		}
		return FIPSFromInt(n)
	case int:
		if x < 0 {
			return nil
		}
		if x < 100 {
			return fmt.Sprintf("%02d", x)
		}
		return fmt.Sprintf("%05d", x)
	case int64:
		return FIPSFromInt(int(x))
	case float64:
		if math.IsNaN(x) || x != math.Trunc(x) {
			return nil
		}
		return FIPSFromInt(int(x))
	default:
		return nil
	}
}

// ReadOptions reads the CSV export of the scraper dataset.
var ReadOptions = table.ReadOptions{
	StringColumns: []string{
		ColProvider, ColLocationType, ColVariableName, ColMeasurement,
		ColUnit, ColAge, ColRace, ColSex,
	},
	DateColumns: map[string]string{ColDate: table.DateLayout},
}

// ReadDataset reads the CSV export of the scraper dataset.
func ReadDataset(r io.Reader, logger *events.Logger) (*Dataset, error) {
	t, err := table.ReadCSV(r, ReadOptions)
	if err != nil {
		return nil, errors.Wrap(err, "read scraper dataset")
	}
	return NewDataset(t, logger)
}

// NewDataset checks that t has the scraper columns, fills in the optional
// ones and normalizes locations to FIPS codes.
func NewDataset(t *table.Table, logger *events.Logger) (*Dataset, error) {
	for _, c := range []string{ColProvider, ColDate, ColLocation, ColVariableName, ColMeasurement, ColValue} {
		if !t.HasColumn(c) {
			return nil, errors.Errorf("scraper dataset has no %s column", c)
		}
	}
	for _, c := range []string{ColAge, ColRace, ColSex, ColUnit, ColLocationType} {
		if !t.HasColumn(c) {
			// older exports only carried whole population rows
			def := interface{}(All)
			if c == ColUnit || c == ColLocationType {
				def = nil
			}
			t = t.SetConstant(c, def)
		}
	}
	t = t.WithColumn(ColLocation, func(r table.Row) interface{} {
		return FIPSFromInt(r.Get(ColLocation))
	})
	return &Dataset{Table: t, Logger: logger}, nil
}

// LoadDataset reads the scraper dataset from a CSV file.
func LoadDataset(path string, logger *events.Logger) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ReadDataset(f, logger)
}
