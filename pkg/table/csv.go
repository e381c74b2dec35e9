package table

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	errors "github.com/segmentio/errors-go"

	"github.com/covidactnow/datapublic/pkg/fields"
)

// ReadOptions controls how CSV cells become values.
type ReadOptions struct {
	// Comma is the field delimiter, ',' when zero.
	Comma rune
	// Columns kept as strings even when they look numeric, fips for example.
	StringColumns []string
	// Columns parsed as dates, column -> time layout.
	DateColumns map[string]string
	// Leave every cell as a string.
	NoInference bool
}

// ReadCSV reads a table with a header row. Empty cells are nil. Cells that
// parse as numbers become float64 unless inference is off for the column.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("csv has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t, err := New(header...)
	if err != nil {
		return nil, err
	}

	keepString := make([]bool, len(header))
	dateLayout := make([]string, len(header))
	for _, c := range opts.StringColumns {
		if j, ok := t.index[c]; ok {
			keepString[j] = true
		}
	}
	for c, layout := range opts.DateColumns {
		if j, ok := t.index[c]; ok {
			dateLayout[j] = layout
		}
	}

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv line %d", line+1)
		}
		line++
		row := make([]interface{}, len(header))
		for j, cell := range rec {
			if cell == "" {
				continue
			}
			switch {
			case dateLayout[j] != "":
				d, err := ParseDate(dateLayout[j], cell)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d column %s", line, header[j])
				}
				row[j] = d
			case keepString[j] || opts.NoInference:
				row[j] = cell
			default:
				row[j] = inferValue(cell)
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func inferValue(cell string) interface{} {
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

// WriteOptions controls CSV output.
type WriteOptions struct {
	// Index columns are written first and, with SortRows, used as the sort
	// key. Remaining canonical columns follow in registry order.
	Index    []fields.CommonField
	SortRows bool
}

// WriteCSV writes t with a deterministic column order.
func WriteCSV(w io.Writer, t *Table, opts WriteOptions) error {
	out := t
	if opts.SortRows && len(opts.Index) > 0 {
		var keys []string
		for _, f := range opts.Index {
			if t.HasColumn(f.String()) {
				keys = append(keys, f.String())
			}
		}
		sorted, err := t.SortBy(keys...)
		if err != nil {
			return err
		}
		out = sorted
	}
	out, err := out.Reorder(fields.SortColumns(out.columns, opts.Index...))
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(out.columns); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	rec := make([]string, len(out.columns))
	for _, row := range out.rows {
		for j, v := range row {
			rec[j] = FormatValue(v)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, "flush csv")
	}
	return nil
}
