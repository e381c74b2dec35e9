// Package table is the in-memory table passed between pipeline stages.
//
// A Table has named columns and rows of scalar values. A nil value is the
// missing-value marker. Operations return new tables and never modify their
// receiver unless the method name says so (AddRow, AddRecord, Set).
package table

import (
	errors "github.com/segmentio/errors-go"
)

type Table struct {
	columns []string
	index   map[string]int
	rows    [][]interface{}
}

// New returns an empty table with the given columns. Column names must be
// unique.
func New(columns ...string) (*Table, error) {
	t := &Table{
		columns: make([]string, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(t.columns, columns)
	for i, c := range t.columns {
		if _, ok := t.index[c]; ok {
			return nil, errors.Errorf("duplicate column %q", c)
		}
		t.index[c] = i
	}
	return t, nil
}

// MustNew is New for column lists known to be valid.
func MustNew(columns ...string) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromRecords builds a table with the given columns from records. Keys not
// in columns are an error; columns absent from a record are nil.
func FromRecords(columns []string, records ...map[string]interface{}) (*Table, error) {
	t, err := New(columns...)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if err := t.AddRecord(rec); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Columns returns a copy of the column names in table order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddRow appends a row. values must line up with Columns.
func (t *Table) AddRow(values ...interface{}) error {
	if len(values) != len(t.columns) {
		return errors.Errorf("row has %d values, table has %d columns", len(values), len(t.columns))
	}
	row := make([]interface{}, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// AddRecord appends a row given as column -> value.
func (t *Table) AddRecord(rec map[string]interface{}) error {
	row := make([]interface{}, len(t.columns))
	for k, v := range rec {
		i, ok := t.index[k]
		if !ok {
			return errors.Errorf("unknown column %q", k)
		}
		row[i] = v
	}
	t.rows = append(t.rows, row)
	return nil
}

// Get returns the value at row i of column col, nil if col does not exist.
func (t *Table) Get(i int, col string) interface{} {
	j, ok := t.index[col]
	if !ok {
		return nil
	}
	return t.rows[i][j]
}

// Set overwrites a single cell in place.
func (t *Table) Set(i int, col string, v interface{}) error {
	j, ok := t.index[col]
	if !ok {
		return errors.Errorf("unknown column %q", col)
	}
	t.rows[i][j] = v
	return nil
}

// Row returns a view of row i.
func (t *Table) Row(i int) Row {
	return Row{t: t, i: i}
}

// Column returns a copy of all values of col.
func (t *Table) Column(col string) ([]interface{}, error) {
	j, ok := t.index[col]
	if !ok {
		return nil, errors.Errorf("unknown column %q", col)
	}
	out := make([]interface{}, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Records returns every row as column -> value.
func (t *Table) Records() []map[string]interface{} {
	out := make([]map[string]interface{}, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i).Record()
	}
	return out
}

// Clone returns a deep copy of the table structure. Values are shared.
func (t *Table) Clone() *Table {
	c := MustNew(t.columns...)
	c.rows = make([][]interface{}, len(t.rows))
	for i, row := range t.rows {
		c.rows[i] = append([]interface{}(nil), row...)
	}
	return c
}

// Row is a read view of one table row.
type Row struct {
	t *Table
	i int
}

func (r Row) Index() int {
	return r.i
}

// Get returns the value of col, nil when missing or col does not exist.
func (r Row) Get(col string) interface{} {
	return r.t.Get(r.i, col)
}

// String returns the value of col formatted as it would be written to CSV.
func (r Row) String(col string) string {
	return FormatValue(r.Get(col))
}

// Float returns the numeric value of col.
func (r Row) Float(col string) (float64, bool) {
	return ToFloat(r.Get(col))
}

func (r Row) Record() map[string]interface{} {
	rec := make(map[string]interface{}, len(r.t.columns))
	for j, c := range r.t.columns {
		rec[c] = r.t.rows[r.i][j]
	}
	return rec
}
