package table

import (
	"sort"

	errors "github.com/segmentio/errors-go"
)

// Select returns a table with only cols, in that order.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, errors.Errorf("unknown column %q", c)
		}
		idx[i] = j
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = make([][]interface{}, len(t.rows))
	for r, row := range t.rows {
		nr := make([]interface{}, len(idx))
		for i, j := range idx {
			nr[i] = row[j]
		}
		out.rows[r] = nr
	}
	return out, nil
}

// Drop returns a table without cols. Unknown names are ignored.
func (t *Table) Drop(cols ...string) *Table {
	drop := make(map[string]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	var keep []string
	for _, c := range t.columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

// Rename returns a table with columns renamed by old -> new. Columns not in
// renames keep their name. Two columns ending up with one name is an error.
func (t *Table) Rename(renames map[string]string) (*Table, error) {
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		if n, ok := renames[c]; ok {
			cols[i] = n
		} else {
			cols[i] = c
		}
	}
	out, err := New(cols...)
	if err != nil {
		return nil, errors.Wrap(err, "rename")
	}
	out.rows = t.Clone().rows
	return out, nil
}

// Filter returns the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := MustNew(t.columns...)
	for i, row := range t.rows {
		if keep(t.Row(i)) {
			out.rows = append(out.rows, append([]interface{}(nil), row...))
		}
	}
	return out
}

// WithColumn returns a table where col holds fn of each row. col is
// appended when it does not exist yet.
func (t *Table) WithColumn(col string, fn func(Row) interface{}) *Table {
	out := t.Clone()
	j, ok := out.index[col]
	if !ok {
		j = len(out.columns)
		out.columns = append(out.columns, col)
		out.index[col] = j
		for i := range out.rows {
			out.rows[i] = append(out.rows[i], nil)
		}
	}
	for i := range out.rows {
		out.rows[i][j] = fn(t.Row(i))
	}
	return out
}

// SetConstant returns a table where every row of col is v.
func (t *Table) SetConstant(col string, v interface{}) *Table {
	return t.WithColumn(col, func(Row) interface{} { return v })
}

// Concat stacks tables. The result has the union of their columns in first
// seen order; cells of columns a table lacks are nil.
func Concat(tables ...*Table) *Table {
	var cols []string
	seen := map[string]bool{}
	for _, t := range tables {
		for _, c := range t.columns {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	out := MustNew(cols...)
	for _, t := range tables {
		for i := range t.rows {
			row := make([]interface{}, len(cols))
			for j, c := range cols {
				row[j] = t.Get(i, c)
			}
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// SortBy returns a table with rows stably sorted by cols, ascending.
func (t *Table) SortBy(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index[c]
		if !ok {
			return nil, errors.Errorf("unknown sort column %q", c)
		}
		idx[i] = j
	}
	out := t.Clone()
	sort.SliceStable(out.rows, func(a, b int) bool {
		for _, j := range idx {
			if c := CompareValues(out.rows[a][j], out.rows[b][j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out, nil
}

// GroupBy splits rows by the formatted values of cols. Groups are returned
// in order of first appearance.
func (t *Table) GroupBy(cols ...string) ([]*Table, error) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return nil, errors.Errorf("unknown group column %q", c)
		}
	}
	var (
		groups []*Table
		byKey  = map[string]int{}
	)
	for i, row := range t.rows {
		key := t.keyOf(i, cols)
		g, ok := byKey[key]
		if !ok {
			g = len(groups)
			byKey[key] = g
			groups = append(groups, MustNew(t.columns...))
		}
		groups[g].rows = append(groups[g].rows, append([]interface{}(nil), row...))
	}
	return groups, nil
}

// Reorder returns a table with the same columns in the given order. cols
// must name every column exactly once.
func (t *Table) Reorder(cols []string) (*Table, error) {
	if len(cols) != len(t.columns) {
		return nil, errors.Errorf("reorder needs %d columns, got %d", len(t.columns), len(cols))
	}
	return t.Select(cols...)
}

func (t *Table) keyOf(i int, cols []string) string {
	key := make([]byte, 0, 32)
	for _, c := range cols {
		key = append(key, FormatValue(t.Get(i, c))...)
		key = append(key, 0)
	}
	return string(key)
}

// Coalesce merges tables on the key columns. Rows with equal keys collapse
// into one whose cells take the first non-missing value, earlier tables
// winning. Rows keep the order in which their key was first seen.
func Coalesce(keys []string, tables ...*Table) (*Table, error) {
	for _, t := range tables {
		for _, k := range keys {
			if !t.HasColumn(k) {
				return nil, errors.Errorf("coalesce key %q missing from table", k)
			}
		}
	}
	stacked := Concat(tables...)
	out := MustNew(stacked.columns...)
	byKey := map[string]int{}
	for i, row := range stacked.rows {
		key := stacked.keyOf(i, keys)
		at, ok := byKey[key]
		if !ok {
			byKey[key] = len(out.rows)
			out.rows = append(out.rows, append([]interface{}(nil), row...))
			continue
		}
		merged := out.rows[at]
		for j, v := range row {
			if IsMissing(merged[j]) && !IsMissing(v) {
				merged[j] = v
			}
		}
	}
	return out, nil
}
