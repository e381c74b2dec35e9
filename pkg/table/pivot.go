package table

import (
	"sort"

	errors "github.com/segmentio/errors-go"

	"github.com/covidactnow/datapublic/pkg/errs"
)

// Pivot turns a long table into a wide one. Each distinct tuple of index
// values becomes one row; each distinct value of column becomes a column
// holding value. Rows are sorted by index, new columns by label.
//
// A second value for an (index, label) cell returns a *errs.PivotConflictError,
// even if both values are equal.
func (t *Table) Pivot(index []string, column, value string) (*Table, error) {
	for _, c := range append(append([]string(nil), index...), column, value) {
		if !t.HasColumn(c) {
			return nil, errors.Errorf("unknown pivot column %q", c)
		}
	}

	type wideRow struct {
		keys  []interface{}
		cells map[string]interface{}
	}
	var (
		rows   []*wideRow
		byKey  = map[string]*wideRow{}
		labels = map[string]bool{}
	)
	for i := range t.rows {
		label := FormatValue(t.Get(i, column))
		if label == "" {
			continue
		}
		key := t.keyOf(i, index)
		wr, ok := byKey[key]
		if !ok {
			wr = &wideRow{keys: make([]interface{}, len(index)), cells: map[string]interface{}{}}
			for j, c := range index {
				wr.keys[j] = t.Get(i, c)
			}
			byKey[key] = wr
			rows = append(rows, wr)
		}
		if _, dup := wr.cells[label]; dup {
			idx := make([]string, len(index))
			for j, k := range wr.keys {
				idx[j] = FormatValue(k)
			}
			return nil, &errs.PivotConflictError{Index: idx, Column: label}
		}
		wr.cells[label] = t.Get(i, value)
		labels[label] = true
	}

	sortedLabels := make([]string, 0, len(labels))
	for l := range labels {
		sortedLabels = append(sortedLabels, l)
	}
	sort.Strings(sortedLabels)

	out, err := New(append(append([]string(nil), index...), sortedLabels...)...)
	if err != nil {
		return nil, errors.Wrap(err, "pivot label collides with an index column")
	}
	for _, wr := range rows {
		row := make([]interface{}, 0, len(index)+len(sortedLabels))
		row = append(row, wr.keys...)
		for _, l := range sortedLabels {
			row = append(row, wr.cells[l])
		}
		out.rows = append(out.rows, row)
	}
	return out.SortBy(index...)
}

// Melt is the inverse of Pivot: every value column becomes rows of
// (id columns..., variableCol, valueCol). Missing values are skipped.
func (t *Table) Melt(ids []string, variableCol, valueCol string) (*Table, error) {
	isID := map[string]bool{}
	for _, c := range ids {
		if !t.HasColumn(c) {
			return nil, errors.Errorf("unknown id column %q", c)
		}
		isID[c] = true
	}
	out, err := New(append(append([]string(nil), ids...), variableCol, valueCol)...)
	if err != nil {
		return nil, err
	}
	for i := range t.rows {
		for _, c := range t.columns {
			if isID[c] {
				continue
			}
			v := t.Get(i, c)
			if IsMissing(v) {
				continue
			}
			row := make([]interface{}, 0, len(ids)+2)
			for _, id := range ids {
				row = append(row, t.Get(i, id))
			}
			out.rows = append(out.rows, append(row, c, v))
		}
	}
	return out, nil
}
