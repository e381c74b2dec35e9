// Package sqlexport writes reconciled tables into a SQL database, one table
// per source, keyed by the source's index fields.
package sqlexport

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/segmentio/errors-go"
	"github.com/segmentio/events/v2"
	"github.com/segmentio/stats/v4"

	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/globalstats"
	"github.com/covidactnow/datapublic/pkg/schema"
	"github.com/covidactnow/datapublic/pkg/table"
)

// maxPlaceholders keeps multi-row statements under the sqlite variable limit.
const maxPlaceholders = 30000

type Options struct {
	// DriverName is DriverSQLite or DriverMySQL.
	DriverName string
	TableName  string
	// Index columns become the primary key.
	Index  []fields.CommonField
	Logger *events.Logger
	// BatchSize is the number of rows per insert statement. Defaults to as
	// many as fit in one statement.
	BatchSize int
}

func (o Options) logger() *events.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return events.DefaultLogger
}

// BuildMetaTable describes t as a SQL table. Column types are inferred from
// the values and columns keep the order of t.
func BuildMetaTable(driverName, tableName string, t *table.Table, index []fields.CommonField) (*MetaTable, error) {
	tblName, err := schema.NewTableName(tableName)
	if err != nil {
		return nil, errors.Wrapf(err, "table name %q", tableName)
	}
	meta := &MetaTable{DriverName: driverName, TableName: tblName}
	types := make(map[string]schema.FieldType, len(t.Columns()))
	for _, c := range t.Columns() {
		fn, err := schema.NewFieldName(c)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", c)
		}
		values, err := t.Column(c)
		if err != nil {
			return nil, err
		}
		ft := schema.InferFieldType(values)
		types[c] = ft
		meta.Fields = append(meta.Fields, schema.Column{Name: fn, FieldType: ft})
	}
	if len(index) > 0 {
		keyTypes := make([]schema.FieldType, len(index))
		for i, f := range index {
			ft, ok := types[f.String()]
			if !ok {
				return nil, errors.Errorf("index column %s is not in the table", f)
			}
			keyTypes[i] = ft
		}
		meta.KeyFields, err = schema.NewPKFromCommonFields(index, keyTypes)
		if err != nil {
			return nil, err
		}
	}
	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return meta, nil
}

// Export replaces the contents of opts.TableName with t inside one
// transaction and returns the number of rows written.
func Export(ctx context.Context, db *sql.DB, t *table.Table, opts Options) (int, error) {
	meta, err := BuildMetaTable(opts.DriverName, opts.TableName, t, opts.Index)
	if err != nil {
		return 0, err
	}
	ddl, err := meta.AsCreateTableDDL()
	if err != nil {
		return 0, err
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = maxPlaceholders / len(meta.Fields)
		if batch == 0 {
			batch = 1
		}
	}

	start := time.Now()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, meta.DropTableDDL()); err != nil {
		return 0, errors.Wrapf(err, "drop table %s", meta.TableName)
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return 0, errors.Wrapf(err, "create table %s", meta.TableName)
	}

	cols := t.Columns()
	for lo := 0; lo < t.Len(); lo += batch {
		hi := lo + batch
		if hi > t.Len() {
			hi = t.Len()
		}
		args := make([]interface{}, 0, (hi-lo)*len(cols))
		for i := lo; i < hi; i++ {
			for _, key := range meta.KeyFields.Strings() {
				if t.Get(i, key) == nil {
					return 0, errors.Errorf("row %d has no %s", i, key)
				}
			}
			for _, c := range cols {
				args = append(args, sqlValue(t.Get(i, c)))
			}
		}
		if _, err := tx.ExecContext(ctx, meta.ReplaceDML(hi-lo), args...); err != nil {
			return 0, errors.Wrapf(err, "insert rows %d-%d", lo, hi)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit tx")
	}

	globalstats.Observe("sqlexport.rows", t.Len(), stats.T("table", meta.TableName.Name))
	globalstats.Observe("sqlexport.time", time.Since(start), stats.T("table", meta.TableName.Name))
	opts.logger().Log("Exported %{rows}d rows to %{table}s", t.Len(), meta.TableName.Name)
	return t.Len(), nil
}

func sqlValue(v interface{}) interface{} {
	switch x := v.(type) {
	case time.Time:
		return x.Format(table.DateLayout)
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
		return x
	default:
		return v
	}
}
