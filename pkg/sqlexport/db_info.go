package sqlexport

import (
	"context"
	"database/sql"

	"github.com/segmentio/errors-go"

	"github.com/covidactnow/datapublic/pkg/schema"
)

// Tables lists the tables of the database db is connected to.
func Tables(ctx context.Context, db *sql.DB, driverName string) ([]string, error) {
	var qs string
	switch driverName {
	case DriverSQLite:
		qs = "select distinct name from sqlite_master where type='table' order by name"
	case DriverMySQL:
		qs = "select distinct table_name from information_schema.tables where table_schema = DATABASE() order by table_name"
	default:
		return nil, errors.Errorf("unsupported driver %q", driverName)
	}
	rows, err := db.QueryContext(ctx, qs)
	if err != nil {
		return nil, errors.Wrap(err, "query table names")
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan table name")
		}
		res = append(res, name)
	}
	return res, rows.Err()
}

// Columns returns the columns of the named tables ordered by table and
// position.
func Columns(ctx context.Context, db *sql.DB, driverName string, tableNames ...string) ([]schema.DBColumnInfo, error) {
	if len(tableNames) == 0 {
		return nil, nil
	}
	switch driverName {
	case DriverSQLite:
		return sqliteColumns(ctx, db, tableNames)
	case DriverMySQL:
		return mysqlColumns(ctx, db, tableNames)
	}
	return nil, errors.Errorf("unsupported driver %q", driverName)
}

func sqliteColumns(ctx context.Context, db *sql.DB, tableNames []string) ([]schema.DBColumnInfo, error) {
	var infos []schema.DBColumnInfo
	for _, tableName := range tableNames {
		err := func() error {
			rows, err := db.QueryContext(ctx, "SELECT cid, name, type, pk FROM pragma_table_info(?) ORDER BY cid ASC", tableName)
			if err != nil {
				return errors.Wrapf(err, "table info %s", tableName)
			}
			defer rows.Close()

			for rows.Next() {
				var (
					colID    int
					colName  string
					dataType string
					pk       int
				)
				if err := rows.Scan(&colID, &colName, &dataType, &pk); err != nil {
					return err
				}
				infos = append(infos, schema.DBColumnInfo{
					TableName:    tableName,
					Index:        colID,
					ColumnName:   colName,
					DataType:     dataType,
					IsPrimaryKey: pk > 0,
				})
			}
			return rows.Err()
		}()
		if err != nil {
			return nil, err
		}
	}
	return infos, nil
}

func mysqlColumns(ctx context.Context, db *sql.DB, tableNames []string) ([]schema.DBColumnInfo, error) {
	qs := SqlSprintf(
		"SELECT table_name, ordinal_position, column_name, data_type, column_key "+
			"FROM information_schema.columns "+
			"WHERE table_name IN ($1) "+
			"AND table_schema = DATABASE() "+
			"ORDER BY table_name, ordinal_position ASC",
		SQLPlaceholderSet(len(tableNames)))

	args := make([]interface{}, len(tableNames))
	for i, name := range tableNames {
		args[i] = name
	}
	rows, err := db.QueryContext(ctx, qs, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query column info")
	}
	defer rows.Close()

	var infos []schema.DBColumnInfo
	for rows.Next() {
		var (
			info   schema.DBColumnInfo
			colKey string
		)
		if err := rows.Scan(&info.TableName, &info.Index, &info.ColumnName, &info.DataType, &colKey); err != nil {
			return nil, err
		}
		info.IsPrimaryKey = colKey == "PRI"
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
