package schema

// DBColumnInfo is a column of an exported table as the database reports it.
type DBColumnInfo struct {
	TableName    string
	Index        int
	ColumnName   string
	DataType     string
	IsPrimaryKey bool
}

// FieldType maps the reported SQL type back to a FieldType.
func (c DBColumnInfo) FieldType() (FieldType, bool) {
	return SqlTypeToFieldType(c.DataType)
}
