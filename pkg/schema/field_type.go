package schema

import (
	"math"
	"strings"
	"time"
)

// FieldType is the storage type of a column when a table is exported to SQL.
type FieldType int

// CanBeKey returns if the field type can be used in a PK
func (ft FieldType) CanBeKey() bool {
	return ft == FTString || ft == FTInteger || ft == FTDate
}

func (ft FieldType) String() string {
	if s, ok := FieldTypeStringsByFieldType[ft]; ok {
		return s
	}

	return "unknown"
}

const (
	_ FieldType = iota
	FTString
	FTInteger
	FTDecimal
	FTText
	FTDate
)

// Maps FieldTypes to their stringly typed version
var FieldTypeStringsByFieldType = map[FieldType]string{
	FTString:  "string",
	FTInteger: "integer",
	FTDecimal: "decimal",
	FTText:    "text",
	FTDate:    "date",
}

// Used for converting SQL-ized field types to FieldTypes
var _sqlTypesToFieldTypes = map[string]FieldType{
	"varchar":      FTString,
	"varchar(191)": FTString,
	"char":         FTString,
	"character":    FTString,

	"text":       FTText,
	"mediumtext": FTText,
	"longtext":   FTText,

	"integer":  FTInteger,
	"smallint": FTInteger,
	"bigint":   FTInteger,

	"real":   FTDecimal,
	"float":  FTDecimal,
	"double": FTDecimal,

	"date": FTDate,
}

// Convert a known SQL type string to a FieldType
func SqlTypeToFieldType(sqlType string) (FieldType, bool) {
	loweredType := strings.ToLower(sqlType)
	ft, ok := _sqlTypesToFieldTypes[loweredType]
	return ft, ok
}

// InferFieldType picks the narrowest type that holds every non-nil value.
// A column of only nils is a string column.
func InferFieldType(values []interface{}) FieldType {
	ft := FieldType(0)
	for _, v := range values {
		if v == nil {
			continue
		}
		ft = widen(ft, valueFieldType(v))
	}
	if ft == 0 {
		return FTString
	}
	return ft
}

func valueFieldType(v interface{}) FieldType {
	switch x := v.(type) {
	case int, int32, int64:
		return FTInteger
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) && math.Abs(x) < 1<<53 {
			return FTInteger
		}
		return FTDecimal
	case float32:
		return FTDecimal
	case time.Time:
		return FTDate
	case string:
		if len(x) > 191 {
			return FTText
		}
		return FTString
	default:
		return FTString
	}
}

func widen(a, b FieldType) FieldType {
	switch {
	case a == 0:
		return b
	case a == b:
		return a
	case (a == FTInteger && b == FTDecimal) || (a == FTDecimal && b == FTInteger):
		return FTDecimal
	case a == FTText || b == FTText:
		return FTText
	default:
		return FTString
	}
}

// Column is a named, typed column of an exported table.
type Column struct {
	Name      FieldName
	FieldType FieldType
}
