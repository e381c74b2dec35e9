package sqlexport

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/segmentio/errors-go"

	"github.com/covidactnow/datapublic/pkg/schema"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var fieldTypeToSQLMap = map[schema.FieldType]map[string]string{
	schema.FTString: {
		DriverMySQL:  "VARCHAR(191)",
		DriverSQLite: "VARCHAR(191)",
	},
	schema.FTInteger: {
		DriverMySQL:  "BIGINT",
		DriverSQLite: "INTEGER",
	},
	schema.FTDecimal: {
		DriverMySQL:  "DOUBLE",
		DriverSQLite: "REAL",
	},
	schema.FTText: {
		DriverMySQL:  "MEDIUMTEXT",
		DriverSQLite: "TEXT",
	},
	schema.FTDate: {
		DriverMySQL:  "DATE",
		DriverSQLite: "TEXT",
	},
}

// MetaTable describes the SQL table a reconciled table is exported to.
type MetaTable struct {
	DriverName string
	TableName  schema.TableName
	Fields     []schema.Column
	KeyFields  schema.PrimaryKey
}

func (t *MetaTable) quote(ident string) string {
	if t.DriverName == DriverMySQL {
		return "`" + ident + "`"
	}
	return dblquote(ident)
}

func (t *MetaTable) quoteAll(idents []string) []string {
	out := make([]string, len(idents))
	for i, s := range idents {
		out[i] = t.quote(s)
	}
	return out
}

func (t *MetaTable) AsCreateTableDDL() (string, error) {
	lines := []string{}
	for _, field := range t.Fields {
		sqlType, ok := fieldTypeToSQLMap[field.FieldType][t.DriverName]
		if !ok {
			return "", fmt.Errorf("Invalid driver+type combo %s:%s", field.FieldType, t.DriverName)
		}
		lines = append(lines, SqlSprintf("$1 $2", t.quote(field.Name.Name), sqlType))
	}
	if !t.KeyFields.Zero() {
		pkFields := strings.Join(t.quoteAll(t.KeyFields.Strings()), ",")
		lines = append(lines, SqlSprintf("PRIMARY KEY($1)", pkFields))
	}
	if len(lines) == 0 {
		return "", errors.Errorf("table %s has no columns", t.TableName)
	}
	return SqlSprintf("CREATE TABLE $1 ($2)", t.quote(t.TableName.Name), strings.Join(lines, ", ")), nil
}

func (t *MetaTable) DropTableDDL() string {
	return SqlSprintf("DROP TABLE IF EXISTS $1", t.quote(t.TableName.Name))
}

// ReplaceDML returns a statement inserting rows rows, each with a
// placeholder per field. Rows with an existing key are replaced.
func (t *MetaTable) ReplaceDML(rows int) string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = t.quote(f.Name.Name)
	}
	set := "(" + SQLPlaceholderSet(len(t.Fields)) + ")"
	sets := make([]string, rows)
	for i := range sets {
		sets[i] = set
	}
	return SqlSprintf("REPLACE INTO $1 ($2) VALUES ", t.quote(t.TableName.Name), strings.Join(names, ",")) +
		strings.Join(sets, ",")
}

// Validates the schema locally and returns an error if there's a problem
func (t *MetaTable) Validate() error {
	if _, ok := fieldTypeToSQLMap[schema.FTString][t.DriverName]; !ok {
		return errors.Errorf("unsupported driver %q", t.DriverName)
	}
	for _, pkfn := range t.KeyFields.Fields {
		var matchingField schema.Column
		found := false
		for _, f := range t.Fields {
			if f.Name == pkfn {
				found = true
				matchingField = f
				break
			}
		}
		if !found {
			return fmt.Errorf("Primary key field '%s' not specified as a field", pkfn.Name)
		}
		if !matchingField.FieldType.CanBeKey() {
			typeName := schema.FieldTypeStringsByFieldType[matchingField.FieldType]
			return fmt.Errorf("Fields of type '%s' cannot be a key field", typeName)
		}
	}
	return nil
}

// Generates a placeholder string for N values
func SQLPlaceholderSet(count int) string {
	var buffer bytes.Buffer
	for i := 0; i < count; i++ {
		buffer.WriteString("?")
		if i != count-1 {
			buffer.WriteString(",")
		}
	}
	return buffer.String()
}

var sqlPrintfMatcher = regexp.MustCompile("\\$([0-9]+)")
var sqlPrintfValidValue = regexp.MustCompile("^[a-zA-Z0-9_\\(\\), \\?\"`]*$")

// "Replacement" for fmt.Sprintf when splicing together SQL strings in dangerous
// ways where standard placeholders won't work, such as table and field names
func SqlSprintf(format string, args ...string) string {
	matches := sqlPrintfMatcher.FindAllStringSubmatchIndex(format, -1)
	if len(matches) > len(args) {
		panic("More placeholders than args")
	}

	hunks := []string{}
	lastRightIdx := 0
	for _, match := range matches {
		aleftIdx, arightIdx, nleftIdx, nrightIdx :=
			match[0], match[1], match[2], match[3]
		parsed, err := strconv.ParseInt(format[nleftIdx:nrightIdx], 10, 64)
		if err != nil {
			panic(err)
		}

		whichArg := int(parsed) - 1
		if whichArg >= len(args) {
			panic("Placeholder $" + strconv.Itoa(whichArg+1) + " exceeds argument count")
		}
		if !sqlPrintfValidValue.MatchString(args[whichArg]) {
			panic("Invalid value: " + args[whichArg])
		}

		hunks = append(hunks, format[lastRightIdx:aleftIdx], args[whichArg])
		lastRightIdx = arightIdx
	}

	hunks = append(hunks, format[lastRightIdx:])
	return strings.Join(hunks, "")
}

func dblquote(str string) string {
	return fmt.Sprintf("\"%s\"", str)
}
