package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MinFieldNameLength = 1
	// MySQL column identifier limit
	MaxFieldNameLength = 64

	MinTableNameLength = 3
	MaxTableNameLength = 50
)

var identifierChars = regexp.MustCompile("^$|^[a-z][a-z0-9_]*$")

var (
	ErrFieldNameInvalid  = errors.New("Field names must be only letters, numbers, and underscore")
	ErrFieldNameTooLong  = fmt.Errorf("Field names can only be up to %d characters", MaxFieldNameLength)
	ErrFieldNameTooShort = fmt.Errorf("Field names must be at least %d characters", MinFieldNameLength)

	ErrTableNameInvalid  = errors.New("Table names must be only letters, numbers, and single underscore")
	ErrTableNameTooLong  = fmt.Errorf("Table names can only be up to %d characters", MaxTableNameLength)
	ErrTableNameTooShort = fmt.Errorf("Table names must be at least %d characters", MinTableNameLength)
)

type identifierRule struct {
	min              int
	max              int
	singleUnderscore bool
	errInvalid       error
	errLong          error
	errShort         error
}

var (
	fieldNameRule = identifierRule{
		min: MinFieldNameLength, max: MaxFieldNameLength,
		errInvalid: ErrFieldNameInvalid, errLong: ErrFieldNameTooLong, errShort: ErrFieldNameTooShort,
	}
	tableNameRule = identifierRule{
		min: MinTableNameLength, max: MaxTableNameLength, singleUnderscore: true,
		errInvalid: ErrTableNameInvalid, errLong: ErrTableNameTooLong, errShort: ErrTableNameTooShort,
	}
)

func (r identifierRule) normalize(name string) (string, error) {
	lowered := strings.ToLower(name)
	if r.singleUnderscore && strings.Contains(lowered, "__") {
		return "", r.errInvalid
	}
	if !identifierChars.MatchString(lowered) {
		return "", r.errInvalid
	}
	if len(lowered) > r.max {
		return "", r.errLong
	}
	if len(lowered) < r.min {
		return "", r.errShort
	}
	return lowered, nil
}

// FieldName is a column name that is safe to use as a canonical name and as
// a SQL identifier.
type FieldName struct {
	Name string
}

func (f FieldName) String() string {
	return f.Name
}

func NewFieldName(name string) (FieldName, error) {
	normalized, err := fieldNameRule.normalize(name)
	if err != nil {
		return FieldName{}, err
	}
	return FieldName{Name: normalized}, nil
}

func StringifyFieldNames(fns []FieldName) []string {
	out := make([]string, len(fns))
	for i, fn := range fns {
		out[i] = fn.Name
	}
	return out
}

var (
	lowerUpper  = regexp.MustCompile("([a-z0-9])([A-Z])")
	nonWordRuns = regexp.MustCompile("[^a-z0-9]+")
)

// SanitizeFieldName turns an arbitrary upstream column name such as
// "Total Beds" or "positiveIncrease" into a valid FieldName.
func SanitizeFieldName(name string) (FieldName, error) {
	s := lowerUpper.ReplaceAllString(name, "${1}_${2}")
	s = nonWordRuns.ReplaceAllString(strings.ToLower(s), "_")
	s = strings.Trim(s, "_")
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "c_" + s
	}
	if len(s) > MaxFieldNameLength {
		s = s[:MaxFieldNameLength]
	}
	return NewFieldName(s)
}

// TableName names the SQL table a source is exported to.
type TableName struct {
	Name string
}

var TableNameZero = TableName{}

func NewTableName(name string) (TableName, error) {
	normalized, err := tableNameRule.normalize(name)
	if err != nil {
		return TableNameZero, err
	}
	return TableName{normalized}, nil
}

func (tn TableName) String() string {
	return tn.Name
}
