package schema

import (
	errors "github.com/segmentio/errors-go"

	"github.com/covidactnow/datapublic/pkg/fields"
)

var PrimaryKeyZero = PrimaryKey{}

// PrimaryKey is the key of an exported table, normally the timeseries index.
type PrimaryKey struct {
	Fields []FieldName
	Types  []FieldType
}

// Is this a zero value?
func (pk *PrimaryKey) Zero() bool {
	return len(pk.Fields) == 0
}

// Returns the list of fields as strings
func (pk *PrimaryKey) Strings() []string {
	out := make([]string, len(pk.Fields))
	for i, fn := range pk.Fields {
		out[i] = fn.Name
	}
	return out
}

// NewPKFromCommonFields builds a key over canonical index fields. Every key
// column must have a type that can be used in a key.
func NewPKFromCommonFields(index []fields.CommonField, types []FieldType) (PrimaryKey, error) {
	if len(index) != len(types) {
		return PrimaryKeyZero, errors.Errorf("%d key fields but %d types", len(index), len(types))
	}
	fns := make([]FieldName, len(index))
	for i, f := range index {
		fn, err := NewFieldName(f.String())
		if err != nil {
			return PrimaryKeyZero, errors.Wrapf(err, "key field %d", i)
		}
		if !types[i].CanBeKey() {
			return PrimaryKeyZero, errors.Errorf("field %s of type %s cannot be a key", fn, types[i])
		}
		fns[i] = fn
	}
	return PrimaryKey{Fields: fns, Types: types}, nil
}
