package fields

// PdField names columns of long format tables that are not COVID metrics.
type PdField int

const (
	_ PdField = iota
	// Metric name in a long table with one value per row.
	Variable
	// Value column of a long table.
	Value
	Provenance
	// Name of the dataset a row came from when several are merged.
	Dataset
)

var pdFieldStrings = map[PdField]string{
	Variable:   "variable",
	Value:      "value",
	Provenance: "provenance",
	Dataset:    "dataset",
}

func (f PdField) String() string {
	if s, ok := pdFieldStrings[f]; ok {
		return s
	}
	return "unknown"
}

// LookupPdField returns the PdField whose wire value is s.
func LookupPdField(s string) (PdField, bool) {
	for f, v := range pdFieldStrings {
		if v == s {
			return f, true
		}
	}
	return 0, false
}
