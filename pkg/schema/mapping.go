package schema

import (
	"sort"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
)

// SourceField pairs a column name as an upstream source emits it with the
// canonical field it becomes. A Canonical of fields.None means the column is
// recognized but dropped.
type SourceField struct {
	Native    string
	Canonical fields.CommonField
}

func (sf SourceField) String() string {
	if sf.Canonical == fields.None {
		return sf.Native + " -> (dropped)"
	}
	return sf.Native + " -> " + sf.Canonical.String()
}

// Mapping is the closed set of native columns of one source. It is
// immutable once built.
type Mapping struct {
	source   string
	entries  []SourceField
	byNative map[string]int
}

// NewMapping builds a Mapping. Native names are the discriminant of the
// mapping so a repeated native name is a configuration error.
func NewMapping(source string, entries ...SourceField) (*Mapping, error) {
	m := &Mapping{
		source:   source,
		entries:  make([]SourceField, len(entries)),
		byNative: make(map[string]int, len(entries)),
	}
	copy(m.entries, entries)
	for i, e := range m.entries {
		if e.Native == "" {
			return nil, errs.Configuration(source, "entry %d has an empty native name", i)
		}
		if e.Canonical != fields.None && !e.Canonical.Valid() {
			return nil, errs.Configuration(source, "native %q maps to unknown canonical field %d", e.Native, e.Canonical)
		}
		if _, ok := m.byNative[e.Native]; ok {
			return nil, errs.Configuration(source, "native name %q declared more than once", e.Native)
		}
		m.byNative[e.Native] = i
	}
	return m, nil
}

// MustMapping is NewMapping plus Validate, panicking on error. It is meant
// for package level source definitions so a bad mapping stops the process
// before any data flows.
func MustMapping(source string, entries ...SourceField) *Mapping {
	m, err := NewMapping(source, entries...)
	if err != nil {
		panic(err)
	}
	if err := m.Validate(); err != nil {
		panic(err)
	}
	return m
}

// Validate checks that no two native names resolve to the same canonical
// field.
func (m *Mapping) Validate() error {
	seen := make(map[fields.CommonField]string, len(m.entries))
	for _, e := range m.entries {
		if e.Canonical == fields.None {
			continue
		}
		if prev, ok := seen[e.Canonical]; ok {
			return errs.Configuration(m.source, "field %q misconfigured: %q already maps to %s",
				e.Native, prev, e.Canonical)
		}
		seen[e.Canonical] = e.Native
	}
	return nil
}

func (m *Mapping) Source() string {
	return m.source
}

func (m *Mapping) Len() int {
	return len(m.entries)
}

// Get returns the entry for a native column name.
func (m *Mapping) Get(native string) (SourceField, bool) {
	i, ok := m.byNative[native]
	if !ok {
		return SourceField{}, false
	}
	return m.entries[i], true
}

// Has reports whether native is declared, with or without a canonical field.
func (m *Mapping) Has(native string) bool {
	_, ok := m.byNative[native]
	return ok
}

// Fields returns a copy of the entries in declaration order.
func (m *Mapping) Fields() []SourceField {
	out := make([]SourceField, len(m.entries))
	copy(out, m.entries)
	return out
}

// NativeNames returns every declared native name in declaration order.
func (m *Mapping) NativeNames() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Native
	}
	return out
}

// MappedNativeNames returns the native names that have a canonical field.
func (m *Mapping) MappedNativeNames() []string {
	var out []string
	for _, e := range m.entries {
		if e.Canonical != fields.None {
			out = append(out, e.Native)
		}
	}
	return out
}

// CanonicalByNative returns native name -> canonical wire value for entries
// with a canonical field.
func (m *Mapping) CanonicalByNative() map[string]string {
	out := make(map[string]string, len(m.entries))
	for _, e := range m.entries {
		if e.Canonical != fields.None {
			out[e.Native] = e.Canonical.String()
		}
	}
	return out
}

// CanonicalFields returns the distinct canonical fields of the mapping in
// registry order.
func (m *Mapping) CanonicalFields() []fields.CommonField {
	seen := map[fields.CommonField]bool{}
	var out []fields.CommonField
	for _, e := range m.entries {
		if e.Canonical != fields.None && !seen[e.Canonical] {
			seen[e.Canonical] = true
			out = append(out, e.Canonical)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
