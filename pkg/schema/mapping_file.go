package schema

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
)

// MappingFile is the YAML form of a Mapping:
//
//	source: my_source
//	fields:
//	  - native: positiveIncrease
//	  - native: positive
//	    canonical: positive_tests
type MappingFile struct {
	Source string             `yaml:"source"`
	Fields []MappingFileField `yaml:"fields"`
}

type MappingFileField struct {
	Native    string `yaml:"native"`
	Canonical string `yaml:"canonical,omitempty"`
}

// LoadMappingFile reads and validates a YAML mapping file.
func LoadMappingFile(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read mapping file %s", path)
	}
	return ParseMapping(data)
}

// ParseMapping parses YAML into a validated Mapping. Canonical names must be
// registered fields.
func ParseMapping(data []byte) (*Mapping, error) {
	var mf MappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, errors.Wrap(err, "parse mapping YAML")
	}
	if mf.Source == "" {
		return nil, errs.Configuration("", "mapping file has no source")
	}

	entries := make([]SourceField, len(mf.Fields))
	for i, f := range mf.Fields {
		entries[i] = SourceField{Native: f.Native}
		if f.Canonical == "" {
			continue
		}
		cf, ok := fields.Lookup(f.Canonical)
		if !ok {
			return nil, errs.Configuration(mf.Source, "native %q maps to unknown canonical field %q", f.Native, f.Canonical)
		}
		entries[i].Canonical = cf
	}

	m, err := NewMapping(mf.Source, entries...)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// MarshalMapping serializes m in the format ParseMapping reads.
func MarshalMapping(m *Mapping) ([]byte, error) {
	mf := MappingFile{Source: m.Source(), Fields: make([]MappingFileField, 0, m.Len())}
	for _, e := range m.entries {
		f := MappingFileField{Native: e.Native}
		if e.Canonical != fields.None {
			f.Canonical = e.Canonical.String()
		}
		mf.Fields = append(mf.Fields, f)
	}
	return yaml.Marshal(&mf)
}
