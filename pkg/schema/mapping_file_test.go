package schema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/covidactnow/datapublic/pkg/errs"
	"github.com/covidactnow/datapublic/pkg/fields"
	"github.com/covidactnow/datapublic/pkg/tests"
)

const sampleMappingYAML = `
source: sample
fields:
  - native: positive
    canonical: positive_tests
  - native: positiveIncrease
  - native: death
    canonical: deaths
`

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping([]byte(sampleMappingYAML))
	require.NoError(t, err)
	require.Equal(t, "sample", m.Source())
	require.Equal(t, []string{"positive", "positiveIncrease", "death"}, m.NativeNames())

	sf, ok := m.Get("death")
	require.True(t, ok)
	require.Equal(t, fields.Deaths, sf.Canonical)
}

func TestParseMappingErrors(t *testing.T) {
	suite := []struct {
		desc string
		yaml string
	}{
		{"no source", "fields: []"},
		{"unknown canonical", "source: s\nfields:\n  - native: a\n    canonical: not_a_field\n"},
		{"duplicate native", "source: s\nfields:\n  - native: a\n  - native: a\n"},
		{"canonical collision", "source: s\nfields:\n  - native: a\n    canonical: cases\n  - native: b\n    canonical: cases\n"},
	}
	for _, testCase := range suite {
		t.Run(testCase.desc, func(t *testing.T) {
			_, err := ParseMapping([]byte(testCase.yaml))
			require.Error(t, err)
			require.True(t, errs.IsConfiguration(err), "%v", err)
		})
	}

	_, err := ParseMapping([]byte("source: [unterminated"))
	require.Error(t, err)
	require.False(t, errs.IsConfiguration(err))
}

func TestMappingFileRoundTrip(t *testing.T) {
	m, err := ParseMapping([]byte(sampleMappingYAML))
	require.NoError(t, err)

	data, err := MarshalMapping(m)
	require.NoError(t, err)
	require.NotContains(t, string(data), "canonical: \"\"")

	dir, teardown := tests.WithTmpDir(t)
	defer teardown()
	path := filepath.Join(dir, "sample.yaml")
	tests.WriteFile(t, path, data)

	loaded, err := LoadMappingFile(path)
	require.NoError(t, err)
	require.Equal(t, m.Fields(), loaded.Fields())

	_, err = LoadMappingFile("/does/not/exist.yaml")
	require.Error(t, err)
}
