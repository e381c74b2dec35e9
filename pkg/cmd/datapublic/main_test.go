package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/covidactnow/datapublic/pkg/errs"
)

func TestParseInputs(t *testing.T) {
	got, err := parseInputs("daily=raw/daily.csv, counties=raw/counties.csv,")
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"daily":    "raw/daily.csv",
		"counties": "raw/counties.csv",
	}, got)

	got, err = parseInputs("")
	require.NoError(t, err)
	require.Empty(t, got)

	for _, bad := range []string{"daily", "=x", "daily="} {
		_, err := parseInputs(bad)
		require.Error(t, err, bad)
		require.Equal(t, 2, errs.ExitCode(err))
	}
}
