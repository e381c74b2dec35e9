package tests

import (
	"path/filepath"
	"testing"

	"github.com/segmentio/events/v2"
	"github.com/stretchr/testify/require"
)

func TestTmpHelpers(t *testing.T) {
	dir, teardownDir := WithTmpDir(t)
	f, teardownFile := WithTmpFile(t, "timeseries-common.csv")
	require.DirExists(t, dir)
	require.FileExists(t, f.Name())
	require.NotEqual(t, dir, filepath.Dir(f.Name()))

	teardownFile()
	require.NoFileExists(t, f.Name())
	require.DirExists(t, dir)
	teardownDir()
	require.NoDirExists(t, dir)
}

func TestWriteReadFile(t *testing.T) {
	dir, teardown := WithTmpDir(t)
	defer teardown()

	path := filepath.Join(dir, "hhs_testing", "testing.csv")
	WriteFile(t, path, []byte("state,date\n"))
	require.Equal(t, "state,date\n", ReadFile(t, path))
}

func TestEventRecorder(t *testing.T) {
	rec := CaptureEvents()
	rec.Logger.With(events.Args{{Name: "extra_fields", Value: []string{"bar"}}}).Log("extra columns")
	rec.Logger.Debug("suggestion")
	rec.Logger.Log("Wrote %{rows}d rows", 3)

	require.Len(t, rec.Events(), 3)
	require.Equal(t, []string{"extra columns", "Wrote 3 rows"}, rec.Messages())

	extra := rec.Events("extra columns")
	require.Len(t, extra, 1)
	v, ok := Arg(extra[0], "extra_fields")
	require.True(t, ok)
	require.Equal(t, []string{"bar"}, v)
	_, ok = Arg(extra[0], "missing_fields")
	require.False(t, ok)

	rows := rec.Events("Wrote 3 rows")
	v, ok = Arg(rows[0], "rows")
	require.True(t, ok)
	require.Equal(t, 3, v)
}
