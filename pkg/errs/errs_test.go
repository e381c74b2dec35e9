package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	segerrors "github.com/segmentio/errors-go"
	"github.com/stretchr/testify/require"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{
			name: "nil",
			err:  nil,
			code: 0,
		},
		{
			name: "generic",
			err:  errors.New("foo"),
			code: 1,
		},
		{
			name: "bad request",
			err:  BadRequest("missing --source"),
			code: 2,
		},
		{
			name: "not found",
			err:  NotFound("source %q", "nope"),
			code: 2,
		},
		{
			name: "configuration",
			err:  Configuration("covid_tracking", "field %q misconfigured", "positive"),
			code: 3,
		},
		{
			name: "pivot conflict",
			err:  &PivotConflictError{Index: []string{"36", "2020-06-01"}, Column: "cases"},
			code: 4,
		},
		{
			name: "data",
			err:  Data("icu above hospitalized"),
			code: 5,
		},
		{
			name: "temporary",
			err:  segerrors.WithTypes(errors.New("get: 503"), ErrTypeTemporary),
			code: 75,
		},
		{
			name: "permanent",
			err:  segerrors.WithTypes(errors.New("get: 404"), ErrTypePermanent),
			code: 1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.err
			if err != nil {
				err = fmt.Errorf("wrapped: %w", err)
			}
			require.Equal(t, test.code, ExitCode(err))
		})
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := Configuration("hhs_testing", "two columns map to %s", "positive_tests")
	require.EqualError(t, err, "hhs_testing: two columns map to positive_tests")
	require.True(t, IsConfiguration(err))
	require.False(t, IsPivotConflict(err))

	err = Configuration("", "bad")
	require.EqualError(t, err, "bad")
}

func TestPivotConflictErrorMessage(t *testing.T) {
	err := &PivotConflictError{Index: []string{"06", "2020-04-01", "state"}, Column: "current_icu"}
	require.EqualError(t, err, `duplicate value for index (06, 2020-04-01, state) and column "current_icu"`)
}

func TestIsCanceled(t *testing.T) {
	require.True(t, IsCanceled(context.Canceled))
	require.True(t, IsCanceled(segerrors.Wrap(context.Canceled, "fetching")))
	require.False(t, IsCanceled(errors.New("other")))
	require.False(t, IsCanceled(nil))
}

func TestIsTemporary(t *testing.T) {
	err := segerrors.WithTypes(errors.New("get: 502"), ErrTypeTemporary)
	require.True(t, IsTemporary(err))
	require.True(t, IsTemporary(segerrors.Wrap(err, "download")))
	require.False(t, IsTemporary(errors.New("get: 502")))
	require.False(t, IsTemporary(nil))
}
