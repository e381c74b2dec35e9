package errs

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/segmentio/errors-go"
	"github.com/segmentio/stats/v4"
)

const (
	defaultErrName = "errors"
)

const (
	// these error types are handy when using errors-go
	ErrTypeTemporary = "Temporary"
	ErrTypePermanent = "Permanent"
)

func IsCanceled(err error) bool {
	return err != nil && errors.Cause(err) == context.Canceled
}

// IncrDefault increments the default error metric
func IncrDefault(tags ...stats.Tag) {
	Incr(defaultErrName, tags...)
}

// Incr increments an error metric, along with the default error metric
func Incr(name string, tags ...stats.Tag) {
	stats.Incr(name, tags...)
	if name == defaultErrName {
		// don't increment the default error twice
		return
	}
	// add a tag to indicate the name of the original error. We can then
	// view that tag in datadog to figure out what the error was.
	newTags := make([]stats.Tag, len(tags), len(tags)+1)
	copy(newTags, tags)
	newTags = append(newTags, stats.T("error", name))
	stats.Incr(defaultErrName, newTags...)
}

// ConfigurationError reports a source mapping that can never be applied
// safely, such as two native columns resolving to one canonical field.
type ConfigurationError struct {
	Source string
	Err    string
}

func (e *ConfigurationError) Error() string {
	if e.Source == "" {
		return e.Err
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Err)
}

func Configuration(source string, format string, args ...interface{}) error {
	return &ConfigurationError{
		Source: source,
		Err:    fmt.Sprintf(format, args...),
	}
}

// PivotConflictError is returned when more than one value lands in the same
// cell of a pivoted table.
type PivotConflictError struct {
	Index  []string
	Column string
}

func (e *PivotConflictError) Error() string {
	return fmt.Sprintf("duplicate value for index (%s) and column %q",
		strings.Join(e.Index, ", "), e.Column)
}

// DataError means a sanity check on source data failed and the output would
// be wrong if the run continued.
type DataError struct {
	Err string
}

func (e *DataError) Error() string {
	return e.Err
}

func Data(format string, args ...interface{}) error {
	return &DataError{
		Err: fmt.Sprintf(format, args...),
	}
}

type baseError struct {
	Err string
}

type BadRequestError baseError

func (e BadRequestError) Error() string {
	return e.Err
}

func BadRequest(format string, args ...interface{}) error {
	return &BadRequestError{
		Err: fmt.Sprintf(format, args...),
	}
}

type NotFoundError baseError

func (e NotFoundError) Error() string {
	return e.Err
}

func NotFound(format string, args ...interface{}) error {
	return &NotFoundError{
		Err: fmt.Sprintf(format, args...),
	}
}

// as matches target against the chain of err, falling back to the cause
// recorded by errors-go wrappers.
func as(err error, target interface{}) bool {
	if stderrors.As(err, target) {
		return true
	}
	if cause := errors.Cause(err); cause != err {
		return stderrors.As(cause, target)
	}
	return false
}

// IsTemporary reports whether err was tagged ErrTypeTemporary, e.g. an
// upstream server error that may succeed on the next run.
func IsTemporary(err error) bool {
	for err != nil {
		if errors.Is(ErrTypeTemporary, err) {
			return true
		}
		switch e := err.(type) {
		case interface{ Cause() error }:
			err = e.Cause()
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		default:
			return false
		}
	}
	return false
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return as(err, &target)
}

func IsPivotConflict(err error) bool {
	var target *PivotConflictError
	return as(err, &target)
}

// ExitCode maps an error to the process exit status of the binaries.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var (
		badRequest *BadRequestError
		notFound   *NotFoundError
	)
	switch {
	case as(err, &badRequest), as(err, &notFound):
		return 2
	case IsConfiguration(err):
		return 3
	case IsPivotConflict(err):
		return 4
	}
	var dataErr *DataError
	if as(err, &dataErr) {
		return 5
	}
	if IsTemporary(err) {
		return 75 // EX_TEMPFAIL
	}
	return 1
}
