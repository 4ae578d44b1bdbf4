// Package rowcount logs how a DataFrame transform changes the number of rows it is given.
//
// Wrap any func(*frames.DataFrame) (*frames.DataFrame, error) with LogRowcountChange:
//
//	dropNulls := rowcount.LogRowcountChange(filtering.DropIfAnyNull, rowcount.WithDescription("drop_if_any_null"))
//	df, err := dropNulls(df)
//
// which logs, for example, "drop_if_any_null returned 2 rows, down 1 rows (-33.3%)."
package rowcount

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zkurtz/pandahandler/frames"
)

// A Transform accepts a DataFrame and returns a DataFrame.
type Transform func(*frames.DataFrame) (*frames.DataFrame, error)

// ErrEmptyInput is returned when a transform receives an empty DataFrame but empty input is not allowed.
var ErrEmptyInput = errors.New("received an empty data frame but empty input is not allowed")

// ErrEmptyOutput is returned when a transform produces an empty DataFrame but empty output is not allowed.
var ErrEmptyOutput = errors.New("produced an empty data frame but empty output is not allowed")

// An Option configures LogRowcountChange.
type Option func(*config)

type config struct {
	logger           *logrus.Logger
	level            logrus.Level
	describe         func() string
	allowEmptyInput  bool
	allowEmptyOutput bool
}

// WithLogger logs to `logger` instead of the standard logrus logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithLevel sets the level of the log entries (default: Info).
// Nothing is computed or checked when the logger is not enabled for this level.
func WithLevel(level logrus.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithDescription names the transform in log messages (default: the name of the wrapped function).
func WithDescription(description string) Option {
	return func(c *config) {
		c.describe = func() string { return description }
	}
}

// WithDescriber computes the name of the transform on each call, only when the entry would be logged.
func WithDescriber(describe func() string) Option {
	return func(c *config) {
		c.describe = describe
	}
}

// AllowEmptyInput controls whether an empty input DataFrame is accepted (default: true).
func AllowEmptyInput(allow bool) Option {
	return func(c *config) {
		c.allowEmptyInput = allow
	}
}

// AllowEmptyOutput controls whether an empty output DataFrame is accepted (default: true).
func AllowEmptyOutput(allow bool) Option {
	return func(c *config) {
		c.allowEmptyOutput = allow
	}
}

// LogRowcountChange wraps `fn` so that every call logs the change in the number of rows.
// The entry carries the fields n_input and n_output. Messages take one of the forms:
//
//	<description> returned an empty data frame.
//	<description> did not affect the row count.
//	<description> returned <n> rows, <up|down> <delta> rows (<percent>%).
//
// with the percentage rounded to 3 significant figures.
// Errors returned by `fn`, or attached to the DataFrame it returns, are passed through.
func LogRowcountChange(fn Transform, options ...Option) Transform {
	c := &config{
		logger:           logrus.StandardLogger(),
		level:            logrus.InfoLevel,
		allowEmptyInput:  true,
		allowEmptyOutput: true,
	}
	for _, option := range options {
		option(c)
	}
	if c.describe == nil {
		name := FunctionName(fn)
		c.describe = func() string { return name }
	}
	return func(df *frames.DataFrame) (*frames.DataFrame, error) {
		if !c.logger.IsLevelEnabled(c.level) {
			return fn(df)
		}
		nInput := df.Len()
		description := c.describe()
		if !c.allowEmptyInput && nInput == 0 {
			return nil, fmt.Errorf("%s: %w", description, ErrEmptyInput)
		}
		out, err := fn(df)
		if err != nil {
			return nil, err
		}
		if out.Err() != nil {
			return nil, out.Err()
		}
		nOutput := out.Len()
		entry := c.logger.WithFields(logrus.Fields{"n_input": nInput, "n_output": nOutput})
		if nOutput == 0 {
			if !c.allowEmptyOutput {
				return nil, fmt.Errorf("%s: %w", description, ErrEmptyOutput)
			}
			entry.Log(c.level, description+" returned an empty data frame.")
			return out, nil
		}
		entry.Log(c.level, Message(description, nInput, nOutput))
		return out, nil
	}
}

// Message describes the change from `nInput` to `nOutput` rows.
// An empty output is reported by LogRowcountChange before Message is consulted.
func Message(description string, nInput, nOutput int) string {
	delta := nOutput - nInput
	if delta == 0 {
		return fmt.Sprintf("%s did not affect the row count.", description)
	}
	direction := "up"
	if delta < 0 {
		direction = "down"
	}
	magnitude := delta
	if magnitude < 0 {
		magnitude = -magnitude
	}
	return fmt.Sprintf("%s returned %d rows, %s %d rows (%s%%).",
		description, nOutput, direction, magnitude, formatPercent(delta, nInput))
}

// FunctionName returns the unqualified name of the function `fn`, e.g. "DropIfAnyNull".
// Anonymous functions are named after their enclosing function, e.g. "AsFilter.func1".
func FunctionName(fn interface{}) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "transform"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
