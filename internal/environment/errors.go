package environment

import (
	"errors"
	"strings"
)

var (
	// ErrConfigurationMissing is returned by Provider.Get before a successful Load.
	ErrConfigurationMissing = errors.New("environment configuration has not been loaded")
	// ErrInvalidConfiguration is returned when a record fails validation.
	ErrInvalidConfiguration = errors.New("invalid environment configuration")
	// ErrUnsupportedEnvironment is returned for targets with no registered record.
	ErrUnsupportedEnvironment = errors.New("unsupported environment target")
	// ErrAlreadyLoaded is returned when Load is asked for a second, different target.
	ErrAlreadyLoaded = errors.New("environment configuration already loaded for another target")
)

// FieldError describes one offending field, addressed by its serialized path.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Reason
}

// InvalidConfigError lists every field that failed validation.
// It matches ErrInvalidConfiguration with errors.Is.
type InvalidConfigError struct {
	Target Target
	Fields []FieldError
}

func (e *InvalidConfigError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}

	msg := ErrInvalidConfiguration.Error()
	if e.Target != "" {
		msg += " for " + string(e.Target)
	}
	return msg + ": " + strings.Join(parts, "; ")
}

func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// HasField reports whether the named field is among the failures.
func (e *InvalidConfigError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
