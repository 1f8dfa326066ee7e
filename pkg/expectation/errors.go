package expectation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specvital/xfail/pkg/domain"
)

var (
	// ErrUnknownConfiguration is returned when a lookup names a configuration
	// that is not registered. Callers must treat it as fatal.
	ErrUnknownConfiguration = errors.New("expectation: unknown configuration")
	// ErrDuplicateConfiguration is returned when two tables declare the same name.
	ErrDuplicateConfiguration = errors.New("expectation: duplicate configuration")
	// ErrUnknownBase is returned when a table derives from an unregistered configuration.
	ErrUnknownBase = errors.New("expectation: unknown base configuration")
	// ErrKindMismatch is returned when a table derives from a base of the other polarity.
	ErrKindMismatch = errors.New("expectation: base configuration has a different kind")
	// ErrBaseCycle is returned when base references form a cycle.
	ErrBaseCycle = errors.New("expectation: base configuration cycle")
	// ErrInvalidKind is returned for kinds other than xfail and pass.
	ErrInvalidKind = errors.New("expectation: invalid kind")
	// ErrMissingName is returned for tables without a configuration name.
	ErrMissingName = errors.New("expectation: missing configuration name")
	// ErrEmptyIdentifier is returned for blank test identifiers.
	ErrEmptyIdentifier = errors.New("expectation: empty test identifier")
)

// UnknownConfigurationError carries the offending name and the registered ones.
// It matches ErrUnknownConfiguration with errors.Is.
type UnknownConfigurationError struct {
	Name  domain.ConfigurationName
	Known []domain.ConfigurationName
}

func (e *UnknownConfigurationError) Error() string {
	known := make([]string, len(e.Known))
	for i, n := range e.Known {
		known[i] = string(n)
	}
	return fmt.Sprintf("%v %q (known: %s)", ErrUnknownConfiguration, e.Name, strings.Join(known, ", "))
}

func (e *UnknownConfigurationError) Is(target error) bool {
	return target == ErrUnknownConfiguration
}
