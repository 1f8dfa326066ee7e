// Package results reads observed test outcomes produced by a test runner.
package results

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/specvital/xfail/pkg/domain"
)

// Format is an on-disk results format.
type Format string

const (
	FormatJUnit Format = "junit"
	FormatJSON  Format = "json"
)

var (
	// ErrUnknownFormat is returned for unsupported formats.
	ErrUnknownFormat = errors.New("results: unknown format")
	// ErrInvalidOutcome is returned for outcomes other than pass, fail and error.
	ErrInvalidOutcome = errors.New("results: invalid outcome")
	// ErrMissingName is returned for results without a test name.
	ErrMissingName = errors.New("results: missing test name")
)

// Result is the observed outcome of one test.
type Result struct {
	Name    string         `json:"name"`
	Outcome domain.Outcome `json:"outcome"`
	Message string         `json:"message,omitempty"`
}

// Run is a set of observed results.
type Run struct {
	Results []Result `json:"results"`
	// Skipped counts tests the runner skipped. They carry no outcome.
	Skipped int `json:"skipped,omitempty"`
}

// DetectFormat guesses the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatJUnit, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: cannot infer from %q", ErrUnknownFormat, path)
	}
}

// Read decodes r in the given format.
func Read(r io.Reader, format Format) (*Run, error) {
	switch format {
	case FormatJUnit:
		return ReadJUnit(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}
