package main

import (
	"errors"

	"github.com/specvital/xfail/pkg/expectation"
)

var (
	errReportFailed = errors.New("run does not match expectations")
	errWarnings     = errors.New("consistency warnings found")
)

const (
	exitOK            = 0
	exitFailure       = 1
	exitUnknownConfig = 2
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, expectation.ErrUnknownConfiguration):
		return exitUnknownConfig
	default:
		return exitFailure
	}
}
