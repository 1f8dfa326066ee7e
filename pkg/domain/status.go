package domain

// Outcome is the observed (or expected) result of running one test
// under one configuration.
type Outcome string

const (
	// OutcomePass indicates the test ran and succeeded.
	OutcomePass Outcome = "pass"
	// OutcomeFail indicates the test ran and produced a wrong result.
	OutcomeFail Outcome = "fail"
	// OutcomeError indicates the test could not be compiled or executed.
	OutcomeError Outcome = "error"
)

// IsValid reports whether o is a known outcome.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomePass, OutcomeFail, OutcomeError:
		return true
	}
	return false
}

// Failed reports whether o counts as a failure. Errors count as failures.
func (o Outcome) Failed() bool {
	return o == OutcomeFail || o == OutcomeError
}

// Verdict classifies an observed outcome against the expected one.
type Verdict string

const (
	// VerdictPass: expected to pass, observed pass.
	VerdictPass Verdict = "pass"
	// VerdictRegression: expected to pass, observed failure.
	VerdictRegression Verdict = "regression"
	// VerdictKnownIssue: expected to fail, observed failure.
	VerdictKnownIssue Verdict = "known-issue"
	// VerdictUnexpectedFix: expected to fail, observed pass.
	// The registry entry is stale and should be removed.
	VerdictUnexpectedFix Verdict = "unexpected-fix"
)

// Verdicts lists all verdicts in report order.
var Verdicts = []Verdict{
	VerdictRegression,
	VerdictUnexpectedFix,
	VerdictKnownIssue,
	VerdictPass,
}

// VerdictFor combines an expectation with an observation.
func VerdictFor(expectFailure bool, observed Outcome) Verdict {
	switch {
	case !expectFailure && !observed.Failed():
		return VerdictPass
	case !expectFailure:
		return VerdictRegression
	case observed.Failed():
		return VerdictKnownIssue
	default:
		return VerdictUnexpectedFix
	}
}
