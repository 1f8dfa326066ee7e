// Package report classifies observed test outcomes against a registry
// configuration and renders the result.
package report

import (
	"github.com/specvital/xfail/pkg/domain"
	"github.com/specvital/xfail/pkg/expectation"
	"github.com/specvital/xfail/pkg/results"
)

// Entry is the verdict for one observed test.
type Entry struct {
	Name     string         `json:"name"`
	Expected domain.Outcome `json:"expected"`
	Observed domain.Outcome `json:"observed"`
	Verdict  domain.Verdict `json:"verdict"`
	Message  string         `json:"message,omitempty"`
}

// Summary counts entries per verdict.
type Summary struct {
	Counts map[domain.Verdict]int `json:"counts"`
	// Total is the number of distinct tests classified.
	Total int `json:"total"`
	// Duplicates counts results whose name was already seen. The last
	// occurrence wins.
	Duplicates int `json:"duplicates,omitempty"`
	// Skipped counts results the runner skipped.
	Skipped int `json:"skipped,omitempty"`
}

// Count returns the number of entries with verdict v.
func (s Summary) Count(v domain.Verdict) int {
	return s.Counts[v]
}

// Report is the classification of one run under one configuration.
type Report struct {
	Configuration domain.ConfigurationName `json:"configuration"`
	Kind          domain.ExpectationKind   `json:"kind"`
	Strict        bool                     `json:"strict"`
	Entries       []Entry                  `json:"entries"`
	Summary       Summary                  `json:"summary"`

	expectation expectation.Expectation
}

// Option configures Classify.
type Option func(*options)

type options struct {
	strict bool
}

// WithStrict controls whether unexpected fixes fail the report. Default true.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// Classify compares run against the expectations of config. An unknown
// configuration returns an error matching expectation.ErrUnknownConfiguration.
func Classify(reg *expectation.Registry, config domain.ConfigurationName, run *results.Run, opts ...Option) (*Report, error) {
	o := &options{strict: true}
	for _, opt := range opts {
		opt(o)
	}

	exp, err := reg.Lookup(config)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Configuration: exp.Name,
		Kind:          exp.Kind,
		Strict:        o.strict,
		Entries:       []Entry{},
		Summary:       Summary{Counts: make(map[domain.Verdict]int, len(domain.Verdicts))},
		expectation:   exp,
	}
	if run == nil {
		return rep, nil
	}
	rep.Summary.Skipped = run.Skipped

	index := make(map[string]int, len(run.Results))
	for _, res := range run.Results {
		expectFailure := exp.IsExpectedFailure(res.Name)
		expected := domain.OutcomePass
		if expectFailure {
			expected = domain.OutcomeFail
		}
		entry := Entry{
			Name:     res.Name,
			Expected: expected,
			Observed: res.Outcome,
			Verdict:  domain.VerdictFor(expectFailure, res.Outcome),
			Message:  res.Message,
		}

		if i, dup := index[res.Name]; dup {
			rep.Summary.Duplicates++
			rep.Summary.Counts[rep.Entries[i].Verdict]--
			rep.Entries[i] = entry
		} else {
			index[res.Name] = len(rep.Entries)
			rep.Entries = append(rep.Entries, entry)
		}
		rep.Summary.Counts[entry.Verdict]++
	}
	rep.Summary.Total = len(rep.Entries)

	return rep, nil
}

// OK reports whether the run matches the expectations: no regressions, and
// in strict mode no unexpected fixes.
func (r *Report) OK() bool {
	if r.Summary.Count(domain.VerdictRegression) > 0 {
		return false
	}
	return !r.Strict || r.Summary.Count(domain.VerdictUnexpectedFix) == 0
}

// Filter returns the entries with verdict v in name order.
func (r *Report) Filter(v domain.Verdict) []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Verdict == v {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out
}

// Suggest returns the resolved set that would make this run clean. For an
// xfail configuration fixes are dropped and regressions added; for a pass
// configuration fixes are added and regressions dropped.
func (r *Report) Suggest() expectation.Set {
	fixes := namesOf(r.Filter(domain.VerdictUnexpectedFix))
	regressions := namesOf(r.Filter(domain.VerdictRegression))

	if r.Kind == domain.KindPass {
		return r.expectation.Tests.Union(fixes).Difference(regressions)
	}
	return r.expectation.Tests.Difference(fixes).Union(regressions)
}

func namesOf(entries []Entry) expectation.Set {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return expectation.NewSet(names...)
}
