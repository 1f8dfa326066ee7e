// Package consistency cross-checks expectation tables against a test catalog.
// Findings are warnings: a stale table never breaks a test run.
package consistency

import (
	"fmt"
	"sort"

	"github.com/specvital/xfail/pkg/domain"
	"github.com/specvital/xfail/pkg/expectation"
)

// Kind classifies a warning.
type Kind string

const (
	// KindStale: a table entry names a test missing from the catalog.
	KindStale Kind = "stale"
	// KindNotSuperset: a derived set lost members of its base.
	KindNotSuperset Kind = "not-superset"
	// KindRedundant: a derived table repeats an entry its base already has.
	KindRedundant Kind = "redundant"
	// KindDuplicate: a table lists the same entry more than once.
	KindDuplicate Kind = "duplicate"
)

// Warning is one finding.
type Warning struct {
	Configuration domain.ConfigurationName `json:"configuration"`
	Kind          Kind                     `json:"kind"`
	Test          string                   `json:"test"`
	Detail        string                   `json:"detail,omitempty"`
}

func (w Warning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("%s: %s %s", w.Configuration, w.Kind, w.Test)
	}
	return fmt.Sprintf("%s: %s %s (%s)", w.Configuration, w.Kind, w.Test, w.Detail)
}

// Result holds all warnings sorted by configuration, kind and test.
type Result struct {
	Warnings []Warning `json:"warnings"`
	// Checked lists the configurations that were examined.
	Checked []domain.ConfigurationName `json:"checked"`
}

// OK reports whether no warnings were found.
func (r *Result) OK() bool {
	return len(r.Warnings) == 0
}

// Count returns the number of warnings of kind k.
func (r *Result) Count(k Kind) int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == k {
			n++
		}
	}
	return n
}

// Options configures a check.
type Options struct {
	// Configurations restricts the check. Empty means all registered ones.
	Configurations []domain.ConfigurationName
}

// Option is a functional option for Check.
type Option func(*Options)

// WithConfigurations restricts the check to the named configurations.
func WithConfigurations(names ...domain.ConfigurationName) Option {
	return func(o *Options) {
		o.Configurations = names
	}
}

// Check examines reg against cat. A nil catalog skips the stale check.
// Stale entries are reported against the configuration that declares them,
// or against a derived configuration when its base is not being checked.
// Unknown configurations requested through WithConfigurations propagate
// expectation.ErrUnknownConfiguration.
func Check(reg *expectation.Registry, cat *domain.Catalog, opts ...Option) (*Result, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	names := options.Configurations
	if len(names) == 0 {
		names = reg.Names()
	}

	checked := make(map[domain.ConfigurationName]bool, len(names))
	for _, name := range names {
		checked[name] = true
	}

	result := &Result{Warnings: []Warning{}}
	for _, name := range names {
		exp, err := reg.Lookup(name)
		if err != nil {
			return nil, err
		}
		result.Checked = append(result.Checked, name)

		for _, id := range exp.Duplicates {
			result.Warnings = append(result.Warnings, Warning{Configuration: name, Kind: KindDuplicate, Test: id})
		}

		if cat != nil {
			// A base outside the check leaves its entries to the derived set.
			entries := exp.Own
			if exp.Base != "" && !checked[exp.Base] {
				entries = exp.Tests
			}
			for _, id := range entries.Sorted() {
				if cat.Contains(id) {
					continue
				}
				w := Warning{Configuration: name, Kind: KindStale, Test: id}
				if !exp.Own.Contains(id) {
					w.Detail = "inherited from base " + string(exp.Base)
				}
				result.Warnings = append(result.Warnings, w)
			}
		}

		if exp.Base != "" {
			base, err := reg.Lookup(exp.Base)
			if err != nil {
				return nil, err
			}
			for _, id := range base.Tests.Difference(exp.Tests).Sorted() {
				result.Warnings = append(result.Warnings, Warning{
					Configuration: name, Kind: KindNotSuperset, Test: id,
					Detail: "missing from base " + string(exp.Base),
				})
			}
			for _, id := range exp.Own.Sorted() {
				if base.Tests.Contains(id) {
					result.Warnings = append(result.Warnings, Warning{
						Configuration: name, Kind: KindRedundant, Test: id,
						Detail: "already in base " + string(exp.Base),
					})
				}
			}
		}
	}

	sort.SliceStable(result.Warnings, func(i, j int) bool {
		a, b := result.Warnings[i], result.Warnings[j]
		if a.Configuration != b.Configuration {
			return a.Configuration < b.Configuration
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Test < b.Test
	})
	return result, nil
}
