// Package expectation implements the expected-failure registry: per
// configuration, a set of test identifiers interpreted either as the tests
// expected to fail (xfail) or as the only tests expected to pass (pass).
//
// A Registry is built once and never mutated afterwards, so it is safe for
// concurrent use by any number of readers without locking.
package expectation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specvital/xfail/pkg/domain"
)

// Definition is the unresolved form of one configuration's table.
type Definition struct {
	// Name is the configuration name.
	Name domain.ConfigurationName
	// Kind is the polarity of Tests.
	Kind domain.ExpectationKind
	// Base optionally names a configuration whose set is included in this one.
	Base domain.ConfigurationName
	// Description is free-form documentation.
	Description string
	// Tests are the identifiers declared by this table. Order is irrelevant
	// and duplicates collapse.
	Tests []string
}

// Expectation is a resolved configuration.
type Expectation struct {
	Name        domain.ConfigurationName
	Kind        domain.ExpectationKind
	Base        domain.ConfigurationName
	Description string
	// Own holds the identifiers declared by this configuration's table.
	Own Set
	// Tests holds Own plus, transitively, every base configuration's set.
	Tests Set
	// Duplicates lists identifiers declared more than once in the table.
	Duplicates []string
}

// IsExpectedFailure answers for a single configuration.
func (e Expectation) IsExpectedFailure(testID string) bool {
	if e.Kind == domain.KindPass {
		return !e.Tests.Contains(testID)
	}
	return e.Tests.Contains(testID)
}

// Registry maps configuration names to resolved expectations.
type Registry struct {
	byName map[domain.ConfigurationName]Expectation
	names  []domain.ConfigurationName
}

// NewRegistry validates defs, resolves base references and returns an
// immutable registry.
func NewRegistry(defs ...Definition) (*Registry, error) {
	pending := make(map[domain.ConfigurationName]Definition, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, ErrMissingName
		}
		if !def.Kind.IsValid() {
			return nil, fmt.Errorf("%w %q for %s", ErrInvalidKind, def.Kind, def.Name)
		}
		if _, dup := pending[def.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateConfiguration, def.Name)
		}
		for i, id := range def.Tests {
			if strings.TrimSpace(id) == "" {
				return nil, fmt.Errorf("%w: %s entry %d", ErrEmptyIdentifier, def.Name, i)
			}
		}
		pending[def.Name] = def
	}

	r := &Registry{byName: make(map[domain.ConfigurationName]Expectation, len(defs))}
	for name := range pending {
		r.names = append(r.names, name)
	}
	sort.Slice(r.names, func(i, j int) bool { return r.names[i] < r.names[j] })

	visiting := make(map[domain.ConfigurationName]bool)
	for _, name := range r.names {
		if _, err := r.resolve(name, pending, visiting); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) resolve(name domain.ConfigurationName, pending map[domain.ConfigurationName]Definition, visiting map[domain.ConfigurationName]bool) (Expectation, error) {
	if exp, ok := r.byName[name]; ok {
		return exp, nil
	}
	if visiting[name] {
		return Expectation{}, fmt.Errorf("%w at %s", ErrBaseCycle, name)
	}
	visiting[name] = true
	defer delete(visiting, name)

	def := pending[name]
	own := NewSet(def.Tests...)
	exp := Expectation{
		Name:        def.Name,
		Kind:        def.Kind,
		Base:        def.Base,
		Description: def.Description,
		Own:         own,
		Tests:       own,
		Duplicates:  duplicates(def.Tests),
	}

	if def.Base != "" {
		if _, ok := pending[def.Base]; !ok {
			return Expectation{}, fmt.Errorf("%w %q for %s", ErrUnknownBase, def.Base, name)
		}
		base, err := r.resolve(def.Base, pending, visiting)
		if err != nil {
			return Expectation{}, err
		}
		if base.Kind != def.Kind {
			return Expectation{}, fmt.Errorf("%w: %s is %s, %s is %s", ErrKindMismatch, name, def.Kind, base.Name, base.Kind)
		}
		exp.Tests = base.Tests.Union(own)
	}

	r.byName[name] = exp
	return exp, nil
}

func duplicates(ids []string) []string {
	seen := make(map[string]int, len(ids))
	var dups []string
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

// Lookup returns the resolved expectation for config.
func (r *Registry) Lookup(config domain.ConfigurationName) (Expectation, error) {
	exp, ok := r.byName[config]
	if !ok {
		return Expectation{}, &UnknownConfigurationError{Name: config, Known: r.Names()}
	}
	return exp, nil
}

// IsExpectedFailure reports whether testID is expected to fail under config.
// Unknown test identifiers are not an error.
func (r *Registry) IsExpectedFailure(config domain.ConfigurationName, testID string) (bool, error) {
	exp, err := r.Lookup(config)
	if err != nil {
		return false, err
	}
	return exp.IsExpectedFailure(testID), nil
}

// ExpectedOutcome returns OutcomeFail or OutcomePass for testID under config.
func (r *Registry) ExpectedOutcome(config domain.ConfigurationName, testID string) (domain.Outcome, error) {
	fail, err := r.IsExpectedFailure(config, testID)
	if err != nil {
		return "", err
	}
	if fail {
		return domain.OutcomeFail, nil
	}
	return domain.OutcomePass, nil
}

// Union returns the set of base plus extra. Duplicates across the two
// inputs collapse.
func (r *Registry) Union(base domain.ConfigurationName, extra Set) (Set, error) {
	exp, err := r.Lookup(base)
	if err != nil {
		return Set{}, err
	}
	return exp.Tests.Union(extra), nil
}

// Names returns the registered configuration names in sorted order.
func (r *Registry) Names() []domain.ConfigurationName {
	out := make([]domain.ConfigurationName, len(r.names))
	copy(out, r.names)
	return out
}

// Expectations returns all resolved expectations sorted by name.
func (r *Registry) Expectations() []Expectation {
	out := make([]Expectation, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}
