package expectation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/xfail/pkg/domain"
)

func testDefinitions() []Definition {
	return []Definition{
		{Name: "base", Kind: domain.KindXfail, Tests: []string{"A", "B"}},
		{Name: "derived", Kind: domain.KindXfail, Base: "base", Tests: []string{"C", "A"}},
		{Name: "grand", Kind: domain.KindXfail, Base: "derived", Tests: []string{"D"}},
		{Name: "allow", Kind: domain.KindPass, Tests: []string{"P", "P", "Q"}},
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(testDefinitions()...)
	require.NoError(t, err)

	assert.Equal(t,
		[]domain.ConfigurationName{"allow", "base", "derived", "grand"},
		r.Names(),
	)

	grand, err := r.Lookup("grand")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, grand.Tests.Sorted())
	assert.Equal(t, []string{"D"}, grand.Own.Sorted())

	allow, err := r.Lookup("allow")
	require.NoError(t, err)
	assert.Equal(t, 2, allow.Tests.Len())
	assert.Equal(t, []string{"P"}, allow.Duplicates)
}

func TestNewRegistry_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		defs []Definition
		want error
	}{
		{
			name: "missing name",
			defs: []Definition{{Kind: domain.KindXfail}},
			want: ErrMissingName,
		},
		{
			name: "invalid kind",
			defs: []Definition{{Name: "x", Kind: "deny"}},
			want: ErrInvalidKind,
		},
		{
			name: "duplicate configuration",
			defs: []Definition{
				{Name: "x", Kind: domain.KindXfail},
				{Name: "x", Kind: domain.KindXfail},
			},
			want: ErrDuplicateConfiguration,
		},
		{
			name: "unknown base",
			defs: []Definition{{Name: "x", Kind: domain.KindXfail, Base: "nope"}},
			want: ErrUnknownBase,
		},
		{
			name: "kind mismatch",
			defs: []Definition{
				{Name: "x", Kind: domain.KindXfail, Base: "y"},
				{Name: "y", Kind: domain.KindPass},
			},
			want: ErrKindMismatch,
		},
		{
			name: "cycle",
			defs: []Definition{
				{Name: "x", Kind: domain.KindXfail, Base: "y"},
				{Name: "y", Kind: domain.KindXfail, Base: "x"},
			},
			want: ErrBaseCycle,
		},
		{
			name: "self cycle",
			defs: []Definition{{Name: "x", Kind: domain.KindXfail, Base: "x"}},
			want: ErrBaseCycle,
		},
		{
			name: "blank identifier",
			defs: []Definition{{Name: "x", Kind: domain.KindXfail, Tests: []string{"A", "  "}}},
			want: ErrEmptyIdentifier,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewRegistry(tt.defs...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegistry_IsExpectedFailure(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(testDefinitions()...)
	require.NoError(t, err)

	tests := []struct {
		config domain.ConfigurationName
		testID string
		want   bool
	}{
		{"base", "A", true},
		{"base", "C", false},
		{"derived", "B", true},
		{"derived", "C", true},
		{"derived", "Unknown", false},
		{"allow", "P", false},
		{"allow", "Unknown", true},
		{"allow", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.config)+"/"+tt.testID, func(t *testing.T) {
			t.Parallel()

			got, err := r.IsExpectedFailure(tt.config, tt.testID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_UnknownConfiguration(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(testDefinitions()...)
	require.NoError(t, err)

	_, err = r.IsExpectedFailure("no-such-config", "AnyTest")
	require.ErrorIs(t, err, ErrUnknownConfiguration)

	var unknown *UnknownConfigurationError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, domain.ConfigurationName("no-such-config"), unknown.Name)
	assert.Contains(t, unknown.Known, domain.ConfigurationName("base"))
	assert.Contains(t, err.Error(), `"no-such-config"`)

	_, err = r.Union("no-such-config", NewSet("A"))
	assert.ErrorIs(t, err, ErrUnknownConfiguration)

	_, err = r.ExpectedOutcome("no-such-config", "A")
	assert.ErrorIs(t, err, ErrUnknownConfiguration)
}

func TestRegistry_ExpectedOutcome(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(testDefinitions()...)
	require.NoError(t, err)

	got, err := r.ExpectedOutcome("base", "A")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFail, got)

	got, err = r.ExpectedOutcome("allow", "P")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomePass, got)
}

func TestRegistry_Union(t *testing.T) {
	t.Parallel()

	r, err := NewRegistry(testDefinitions()...)
	require.NoError(t, err)

	t.Run("should be a proper superset for disjoint extras", func(t *testing.T) {
		t.Parallel()

		base, _ := r.Lookup("base")
		got, err := r.Union("base", NewSet("X", "Y"))
		require.NoError(t, err)
		assert.True(t, got.IsSupersetOf(base.Tests))
		assert.False(t, got.Equal(base.Tests))
		assert.Equal(t, base.Tests.Len()+2, got.Len())
	})

	t.Run("should collapse overlapping extras", func(t *testing.T) {
		t.Parallel()

		got, err := r.Union("base", NewSet("A", "X"))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "X"}, got.Sorted())
	})

	t.Run("should not mutate the registered set", func(t *testing.T) {
		t.Parallel()

		_, err := r.Union("base", NewSet("Z"))
		require.NoError(t, err)
		ok, err := r.IsExpectedFailure("base", "Z")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
