package consistency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/xfail/pkg/consistency"
	"github.com/specvital/xfail/pkg/domain"
	"github.com/specvital/xfail/pkg/expectation"
)

func testRegistry(t *testing.T) *expectation.Registry {
	t.Helper()

	r, err := expectation.NewRegistry(
		expectation.Definition{Name: "base", Kind: domain.KindXfail, Tests: []string{"A", "Gone"}},
		expectation.Definition{Name: "derived", Kind: domain.KindXfail, Base: "base", Tests: []string{"A", "B"}},
		expectation.Definition{Name: "allow", Kind: domain.KindPass, Tests: []string{"P", "P"}},
	)
	require.NoError(t, err)
	return r
}

func catalogOf(names ...string) *domain.Catalog {
	cases := make([]domain.TestCase, len(names))
	for i, n := range names {
		cases[i] = domain.TestCase{Name: n}
	}
	return domain.NewCatalog("", cases)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	// Given
	reg := testRegistry(t)
	cat := catalogOf("A", "B", "P")

	// When
	result, err := consistency.Check(reg, cat)

	// Then
	require.NoError(t, err)
	assert.Equal(t, []consistency.Warning{
		{Configuration: "allow", Kind: consistency.KindDuplicate, Test: "P"},
		{Configuration: "base", Kind: consistency.KindStale, Test: "Gone"},
		{Configuration: "derived", Kind: consistency.KindRedundant, Test: "A", Detail: "already in base base"},
	}, result.Warnings)
	assert.False(t, result.OK())
	assert.Equal(t, 1, result.Count(consistency.KindStale))
	assert.Zero(t, result.Count(consistency.KindNotSuperset))
	assert.Equal(t, []domain.ConfigurationName{"allow", "base", "derived"}, result.Checked)
}

func TestCheck_StaleEntriesAreOnlyReportedOnce(t *testing.T) {
	t.Parallel()

	// "Gone" is inherited by derived but only declared by base.
	result, err := consistency.Check(testRegistry(t), catalogOf("A", "B", "P"))
	require.NoError(t, err)

	for _, w := range result.Warnings {
		if w.Kind == consistency.KindStale {
			assert.Equal(t, domain.ConfigurationName("base"), w.Configuration)
		}
	}
}

func TestCheck_WithoutCatalog(t *testing.T) {
	t.Parallel()

	result, err := consistency.Check(testRegistry(t), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Count(consistency.KindStale))
}

func TestCheck_WithConfigurations(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)

	t.Run("should restrict to named configurations", func(t *testing.T) {
		t.Parallel()

		result, err := consistency.Check(reg, catalogOf(), consistency.WithConfigurations("allow"))
		require.NoError(t, err)
		assert.Equal(t, []domain.ConfigurationName{"allow"}, result.Checked)
		for _, w := range result.Warnings {
			assert.Equal(t, domain.ConfigurationName("allow"), w.Configuration)
		}
	})

	t.Run("should report inherited stale entries when base is not checked", func(t *testing.T) {
		t.Parallel()

		// Given a derived configuration checked without its base
		result, err := consistency.Check(reg, catalogOf("A", "B", "P"), consistency.WithConfigurations("derived"))

		// Then the stale entry inherited from base is reported against it
		require.NoError(t, err)
		assert.Equal(t, []consistency.Warning{
			{Configuration: "derived", Kind: consistency.KindRedundant, Test: "A", Detail: "already in base base"},
			{Configuration: "derived", Kind: consistency.KindStale, Test: "Gone", Detail: "inherited from base base"},
		}, result.Warnings)
	})

	t.Run("should leave inherited stale entries to a checked base", func(t *testing.T) {
		t.Parallel()

		result, err := consistency.Check(reg, catalogOf("A", "B", "P"), consistency.WithConfigurations("derived", "base"))
		require.NoError(t, err)
		assert.Equal(t, []consistency.Warning{
			{Configuration: "base", Kind: consistency.KindStale, Test: "Gone"},
			{Configuration: "derived", Kind: consistency.KindRedundant, Test: "A", Detail: "already in base base"},
		}, result.Warnings)
	})

	t.Run("should propagate unknown configuration", func(t *testing.T) {
		t.Parallel()

		_, err := consistency.Check(reg, nil, consistency.WithConfigurations("nope"))
		assert.ErrorIs(t, err, expectation.ErrUnknownConfiguration)
	})
}

func TestCheck_DefaultTablesKeepSupersetProperty(t *testing.T) {
	t.Parallel()

	result, err := consistency.Check(expectation.MustDefault(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Count(consistency.KindNotSuperset))
}

func TestWarning_String(t *testing.T) {
	t.Parallel()

	w := consistency.Warning{Configuration: "tosa", Kind: consistency.KindStale, Test: "X"}
	assert.Equal(t, "tosa: stale X", w.String())

	w.Detail = "why"
	assert.Equal(t, "tosa: stale X (why)", w.String())
}
