package expectation

import (
	"embed"
	"sync"

	"github.com/specvital/xfail/pkg/domain"
)

//go:embed tables/*.yaml
var tablesFS embed.FS

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return LoadFS(tablesFS, "tables/*.yaml")
})

// Default returns the registry built from the embedded tables.
// It is loaded on first use and shared afterwards.
func Default() (*Registry, error) {
	return loadDefault()
}

// MustDefault is like Default but panics if the embedded tables are invalid.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Tables returns the embedded table files, rooted at "tables".
func Tables() embed.FS {
	return tablesFS
}

// IsExpectedFailure queries the default registry.
func IsExpectedFailure(config domain.ConfigurationName, testID string) (bool, error) {
	r, err := Default()
	if err != nil {
		return false, err
	}
	return r.IsExpectedFailure(config, testID)
}

// Union queries the default registry.
func Union(base domain.ConfigurationName, extra Set) (Set, error) {
	r, err := Default()
	if err != nil {
		return Set{}, err
	}
	return r.Union(base, extra)
}
