package expectation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/specvital/xfail/pkg/domain"
)

// DefaultPattern matches every table file below the root of a table FS.
const DefaultPattern = "**/*.yaml"

var (
	// ErrNoTables is returned when a pattern matches no table file.
	ErrNoTables = errors.New("expectation: no table files found")
	// ErrMultipleDocuments is returned for table files holding more than one
	// YAML document.
	ErrMultipleDocuments = errors.New("expectation: table holds more than one document")
)

type tableFile struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Base        string   `yaml:"base,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Tests       []string `yaml:"tests"`
}

// ParseTable decodes one YAML table. Comments are documentation only; a
// file must hold exactly one document.
func ParseTable(data []byte) (Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var tf tableFile
	if err := dec.Decode(&tf); err != nil {
		if errors.Is(err, io.EOF) {
			return Definition{}, ErrMissingName
		}
		return Definition{}, fmt.Errorf("decode table: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return Definition{}, fmt.Errorf("decode table: %w", err)
		}
		return Definition{}, fmt.Errorf("%w: %s", ErrMultipleDocuments, tf.Name)
	}
	if tf.Name == "" {
		return Definition{}, ErrMissingName
	}

	kind := domain.ExpectationKind(tf.Kind)
	if !kind.IsValid() {
		return Definition{}, fmt.Errorf("%w %q for %s", ErrInvalidKind, tf.Kind, tf.Name)
	}

	return Definition{
		Name:        domain.ConfigurationName(tf.Name),
		Kind:        kind,
		Base:        domain.ConfigurationName(tf.Base),
		Description: tf.Description,
		Tests:       tf.Tests,
	}, nil
}

// LoadFS reads all tables matching the doublestar pattern in fsys and
// builds a registry from them.
func LoadFS(fsys fs.FS, pattern string) (*Registry, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	paths, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob tables %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTables, pattern)
	}
	sort.Strings(paths)

	defs := make([]Definition, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read table %s: %w", path, err)
		}
		def, err := ParseTable(data)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", path, err)
		}
		defs = append(defs, def)
	}

	return NewRegistry(defs...)
}

// LoadDir loads every *.yaml table below dir.
func LoadDir(dir string) (*Registry, error) {
	return LoadFS(os.DirFS(dir), DefaultPattern)
}
