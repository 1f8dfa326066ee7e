// Package tspool provides tree-sitter parsers for concurrent parsing.
//
// Parsers are not pooled: a parser whose ParseCtx was cancelled keeps its
// internal cancel flag set and fails every later parse with "operation limit
// was hit", so each parse gets a fresh parser.
//
// Thread-safety: Parsers returned by Get are NOT safe for concurrent use.
// Each goroutine must Get its own parser or use the Parse helper.
package tspool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/specvital/xfail/pkg/domain"
)

// ErrUnsupportedLanguage is returned for languages without a grammar.
var ErrUnsupportedLanguage = errors.New("tspool: unsupported language")

var (
	pyLang *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		pyLang = python.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter language for the given domain language,
// or nil if the language is not supported.
func GetLanguage(lang domain.Language) *sitter.Language {
	initLanguages()
	switch lang {
	case domain.LanguagePython:
		return pyLang
	default:
		return nil
	}
}

// Get returns a parser for the given language.
// The returned parser is NOT safe for concurrent use.
// Caller MUST call parser.Close() when done to free resources.
func Get(lang domain.Language) (*sitter.Parser, error) {
	sitterLang := GetLanguage(lang)
	if sitterLang == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(sitterLang)
	return parser, nil
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	parser, err := Get(lang)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", lang, err)
	}

	return tree, nil
}
