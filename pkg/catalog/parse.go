package catalog

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/xfail/pkg/catalog/pyast"
	"github.com/specvital/xfail/pkg/catalog/tspool"
	"github.com/specvital/xfail/pkg/domain"
)

// decoratedQuery matches decorated definitions at any nesting level.
const decoratedQuery = `(decorated_definition) @test`

// ParseSource extracts registered test cases from one Python file.
// A test case is a function decorated with one of decorators (matched on the
// last dotted segment of the decorator name).
func ParseSource(ctx context.Context, source []byte, path string, decorators []string) ([]domain.TestCase, error) {
	tree, err := tspool.Parse(ctx, domain.LanguagePython, source)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	wanted := make(map[string]bool, len(decorators))
	for _, d := range decorators {
		wanted[pyast.LastSegment(d)] = true
	}

	matches, err := tspool.QueryWithCache(tree.RootNode(), domain.LanguagePython, decoratedQuery)
	if err != nil {
		return nil, fmt.Errorf("catalog: query %s: %w", path, err)
	}

	var cases []domain.TestCase
	for _, m := range matches {
		node := m.Captures["test"]
		if node == nil {
			continue
		}
		fn := pyast.GetDecoratedDefinition(node)
		if fn == nil || fn.Type() != pyast.NodeFunctionDefinition || !hasDecorator(node, source, wanted) {
			continue
		}
		name := pyast.FunctionName(fn, source)
		if name == "" {
			continue
		}
		cases = append(cases, domain.TestCase{
			Language: domain.LanguagePython,
			Location: domain.Location{File: path, Line: int(fn.StartPoint().Row) + 1},
			Name:     name,
		})
	}

	return cases, nil
}

func hasDecorator(node *sitter.Node, source []byte, wanted map[string]bool) bool {
	for _, d := range pyast.GetDecorators(node) {
		if wanted[pyast.LastSegment(pyast.DecoratorName(d, source))] {
			return true
		}
	}
	return false
}
