// Package pyast provides Python AST traversal utilities for test suite enumeration.
package pyast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Python AST node types.
const (
	NodeAttribute           = "attribute"
	NodeCall                = "call"
	NodeClassDefinition     = "class_definition"
	NodeDecorator           = "decorator"
	NodeDecoratedDefinition = "decorated_definition"
	NodeFunctionDefinition  = "function_definition"
	NodeIdentifier          = "identifier"
)

// GetDecoratedDefinition extracts the actual definition from a decorated_definition node.
func GetDecoratedDefinition(node *sitter.Node) *sitter.Node {
	definition := node.ChildByFieldName("definition")
	if definition != nil {
		return definition
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeFunctionDefinition || child.Type() == NodeClassDefinition {
			return child
		}
	}
	return nil
}

// GetDecorators extracts all decorator nodes from a decorated_definition.
func GetDecorators(node *sitter.Node) []*sitter.Node {
	var decorators []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeDecorator {
			decorators = append(decorators, child)
		}
	}
	return decorators
}

// DecoratorName returns the dotted name a decorator refers to, with call
// arguments stripped: "@a.b(x=1)" yields "a.b". Returns "" for decorators
// that are not names, attributes or calls on them.
func DecoratorName(decorator *sitter.Node, source []byte) string {
	for i := 0; i < int(decorator.NamedChildCount()); i++ {
		expr := decorator.NamedChild(i)
		if expr.Type() == NodeCall {
			expr = expr.ChildByFieldName("function")
			if expr == nil {
				return ""
			}
		}
		switch expr.Type() {
		case NodeIdentifier, NodeAttribute:
			return strings.Join(strings.Fields(expr.Content(source)), "")
		}
	}
	return ""
}

// LastSegment returns the part of a dotted name after the final dot.
func LastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// FunctionName returns the name of a function_definition node.
func FunctionName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return nameNode.Content(source)
}
