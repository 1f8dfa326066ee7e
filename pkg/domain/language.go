// Package domain defines the core types shared by the registry, the catalog
// enumerator and the result classifier.
package domain

// Language represents a programming language.
type Language string

// Supported languages for test suite enumeration.
const (
	LanguagePython Language = "python"
)
