package domain

import "sort"

// Location represents a position in a source file.
type Location struct {
	// File is the path relative to the catalog root.
	File string `json:"file"`
	// Line is the 1-based line of the test function definition.
	Line int `json:"line"`
}

// TestCase is one enumerated test in a catalog.
type TestCase struct {
	// Language is the language of the file the test was found in.
	Language Language `json:"language,omitempty"`
	// Location is where the test is defined. Zero for list-loaded catalogs.
	Location Location `json:"location"`
	// Name is the test identifier, the join key with expectation tables.
	Name string `json:"name"`
}

// Catalog represents the full set of test cases of a test suite.
type Catalog struct {
	// Cases contains the test cases sorted by name.
	Cases []TestCase `json:"cases"`
	// RootPath is the root directory of the enumerated suite, if any.
	RootPath string `json:"rootPath,omitempty"`

	index map[string]int
}

// NewCatalog builds a catalog from cases. Cases are sorted by name;
// for duplicate names the first one wins.
func NewCatalog(rootPath string, cases []TestCase) *Catalog {
	c := &Catalog{RootPath: rootPath, index: make(map[string]int, len(cases))}
	sorted := make([]TestCase, 0, len(cases))
	for _, tc := range cases {
		if _, dup := c.index[tc.Name]; dup {
			continue
		}
		c.index[tc.Name] = -1
		sorted = append(sorted, tc)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	for i, tc := range sorted {
		c.index[tc.Name] = i
	}
	c.Cases = sorted
	return c
}

// Contains reports whether name is in the catalog.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

// Find returns the test case with the given name.
func (c *Catalog) Find(name string) (TestCase, bool) {
	i, ok := c.lookup(name)
	if !ok {
		return TestCase{}, false
	}
	return c.Cases[i], true
}

// Names returns all test identifiers in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Cases))
	for i, tc := range c.Cases {
		names[i] = tc.Name
	}
	return names
}

// Len returns the number of test cases.
func (c *Catalog) Len() int {
	return len(c.Cases)
}

func (c *Catalog) lookup(name string) (int, bool) {
	if c.index != nil {
		i, ok := c.index[name]
		return i, ok
	}
	// Catalogs built as struct literals or decoded from JSON carry no index.
	for i, tc := range c.Cases {
		if tc.Name == name {
			return i, true
		}
	}
	return 0, false
}
