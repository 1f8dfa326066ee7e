package results

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specvital/xfail/pkg/domain"
)

type junitSuites struct {
	Suites []*junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name      string        `xml:"name,attr"`
	TestCases []*junitCase  `xml:"testcase"`
	Children  []*junitSuite `xml:"testsuite"`
}

type junitCase struct {
	Name          string        `xml:"name,attr"`
	FailureOutput *junitMessage `xml:"failure"`
	ErrorOutput   *junitMessage `xml:"error"`
	SkipMessage   *junitMessage `xml:"skipped"`
}

type junitMessage struct {
	Message string `xml:"message,attr"`
	Output  string `xml:",chardata"`
}

func (m *junitMessage) text() string {
	if m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(m.Output)
}

// ReadJUnit decodes a JUnit XML report rooted at <testsuites> or <testsuite>.
// Nested suites are flattened.
func ReadJUnit(r io.Reader) (*Run, error) {
	dec := xml.NewDecoder(r)

	var root xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("decode junit: no root element")
			}
			return nil, fmt.Errorf("decode junit: %w", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			root = se
			break
		}
	}

	var suites []*junitSuite
	switch root.Name.Local {
	case "testsuites":
		var ts junitSuites
		if err := dec.DecodeElement(&ts, &root); err != nil {
			return nil, fmt.Errorf("decode junit: %w", err)
		}
		suites = ts.Suites
	case "testsuite":
		var s junitSuite
		if err := dec.DecodeElement(&s, &root); err != nil {
			return nil, fmt.Errorf("decode junit: %w", err)
		}
		suites = []*junitSuite{&s}
	default:
		return nil, fmt.Errorf("decode junit: unexpected root element <%s>", root.Name.Local)
	}

	run := &Run{Results: []Result{}}
	for _, s := range suites {
		if err := collectSuite(s, run); err != nil {
			return nil, err
		}
	}
	return run, nil
}

func collectSuite(s *junitSuite, run *Run) error {
	for _, tc := range s.TestCases {
		if tc.Name == "" {
			return fmt.Errorf("%w in suite %q", ErrMissingName, s.Name)
		}
		switch {
		case tc.SkipMessage != nil:
			run.Skipped++
		case tc.ErrorOutput != nil:
			run.Results = append(run.Results, Result{Name: tc.Name, Outcome: domain.OutcomeError, Message: tc.ErrorOutput.text()})
		case tc.FailureOutput != nil:
			run.Results = append(run.Results, Result{Name: tc.Name, Outcome: domain.OutcomeFail, Message: tc.FailureOutput.text()})
		default:
			run.Results = append(run.Results, Result{Name: tc.Name, Outcome: domain.OutcomePass})
		}
	}
	for _, child := range s.Children {
		if err := collectSuite(child, run); err != nil {
			return err
		}
	}
	return nil
}
