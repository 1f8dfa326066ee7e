package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/specvital/xfail/pkg/domain"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiFaint  = "\x1b[2m"
)

var verdictColor = map[domain.Verdict]string{
	domain.VerdictRegression:    ansiRed,
	domain.VerdictUnexpectedFix: ansiYellow,
	domain.VerdictKnownIssue:    ansiFaint,
	domain.VerdictPass:          ansiGreen,
}

// RenderOption configures WriteText.
type RenderOption func(*renderOptions)

type renderOptions struct {
	color   bool
	verbose bool
}

// WithColor enables ANSI colors.
func WithColor(color bool) RenderOption {
	return func(o *renderOptions) {
		o.color = color
	}
}

// WithVerbose lists known issues and passes too, not only the entries that
// need attention.
func WithVerbose(verbose bool) RenderOption {
	return func(o *renderOptions) {
		o.verbose = verbose
	}
}

// WriteText renders rep as human-readable text grouped by verdict.
func WriteText(w io.Writer, rep *Report, opts ...RenderOption) error {
	o := &renderOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Configuration %s (%s): %d tests", rep.Configuration, rep.Kind, rep.Summary.Total)
	for _, v := range domain.Verdicts {
		fmt.Fprintf(&b, ", %d %s", rep.Summary.Count(v), v)
	}
	if rep.Summary.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", rep.Summary.Skipped)
	}
	b.WriteString(".\n")
	if rep.Summary.Duplicates > 0 {
		fmt.Fprintf(&b, "%d duplicate results were ignored in favor of the last occurrence.\n", rep.Summary.Duplicates)
	}

	for _, v := range domain.Verdicts {
		if !o.verbose && (v == domain.VerdictPass || v == domain.VerdictKnownIssue) {
			continue
		}
		entries := rep.Filter(v)
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%d):\n", paint(o.color, v, strings.ToUpper(string(v))), len(entries))
		for _, e := range entries {
			fmt.Fprintf(&b, "  %s", e.Name)
			if e.Message != "" && v == domain.VerdictRegression {
				fmt.Fprintf(&b, ": %s", firstLine(e.Message))
			}
			b.WriteByte('\n')
		}
	}

	status := "OK"
	if !rep.OK() {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "\n%s\n", status)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON renders rep as indented JSON.
func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*Report
		OK bool `json:"ok"`
	}{Report: rep, OK: rep.OK()})
}

func paint(color bool, v domain.Verdict, text string) string {
	if !color {
		return text
	}
	return verdictColor[v] + text + ansiReset
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}
