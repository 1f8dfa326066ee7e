package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specvital/xfail/pkg/domain"
)

// ErrEmptyName is returned when a catalog list contains an entry without a name.
var ErrEmptyName = errors.New("catalog: empty test name")

type listEntry struct {
	Name     string          `json:"name"`
	Location domain.Location `json:"location"`
}

// ReadList reads a catalog from r. Two formats are accepted:
//   - a JSON array of strings or of objects with a "name" field
//     (as produced by "xfail catalog --json" or a runner's test listing)
//   - plain text, one identifier per line; blank lines and lines
//     starting with '#' are ignored
func ReadList(r io.Reader) (*domain.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog list: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return readJSONList(trimmed)
	}
	return readTextList(data)
}

func readJSONList(data []byte) (*domain.Catalog, error) {
	var raw []json.RawMessage
	if data[0] == '{' {
		var wrapped struct {
			Cases []json.RawMessage `json:"cases"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode catalog list: %w", err)
		}
		raw = wrapped.Cases
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog list: %w", err)
	}

	cases := make([]domain.TestCase, 0, len(raw))
	for i, item := range raw {
		var entry listEntry
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			entry.Name = name
		} else if err := json.Unmarshal(item, &entry); err != nil {
			return nil, fmt.Errorf("decode catalog entry %d: %w", i, err)
		}
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("%w at entry %d", ErrEmptyName, i)
		}
		cases = append(cases, domain.TestCase{Name: entry.Name, Location: entry.Location})
	}
	return domain.NewCatalog("", cases), nil
}

func readTextList(data []byte) (*domain.Catalog, error) {
	var cases []domain.TestCase
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cases = append(cases, domain.TestCase{Name: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read catalog list: %w", err)
	}
	return domain.NewCatalog("", cases), nil
}
