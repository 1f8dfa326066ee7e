package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ReadJSON decodes either an array of results or a {"results": [...]} object.
func ReadJSON(r io.Reader) (*Run, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	run := &Run{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &run.Results)
	} else {
		err = json.Unmarshal(trimmed, run)
	}
	if err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	for i, res := range run.Results {
		if res.Name == "" {
			return nil, fmt.Errorf("%w at entry %d", ErrMissingName, i)
		}
		if !res.Outcome.IsValid() {
			return nil, fmt.Errorf("%w %q for %s", ErrInvalidOutcome, res.Outcome, res.Name)
		}
	}
	if run.Results == nil {
		run.Results = []Result{}
	}
	return run, nil
}
