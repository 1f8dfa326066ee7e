package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/specvital/xfail/pkg/catalog"
)

func TestReadList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain text with comments",
			input: "# generated\nMmModule_basic\n\n  BmmModule_basic  \nMmModule_basic\n",
			want:  []string{"BmmModule_basic", "MmModule_basic"},
		},
		{
			name:  "json strings",
			input: `["b", "a"]`,
			want:  []string{"a", "b"},
		},
		{
			name:  "json objects",
			input: `[{"name": "x", "location": {"file": "f.py", "line": 3}}, {"name": "w"}]`,
			want:  []string{"w", "x"},
		},
		{
			name:  "catalog document",
			input: `{"cases": [{"name": "c"}], "rootPath": "/suite"}`,
			want:  []string{"c"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := catalog.ReadList(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadList: %v", err)
			}
			if diff := cmp.Diff(tt.want, c.Names()); diff != "" {
				t.Errorf("Names() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadList_Errors(t *testing.T) {
	t.Parallel()

	if _, err := catalog.ReadList(strings.NewReader(`[{"name": ""}]`)); !errors.Is(err, catalog.ErrEmptyName) {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
	if _, err := catalog.ReadList(strings.NewReader(`[1, 2]`)); err == nil {
		t.Error("expected error for numeric entries")
	}
	if _, err := catalog.ReadList(strings.NewReader(`[`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}
