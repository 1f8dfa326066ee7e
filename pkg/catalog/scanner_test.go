package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/specvital/xfail/pkg/catalog"
	"github.com/specvital/xfail/pkg/domain"
	"github.com/specvital/xfail/pkg/source"
)

func newSource(t *testing.T, dir string) source.Source {
	t.Helper()

	src, err := source.NewLocalSource(dir)
	if err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("should return empty catalog for empty directory", func(t *testing.T) {
		t.Parallel()

		result, err := catalog.Scan(context.Background(), newSource(t, t.TempDir()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Catalog == nil {
			t.Fatal("catalog should not be nil")
		}
		if result.Catalog.Len() != 0 {
			t.Errorf("expected 0 cases, got %d", result.Catalog.Len())
		}
	})

	t.Run("should enumerate registered test cases", func(t *testing.T) {
		t.Parallel()

		// Given
		dir := extractTxtar(t, "testdata/suite.txtar")

		// When
		result, err := catalog.Scan(context.Background(), newSource(t, dir), catalog.WithWorkers(2))

		// Then
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"ElementwiseReluModule_basic", "MmModule_basic", "MmModule_chained"}
		if diff := cmp.Diff(want, result.Catalog.Names()); diff != "" {
			t.Errorf("Names() mismatch (-want +got):\n%s", diff)
		}

		relu, _ := result.Catalog.Find("ElementwiseReluModule_basic")
		wantLoc := domain.Location{File: "test_suite/elementwise.py", Line: 13}
		if relu.Location != wantLoc {
			t.Errorf("Location = %+v, want %+v", relu.Location, wantLoc)
		}

		if result.Stats.FilesScanned != 3 {
			t.Errorf("FilesScanned = %d, want 3", result.Stats.FilesScanned)
		}
		if result.Stats.FilesMatched != 2 {
			t.Errorf("FilesMatched = %d, want 2", result.Stats.FilesMatched)
		}
	})

	t.Run("should report duplicates and keep first in path order", func(t *testing.T) {
		t.Parallel()

		dir := extractTxtar(t, "testdata/suite.txtar")
		result, err := catalog.Scan(context.Background(), newSource(t, dir))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Stats.Duplicates != 1 {
			t.Fatalf("Duplicates = %d, want 1", result.Stats.Duplicates)
		}
		mm, _ := result.Catalog.Find("MmModule_basic")
		if mm.Location.File != "test_suite/elementwise.py" {
			t.Errorf("kept %s, want first file in path order", mm.Location.File)
		}

		var found bool
		for _, e := range result.Errors {
			if e.Phase == catalog.PhaseCatalog && errors.Is(e, catalog.ErrDuplicateTestCase) {
				found = true
				if e.Path != "test_suite/matmul.py" {
					t.Errorf("duplicate reported at %s, want test_suite/matmul.py", e.Path)
				}
			}
		}
		if !found {
			t.Error("expected a catalog-phase duplicate error")
		}
	})

	t.Run("should respect patterns", func(t *testing.T) {
		t.Parallel()

		dir := extractTxtar(t, "testdata/suite.txtar")
		result, err := catalog.Scan(context.Background(), newSource(t, dir),
			catalog.WithPatterns([]string{"**/matmul.py"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"MmModule_basic", "MmModule_chained"}
		if diff := cmp.Diff(want, result.Catalog.Names()); diff != "" {
			t.Errorf("Names() mismatch (-want +got):\n%s", diff)
		}
		if result.Stats.Duplicates != 0 {
			t.Errorf("Duplicates = %d, want 0", result.Stats.Duplicates)
		}
	})

	t.Run("should respect exclude patterns", func(t *testing.T) {
		t.Parallel()

		dir := extractTxtar(t, "testdata/suite.txtar")
		result, err := catalog.Scan(context.Background(), newSource(t, dir),
			catalog.WithExcludePatterns([]string{"test_suite"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Catalog.Len() != 0 {
			t.Errorf("expected 0 cases, got %d", result.Catalog.Len())
		}
	})

	t.Run("should skip files over max size", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		content := "@register_test_case(module_factory=lambda: M())\ndef Big_basic(module, tu):\n    pass\n" +
			"# " + strings.Repeat("x", 200) + "\n"
		if err := os.WriteFile(filepath.Join(dir, "big.py"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		result, err := catalog.Scan(context.Background(), newSource(t, dir), catalog.WithMaxFileSize(100))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Stats.FilesScanned != 0 {
			t.Errorf("FilesScanned = %d, want 0", result.Stats.FilesScanned)
		}
	})

	t.Run("should honor custom decorators", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		content := "@case\ndef Custom_basic(module, tu):\n    pass\n"
		if err := os.WriteFile(filepath.Join(dir, "custom.py"), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		result, err := catalog.Scan(context.Background(), newSource(t, dir), catalog.WithDecorators("case"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Catalog.Contains("Custom_basic") {
			t.Errorf("Names() = %v, want Custom_basic", result.Catalog.Names())
		}
	})
}

func TestScan_Cancellation(t *testing.T) {
	t.Parallel()

	dir := extractTxtar(t, "testdata/suite.txtar")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := catalog.Scan(ctx, newSource(t, dir))
	if !errors.Is(err, catalog.ErrScanCancelled) {
		t.Errorf("err = %v, want ErrScanCancelled", err)
	}
	if result == nil {
		t.Fatal("partial result should be returned")
	}
}

func TestScan_Timeout(t *testing.T) {
	t.Parallel()

	dir := extractTxtar(t, "testdata/suite.txtar")
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := catalog.Scan(ctx, newSource(t, dir))
	if !errors.Is(err, catalog.ErrScanTimeout) {
		t.Errorf("err = %v, want ErrScanTimeout", err)
	}
}

func TestScanFiles(t *testing.T) {
	t.Parallel()

	dir := extractTxtar(t, "testdata/suite.txtar")
	scanner := catalog.NewScanner()

	result, err := scanner.ScanFiles(context.Background(), newSource(t, dir),
		[]string{"test_suite/matmul.py", "test_suite/missing.py"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Catalog.Len() != 2 {
		t.Errorf("Len() = %d, want 2", result.Catalog.Len())
	}
	if result.Stats.FilesFailed != 1 {
		t.Errorf("FilesFailed = %d, want 1", result.Stats.FilesFailed)
	}
	if len(result.Errors) != 1 || result.Errors[0].Phase != catalog.PhaseParsing {
		t.Errorf("Errors = %v, want one parsing error", result.Errors)
	}
}

func TestScanError(t *testing.T) {
	t.Parallel()

	withPath := catalog.ScanError{Err: errors.New("boom"), Path: "a.py", Phase: catalog.PhaseParsing}
	if got := withPath.Error(); got != "[parsing] a.py: boom" {
		t.Errorf("Error() = %q", got)
	}

	noPath := catalog.ScanError{Err: errors.New("boom"), Phase: catalog.PhaseDiscovery}
	if got := noPath.Error(); got != "[discovery] boom" {
		t.Errorf("Error() = %q", got)
	}
}
