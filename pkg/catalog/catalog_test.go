package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

// extractTxtar writes every file of a txtar archive below a fresh temp dir
// and returns the dir.
func extractTxtar(t *testing.T, archivePath string) string {
	t.Helper()

	archive, err := txtar.ParseFile(archivePath)
	if err != nil {
		t.Fatalf("parse %s: %v", archivePath, err)
	}

	dir := t.TempDir()
	for _, f := range archive.Files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			t.Fatalf("write %s: %v", f.Name, err)
		}
	}
	return dir
}
