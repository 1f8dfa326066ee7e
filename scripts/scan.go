//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/specvital/xfail/pkg/catalog"
	"github.com/specvital/xfail/pkg/consistency"
	"github.com/specvital/xfail/pkg/expectation"
	"github.com/specvital/xfail/pkg/source"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/scan.go <suite-path>\n")
		os.Exit(1)
	}

	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	src, err := source.NewLocalSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "source error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	result, err := catalog.Scan(ctx, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan error: %v\n", err)
		os.Exit(1)
	}

	check, err := consistency.Check(expectation.MustDefault(), result.Catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check error: %v\n", err)
		os.Exit(1)
	}

	output := map[string]interface{}{
		"filesScanned": result.Stats.FilesScanned,
		"filesMatched": result.Stats.FilesMatched,
		"filesFailed":  result.Stats.FilesFailed,
		"duplicates":   result.Stats.Duplicates,
		"testCount":    result.Catalog.Len(),
		"duration":     result.Stats.Duration.String(),
		"stale":        countStale(check),
	}
	json.NewEncoder(os.Stdout).Encode(output)
}

func countStale(check *consistency.Result) map[string]int {
	counts := make(map[string]int)
	for _, w := range check.Warnings {
		if w.Kind == consistency.KindStale {
			counts[string(w.Configuration)]++
		}
	}
	return counts
}
