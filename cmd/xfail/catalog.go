package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/specvital/xfail/pkg/catalog"
	"github.com/specvital/xfail/pkg/domain"
	"github.com/specvital/xfail/pkg/source"
)

func newCatalogCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog DIR",
		Short: "Enumerate the test cases registered in a Python e2e suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.scanSuite(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if opts.v.GetBool("json") {
				enc := json.NewEncoder(opts.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(cat)
			}
			for _, tc := range cat.Cases {
				fmt.Fprintln(opts.stdout, tc.Name)
			}
			return nil
		},
	}
	addScanFlags(cmd)
	cmd.Flags().Bool("json", false, "Print the catalog as JSON with source locations")
	return cmd
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("pattern", nil, "Doublestar patterns selecting suite files, relative to the suite root")
	cmd.Flags().StringSlice("exclude", nil, "Directory names to skip in addition to the defaults")
	cmd.Flags().Int("workers", catalog.DefaultWorkers, "Concurrent file parsers (0 uses GOMAXPROCS)")
	cmd.Flags().Duration("timeout", catalog.DefaultTimeout, "Maximum duration of the scan")
}

// scanSuite enumerates dir and logs non-fatal scan errors.
func (o *globalOptions) scanSuite(ctx context.Context, dir string) (*domain.Catalog, error) {
	src, err := source.NewLocalSource(dir)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	result, err := catalog.Scan(ctx, src,
		catalog.WithPatterns(o.v.GetStringSlice("pattern")),
		catalog.WithExcludePatterns(o.v.GetStringSlice("exclude")),
		catalog.WithWorkers(o.v.GetInt("workers")),
		catalog.WithTimeout(o.v.GetDuration("timeout")),
	)
	if err != nil {
		return nil, err
	}

	for _, scanErr := range result.Errors {
		o.log.WithFields(logrus.Fields{
			"phase": scanErr.Phase,
			"path":  scanErr.Path,
		}).WithError(scanErr.Err).Warn("scan problem")
	}
	o.log.WithFields(logrus.Fields{
		"root":     src.Root(),
		"files":    result.Stats.FilesScanned,
		"matched":  result.Stats.FilesMatched,
		"failed":   result.Stats.FilesFailed,
		"tests":    result.Catalog.Len(),
		"duration": result.Stats.Duration,
	}).Info("catalog enumerated")

	return result.Catalog, nil
}

func readCatalogList(path string) (*domain.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cat, err := catalog.ReadList(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return cat, nil
}
