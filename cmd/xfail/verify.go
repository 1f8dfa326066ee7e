package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specvital/xfail/pkg/consistency"
	"github.com/specvital/xfail/pkg/domain"
)

func newVerifyCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [CONFIG...]",
		Short: "Cross-check expectation tables against a test catalog",
		Long: `Cross-check expectation tables against a test catalog.

Without --suite or --catalog only the tables themselves are checked for
duplicate and redundant entries. With a catalog, entries naming tests that
no longer exist are reported as stale.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			suite, list := opts.v.GetString("suite"), opts.v.GetString("catalog")
			var cat *domain.Catalog
			switch {
			case suite != "" && list != "":
				return errors.New("--suite and --catalog are mutually exclusive")
			case suite != "":
				cat, err = opts.scanSuite(cmd.Context(), suite)
			case list != "":
				cat, err = readCatalogList(list)
			}
			if err != nil {
				return err
			}

			var checkOpts []consistency.Option
			if len(args) > 0 {
				names := make([]domain.ConfigurationName, len(args))
				for i, arg := range args {
					names[i] = domain.ConfigurationName(arg)
				}
				checkOpts = append(checkOpts, consistency.WithConfigurations(names...))
			}

			res, err := consistency.Check(reg, cat, checkOpts...)
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				fmt.Fprintln(opts.stdout, w.String())
			}
			opts.log.WithField("configurations", len(res.Checked)).
				WithField("warnings", len(res.Warnings)).
				Info("consistency check finished")

			if !res.OK() && opts.v.GetBool("fail-on-warning") {
				return errWarnings
			}
			return nil
		},
	}
	addScanFlags(cmd)
	cmd.Flags().String("suite", "", "Python e2e suite directory to enumerate")
	cmd.Flags().String("catalog", "", "Catalog list file (JSON or one name per line)")
	cmd.Flags().Bool("fail-on-warning", false, "Exit non-zero when any warning is found")
	return cmd
}
