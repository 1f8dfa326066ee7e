package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/specvital/xfail/pkg/domain"
)

func newConfigsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "configs",
		Short: "List the registered configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(opts.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tBASE\tTESTS")
			for _, exp := range reg.Expectations() {
				base := string(exp.Base)
				if base == "" {
					base = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", exp.Name, exp.Kind, base, exp.Tests.Len())
			}
			return tw.Flush()
		},
	}
}

func newCheckCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check CONFIG TEST...",
		Short: "Report whether tests are expected to fail under a configuration",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			config := domain.ConfigurationName(args[0])
			for _, test := range args[1:] {
				fail, err := reg.IsExpectedFailure(config, test)
				if err != nil {
					return err
				}
				verdict := "expected-pass"
				if fail {
					verdict = "expected-fail"
				}
				fmt.Fprintf(opts.stdout, "%s\t%s\n", test, verdict)
			}
			return nil
		},
	}
}

func newListCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list CONFIG",
		Short: "Print the identifiers of a configuration's set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}
			exp, err := reg.Lookup(domain.ConfigurationName(args[0]))
			if err != nil {
				return err
			}

			set := exp.Tests
			if opts.v.GetBool("own") {
				set = exp.Own
			}
			for _, id := range set.Sorted() {
				fmt.Fprintln(opts.stdout, id)
			}
			return nil
		},
	}
	cmd.Flags().Bool("own", false, "Print only the entries declared by the configuration's own table, without its base")
	return cmd
}
