package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specvital/xfail/pkg/domain"
	"github.com/specvital/xfail/pkg/report"
	"github.com/specvital/xfail/pkg/results"
)

func newClassifyCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify --config CONFIG --results FILE",
		Short: "Classify observed test outcomes against a configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := opts.v.GetString("config")
			path := opts.v.GetString("results")
			if config == "" || path == "" {
				return errors.New("--config and --results are required")
			}

			reg, err := opts.registry()
			if err != nil {
				return err
			}

			run, err := readResults(path, results.Format(opts.v.GetString("format")))
			if err != nil {
				return err
			}

			rep, err := report.Classify(reg, domain.ConfigurationName(config), run,
				report.WithStrict(opts.v.GetBool("strict")))
			if err != nil {
				return err
			}

			if err := opts.render(rep); err != nil {
				return err
			}

			if metrics := opts.v.GetString("metrics-file"); metrics != "" {
				if err := report.WriteMetrics(metrics, rep); err != nil {
					return err
				}
				opts.log.WithField("path", metrics).Debug("metrics written")
			}

			if opts.v.GetBool("suggest") {
				fmt.Fprintf(opts.stdout, "\nSuggested %s set for %s:\n", rep.Kind, rep.Configuration)
				for _, id := range rep.Suggest().Sorted() {
					fmt.Fprintf(opts.stdout, "  %s\n", id)
				}
			}

			opts.log.WithField("configuration", rep.Configuration).
				WithField("regressions", rep.Summary.Count(domain.VerdictRegression)).
				WithField("unexpectedFixes", rep.Summary.Count(domain.VerdictUnexpectedFix)).
				Info("classification finished")

			if !rep.OK() {
				return errReportFailed
			}
			return nil
		},
	}
	cmd.Flags().String("config", "", "Configuration to classify against")
	cmd.Flags().String("results", "", "Results file (JUnit XML or JSON)")
	cmd.Flags().String("format", "", "Results format: junit or json (default: from the file extension)")
	cmd.Flags().String("output", "text", "Output format: text or json")
	cmd.Flags().String("metrics-file", "", "Write Prometheus textfile metrics to this path")
	cmd.Flags().Bool("suggest", false, "Print the set that would make this run clean")
	cmd.Flags().Bool("strict", true, "Fail the run on tests that pass but are expected to fail")
	cmd.Flags().Bool("verbose", false, "List known issues and passes too")
	cmd.Flags().String("color", "auto", "Color output: auto, always or never")
	return cmd
}

func readResults(path string, format results.Format) (*results.Run, error) {
	if format == "" {
		detected, err := results.DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	run, err := results.Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("read results %s: %w", path, err)
	}
	return run, nil
}

func (o *globalOptions) render(rep *report.Report) error {
	switch output := o.v.GetString("output"); output {
	case "json":
		return report.WriteJSON(o.stdout, rep)
	case "text", "":
		color, err := o.colorEnabled()
		if err != nil {
			return err
		}
		return report.WriteText(o.stdout, rep, report.WithColor(color), report.WithVerbose(o.v.GetBool("verbose")))
	default:
		return fmt.Errorf("invalid --output %q: want text or json", output)
	}
}
