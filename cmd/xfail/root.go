package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/specvital/xfail/pkg/expectation"
)

const envPrefix = "XFAIL"

// globalOptions is shared by every subcommand. Values are read through
// viper so flags, XFAIL_* environment variables and the config file all
// apply, in that order of precedence.
type globalOptions struct {
	v      *viper.Viper
	log    *logrus.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	opts := &globalOptions{v: v, log: log, stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "xfail",
		Short:         "Expected-failure registry for e2e test configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd.Flags())
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().String("config-file", "", "YAML file with default flag values")
	cmd.PersistentFlags().String("tables", "", "Directory of expectation tables overriding the built-in ones")
	cmd.PersistentFlags().String("log-level", logrus.InfoLevel.String(), "Log level (panic, fatal, error, warn, info, debug, trace)")

	cmd.AddCommand(
		newConfigsCommand(opts),
		newCheckCommand(opts),
		newListCommand(opts),
		newCatalogCommand(opts),
		newVerifyCommand(opts),
		newClassifyCommand(opts),
	)
	return cmd
}

func (o *globalOptions) init(flags *pflag.FlagSet) error {
	if err := o.v.BindPFlags(flags); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if path := o.v.GetString("config-file"); path != "" {
		o.v.SetConfigFile(path)
		if err := o.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	level, err := logrus.ParseLevel(o.v.GetString("log-level"))
	if err != nil {
		return err
	}
	o.log.SetLevel(level)
	return nil
}

func (o *globalOptions) registry() (*expectation.Registry, error) {
	dir := o.v.GetString("tables")
	if dir == "" {
		return expectation.Default()
	}
	o.log.WithField("dir", dir).Debug("loading expectation tables")
	return expectation.LoadDir(dir)
}

// colorEnabled resolves the --color flag. "auto" colors only terminals.
func (o *globalOptions) colorEnabled() (bool, error) {
	switch mode := o.v.GetString("color"); mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		f, ok := o.stdout.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid --color %q: want auto, always or never", mode)
	}
}
