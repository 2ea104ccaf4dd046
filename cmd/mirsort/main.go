// Package main provides the mirsort command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/mirsort/internal/rank"
	"github.com/inodb/mirsort/internal/utr"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd(&app{logger: zap.NewNop()})
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// app carries state shared by all subcommands.
type app struct {
	cfgFile string
	verbose bool
	logger  *zap.Logger
}

// usageError marks errors caused by bad arguments or flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mirsort",
		Short: "Localize and rank microRNA target sites",
		Long: `mirsort filters predicted microRNA target sites to those inside annotated
3'UTRs, ranks the surviving targets of each microRNA by site quality, and
writes one tab-separated row per (microRNA, target) pair.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(a.cfgFile); err != nil {
				return err
			}
			logger, err := newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "Config file (default: ~/.mirsort.yaml)")
	pf.BoolVar(&a.verbose, "verbose", false, "Log skipped sites and other debug output")
	pf.Bool("skip-first", false, "Omit the first ranked target of every microRNA (legacy output)")
	pf.Bool("no-header", false, "Do not write the header line")
	pf.Int("min-utr-length", utr.DefaultMinLength, "Drop 3'UTR regions shorter than this")
	pf.String("db", "", "DuckDB file to store ranked results in")
	pf.String("metrics-file", "", "Write run statistics in Prometheus textfile format")

	viper.BindPFlag("output.skip_first", pf.Lookup("skip-first"))
	viper.BindPFlag("output.no_header", pf.Lookup("no-header"))
	viper.BindPFlag("utr.min_length", pf.Lookup("min-utr-length"))
	viper.BindPFlag("store.path", pf.Lookup("db"))
	viper.BindPFlag("metrics.file", pf.Lookup("metrics-file"))

	root.AddCommand(newMirandaCmd(a))
	root.AddCommand(newRNAfoldCmd(a))
	root.AddCommand(newLookupCmd(a))
	root.AddCommand(newRunsCmd(a))
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mirsort version %s (%s) built %s\n", version, commit, date)
		},
	}
}

func setDefaults() {
	viper.SetDefault("thresholds.score", rank.DefaultScoreThreshold)
	viper.SetDefault("thresholds.energy", rank.DefaultEnergyThreshold)
	viper.SetDefault("utr.min_length", utr.DefaultMinLength)
	viper.SetDefault("output.skip_first", false)
	viper.SetDefault("output.no_header", false)
	viper.SetDefault("store.path", "")
	viper.SetDefault("metrics.file", "")
}

// initConfig reads ~/.mirsort.yaml (or cfgFile) and MIRSORT_* environment
// variables. A missing default config file is not an error.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".mirsort")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MIRSORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
