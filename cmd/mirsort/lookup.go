package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/mirsort/internal/duckdb"
)

var errNoStore = errors.New("no result store configured; pass --db or set store.path")

func openConfiguredStore() (*duckdb.Store, error) {
	path := viper.GetString("store.path")
	if path == "" {
		return nil, &usageError{err: errNoStore}
	}
	store, err := duckdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening result store: %w", err)
	}
	return store, nil
}

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "lookup <mirna>",
		Short:   "Show stored rankings for a microRNA",
		Example: `  mirsort lookup --db results.duckdb miR-1`,
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore()
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.LookupMicroRNA(args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no stored rankings for %q", args[0])
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			w.WriteString("#Run\tMethod\tMicroRNA\tRank\tTarget\tCoordinates\tEnergy\tScore\tMax_Paired_Run\tMax_Any_Run\tPaired_Unpaired_Ratio\n")
			for _, r := range rows {
				w.WriteString(strings.Join([]string{
					r.RunID,
					r.Method,
					r.MicroRNA,
					strconv.FormatInt(r.Rank, 10),
					r.Target,
					r.Coordinates,
					formatFloat(r.Energy),
					formatFloat(r.Score),
					strconv.FormatInt(r.MaxPairedRun, 10),
					strconv.FormatInt(r.MaxAnyRun, 10),
					formatFloat(r.Ratio),
				}, "\t"))
				w.WriteByte('\n')
			}
			return w.Flush()
		},
	}
}

func newRunsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs()
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			w.WriteString("#Run\tMethod\tCreated\tRead\tAccepted\tSkipped\tMicroRNAs\n")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
					r.ID, r.Method, r.CreatedAt.Format(time.RFC3339),
					r.Read, r.Accepted, r.Skipped, r.MicroRNAs)
			}
			return w.Flush()
		},
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
