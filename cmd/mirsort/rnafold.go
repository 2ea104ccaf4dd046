package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/mirsort/internal/fold"
	"github.com/inodb/mirsort/internal/predict"
	"github.com/inodb/mirsort/internal/rank"
)

func newRNAfoldCmd(a *app) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "rnafold <rnafold-output> <targets-csv> <utr-gff3>",
		Short: "Rank predicted sites by the RNAfold structure of their footprint",
		Long: `Rank target predictions by the secondary structure RNAfold computed for
each target transcript. The footprint of the first predicted range is scored
by its longest paired run, longest run of either kind, and paired/unpaired
ratio. Sites whose transcript has no fold, or whose range falls outside the
folded structure, are dropped.`,
		Example: `  mirsort rnafold transcripts.fold targets.csv transcripts.gff3
  mirsort rnafold -o ranked.tsv --db results.duckdb transcripts.fold.gz targets.csv transcripts.gff3`,
		Args: usageArgs(cobra.ExactArgs(3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			foldPath, csvPath, gffPath := args[0], args[1], args[2]

			folds, err := fold.NewLoader(foldPath).Load()
			if err != nil {
				return fmt.Errorf("loading RNAfold output: %w", err)
			}
			a.logger.Info("loaded RNAfold structures",
				zap.String("path", foldPath),
				zap.Int("records", folds.Len()))

			index, err := loadUTRIndex(gffPath, a.logger)
			if err != nil {
				return err
			}

			parser, err := predict.NewTargetCSVParser(csvPath)
			if err != nil {
				return fmt.Errorf("opening target predictions: %w", err)
			}

			p := &pipeline{
				eval:   rank.NewStructureEvaluator(folds),
				parser: parser,
				index:  index,
				inputs: []input{
					{role: "folds", path: foldPath},
					{role: "predictions", path: csvPath},
					{role: "annotation", path: gffPath},
				},
				outputPath: outputPath,
			}
			return p.execute(a.logger)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
