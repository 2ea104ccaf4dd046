package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/mirsort/internal/predict"
	"github.com/inodb/mirsort/internal/rank"
)

func newMirandaCmd(a *app) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "miranda <miranda-output> <utr-gff3>",
		Short: "Rank miranda predictions by score",
		Long: `Rank miranda target predictions. Sites below the score threshold or with
an absolute energy above the energy threshold are dropped, as are sites
outside the target's annotated 3'UTR.`,
		Example: `  mirsort miranda hits.miranda transcripts.gff3
  mirsort miranda -s 140 -e 25 -o ranked.tsv hits.miranda.gz transcripts.gff3.gz
  cat hits.miranda | mirsort miranda - transcripts.gff3`,
		Args: usageArgs(cobra.ExactArgs(2)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("thresholds.score", cmd.Flags().Lookup("score")); err != nil {
				return err
			}
			return viper.BindPFlag("thresholds.energy", cmd.Flags().Lookup("energy"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mirandaPath, gffPath := args[0], args[1]

			index, err := loadUTRIndex(gffPath, a.logger)
			if err != nil {
				return err
			}

			parser, err := predict.NewMirandaParser(mirandaPath)
			if err != nil {
				return fmt.Errorf("opening miranda output: %w", err)
			}

			eval := rank.NewThresholdEvaluator()
			eval.ScoreThreshold = viper.GetFloat64("thresholds.score")
			eval.EnergyThreshold = viper.GetFloat64("thresholds.energy")

			p := &pipeline{
				eval:   eval,
				parser: parser,
				index:  index,
				inputs: []input{
					{role: "predictions", path: mirandaPath},
					{role: "annotation", path: gffPath},
				},
				outputPath: outputPath,
			}
			return p.execute(a.logger)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Float64P("score", "s", rank.DefaultScoreThreshold, "Minimum miranda score")
	cmd.Flags().Float64P("energy", "e", rank.DefaultEnergyThreshold, "Maximum absolute miranda energy")

	return cmd
}
