package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/mirsort/internal/duckdb"
	"github.com/inodb/mirsort/internal/metrics"
	"github.com/inodb/mirsort/internal/output"
	"github.com/inodb/mirsort/internal/predict"
	"github.com/inodb/mirsort/internal/rank"
	"github.com/inodb/mirsort/internal/utr"
)

// input is one file read by a run.
type input struct {
	role string
	path string
}

// pipeline describes one engine run from the CLI.
type pipeline struct {
	eval       rank.Evaluator
	parser     predict.SiteParser
	index      *utr.Index
	inputs     []input
	outputPath string
}

// loadUTRIndex loads the 3'UTR annotation using the configured minimum length.
func loadUTRIndex(path string, logger *zap.Logger) (*utr.Index, error) {
	loader := utr.NewLoader(path)
	loader.SetMinLength(viper.GetInt("utr.min_length"))

	index, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading 3'UTR annotation: %w", err)
	}

	logger.Info("loaded 3'UTR annotation",
		zap.String("path", path),
		zap.Int("transcripts", index.Len()),
		zap.Int("dropped_short", index.Dropped()))
	if index.Regrouped() > 0 {
		logger.Warn("annotation is not grouped by transcript; later runs replace earlier ones",
			zap.Int("regrouped", index.Regrouped()))
	}
	return index, nil
}

// openOutput returns stdout for an empty path, otherwise a created file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// execute runs the engine and writes the ranked targets to the tab output,
// plus the DuckDB store and metrics file when configured.
func (p *pipeline) execute(logger *zap.Logger) (err error) {
	defer p.parser.Close()

	out, err := openOutput(p.outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
	}()

	tab := output.NewTabWriter(out, p.eval.Columns())
	tab.SetSkipFirst(viper.GetBool("output.skip_first"))
	if !viper.GetBool("output.no_header") {
		if err := tab.WriteHeader(); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	var writer rank.ResultWriter = tab
	var store *duckdb.Store
	runID := duckdb.NewRunID()
	if dbPath := viper.GetString("store.path"); dbPath != "" {
		store, err = duckdb.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening result store: %w", err)
		}
		defer store.Close()
		writer = output.NewMultiWriter(tab, store.NewRunWriter(runID, p.eval.Name()))
		logger.Info("storing results", zap.String("db", dbPath), zap.String("run_id", runID))
	}

	engine := rank.NewEngine(p.index, p.eval)
	engine.SetLogger(logger)

	stats, err := engine.Run(p.parser, writer)
	if err != nil {
		return err
	}
	logStats(logger, p.eval.Name(), stats)

	if store != nil {
		if err := store.RecordRun(runID, p.eval.Name(), stats); err != nil {
			return err
		}
		if err := store.RecordInputs(runID, fingerprints(p.inputs, logger)); err != nil {
			return err
		}
	}

	if path := viper.GetString("metrics.file"); path != "" {
		if err := metrics.WriteTextfile(path, p.eval.Name(), stats); err != nil {
			return err
		}
	}
	return nil
}

func fingerprints(inputs []input, logger *zap.Logger) []duckdb.FileFingerprint {
	var fps []duckdb.FileFingerprint
	for _, in := range inputs {
		if in.path == "-" {
			continue
		}
		fp, err := duckdb.StatFile(in.role, in.path)
		if err != nil {
			logger.Warn("could not stat input", zap.String("path", in.path), zap.Error(err))
			continue
		}
		fps = append(fps, fp)
	}
	return fps
}

func logStats(logger *zap.Logger, method string, stats *rank.Stats) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.Int("read", stats.Read),
		zap.Int("accepted", stats.Accepted),
		zap.Int("skipped", stats.TotalSkipped()),
		zap.Int("unannotated", stats.Unannotated),
		zap.Int("mirnas", stats.MicroRNAs),
	}
	for _, reason := range rank.SkipReasons {
		if n := stats.Skipped[reason]; n > 0 {
			fields = append(fields, zap.Int(reason.String(), n))
		}
	}
	logger.Info("ranking complete", fields...)
}
