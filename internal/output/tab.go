// Package output provides ranked target output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/mirsort/internal/rank"
	"github.com/inodb/mirsort/internal/utr"
)

// TabWriter writes ranked targets in tab-delimited format, one row per
// (microRNA, target) pair.
type TabWriter struct {
	w         *bufio.Writer
	columns   []string
	skipFirst bool
}

// NewTabWriter creates a tab-delimited writer. qualityColumns names the
// columns produced by the evaluator's qualities.
func NewTabWriter(w io.Writer, qualityColumns []string) *TabWriter {
	columns := append([]string{
		"#MicroRNA",
		"Rank",
		"Target",
		"Coordinates",
	}, qualityColumns...)

	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: columns,
	}
}

// SetSkipFirst reproduces the legacy output that omitted the first target of
// every microRNA.
func (tw *TabWriter) SetSkipFirst(skip bool) {
	tw.skipFirst = skip
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes every target of a ranked list in insertion order.
func (tw *TabWriter) Write(l *rank.TargetList) error {
	start := 0
	if tw.skipFirst {
		start = 1
	}

	for i := start; i < l.Len(); i++ {
		values := []string{
			l.MicroRNA,
			strconv.Itoa(l.Ranks[i]),
			l.Targets[i],
			FormatCoordinates(l.Coordinates[i]),
		}
		values = append(values, l.Qualities[i].Values()...)

		if _, err := tw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// FormatCoordinates renders intervals as "start-end" joined by commas.
func FormatCoordinates(coords []utr.Interval) string {
	if len(coords) == 0 {
		return "-"
	}
	parts := make([]string, len(coords))
	for i, iv := range coords {
		parts[i] = iv.String()
	}
	return strings.Join(parts, ",")
}

// MultiWriter fans ranked lists out to several writers.
type MultiWriter struct {
	writers []rank.ResultWriter
}

// NewMultiWriter creates a writer that forwards to each of writers in order.
func NewMultiWriter(writers ...rank.ResultWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write forwards l to every writer, stopping at the first error.
func (m *MultiWriter) Write(l *rank.TargetList) error {
	for _, w := range m.writers {
		if err := w.Write(l); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every writer, stopping at the first error.
func (m *MultiWriter) Flush() error {
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
