package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/mirsort/internal/output"
	"github.com/inodb/mirsort/internal/rank"
)

// TargetRow is one stored (microRNA, target) ranking.
type TargetRow struct {
	RunID        string
	Method       string
	MicroRNA     string
	Rank         int64
	Target       string
	Coordinates  string
	Energy       float64
	Score        float64
	MaxPairedRun int64
	MaxAnyRun    int64
	Ratio        float64
}

// Run describes one stored engine run.
type Run struct {
	ID        string
	Method    string
	CreatedAt time.Time
	Read      int64
	Accepted  int64
	Skipped   int64
	MicroRNAs int64
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RowsFromList flattens a ranked target list into rows.
func RowsFromList(runID, method string, l *rank.TargetList) []TargetRow {
	rows := make([]TargetRow, 0, l.Len())
	for i := range l.Targets {
		r := TargetRow{
			RunID:       runID,
			Method:      method,
			MicroRNA:    l.MicroRNA,
			Rank:        int64(l.Ranks[i]),
			Target:      l.Targets[i],
			Coordinates: output.FormatCoordinates(l.Coordinates[i]),
		}
		switch q := l.Qualities[i].(type) {
		case rank.EnergyScore:
			r.Energy = q.Energy
			r.Score = q.Score
		case rank.StructureScore:
			r.Energy = q.Energy
			r.MaxPairedRun = int64(q.MaxPairedRun)
			r.MaxAnyRun = int64(q.MaxAnyRun)
			r.Ratio = q.Ratio
		}
		rows = append(rows, r)
	}
	return rows
}

// WriteTargets batch-inserts rows using the Appender API.
func (s *Store) WriteTargets(rows []TargetRow) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "ranked_targets")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(
			r.RunID, r.Method, r.MicroRNA, r.Rank, r.Target, r.Coordinates,
			r.Energy, r.Score, r.MaxPairedRun, r.MaxAnyRun, r.Ratio,
		); err != nil {
			return fmt.Errorf("append ranked target: %w", err)
		}
	}

	return appender.Flush()
}

// RecordRun stores the summary of a finished run.
func (s *Store) RecordRun(runID, method string, stats *rank.Stats) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, method, created_at, sites_read, sites_accepted, sites_skipped, mirnas)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, method, time.Now().UTC(),
		int64(stats.Read), int64(stats.Accepted), int64(stats.TotalSkipped()), int64(stats.MicroRNAs),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, method, created_at, sites_read, sites_accepted, sites_skipped, mirnas
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Method, &r.CreatedAt, &r.Read, &r.Accepted, &r.Skipped, &r.MicroRNAs); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LookupMicroRNA returns the stored rankings for a microRNA, ordered by run
// and rank.
func (s *Store) LookupMicroRNA(mirna string) ([]TargetRow, error) {
	rows, err := s.db.Query(`SELECT
		run_id, method, mirna, rank, target, coordinates,
		energy, score, max_paired_run, max_any_run, ratio
		FROM ranked_targets
		WHERE mirna=?
		ORDER BY run_id, rank, target`, mirna)
	if err != nil {
		return nil, fmt.Errorf("query microRNA: %w", err)
	}
	defer rows.Close()

	var result []TargetRow
	for rows.Next() {
		var r TargetRow
		if err := rows.Scan(
			&r.RunID, &r.Method, &r.MicroRNA, &r.Rank, &r.Target, &r.Coordinates,
			&r.Energy, &r.Score, &r.MaxPairedRun, &r.MaxAnyRun, &r.Ratio,
		); err != nil {
			return nil, fmt.Errorf("scan ranked target: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranked targets: %w", err)
	}
	return result, nil
}

// RunWriter buffers ranked lists for one run and appends them to the store
// on Flush. It implements rank.ResultWriter.
type RunWriter struct {
	store  *Store
	runID  string
	method string
	rows   []TargetRow
}

// NewRunWriter creates a writer that stores rankings under runID.
func (s *Store) NewRunWriter(runID, method string) *RunWriter {
	return &RunWriter{store: s, runID: runID, method: method}
}

// Write buffers the rows of a ranked list.
func (w *RunWriter) Write(l *rank.TargetList) error {
	w.rows = append(w.rows, RowsFromList(w.runID, w.method, l)...)
	return nil
}

// Flush appends buffered rows to the store.
func (w *RunWriter) Flush() error {
	if err := w.store.WriteTargets(w.rows); err != nil {
		return err
	}
	w.rows = w.rows[:0]
	return nil
}
