package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for an input file of a run.
type FileFingerprint struct {
	Role    string // e.g. "annotation", "predictions", "folds"
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(role, path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Role:    role,
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// RecordInputs stores the fingerprints of the files a run read.
func (s *Store) RecordInputs(runID string, inputs []FileFingerprint) error {
	for _, in := range inputs {
		if _, err := s.db.Exec(
			`INSERT INTO run_inputs (run_id, role, path, size, mod_time) VALUES (?, ?, ?, ?, ?)`,
			runID, in.Role, in.Path, in.Size, in.ModTime.UTC(),
		); err != nil {
			return fmt.Errorf("record input %s: %w", in.Path, err)
		}
	}
	return nil
}

// RunInputs returns the fingerprints recorded for a run.
func (s *Store) RunInputs(runID string) ([]FileFingerprint, error) {
	rows, err := s.db.Query(
		`SELECT role, path, size, mod_time FROM run_inputs WHERE run_id=? ORDER BY role`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run inputs: %w", err)
	}
	defer rows.Close()

	var inputs []FileFingerprint
	for rows.Next() {
		var in FileFingerprint
		if err := rows.Scan(&in.Role, &in.Path, &in.Size, &in.ModTime); err != nil {
			return nil, fmt.Errorf("scan run input: %w", err)
		}
		inputs = append(inputs, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run inputs: %w", err)
	}
	return inputs, nil
}
