package fold

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Record is one folded sequence from RNAfold output.
type Record struct {
	Header    string  // header line without '>'
	Sequence  string  // folded sequence, empty if absent
	Structure string  // dot-bracket string
	Energy    float64 // minimum free energy
}

// Length returns the sequence length, falling back to the structure length.
func (r *Record) Length() int {
	if r.Sequence != "" {
		return len(r.Sequence)
	}
	return len(r.Structure)
}

// Index provides lookup of fold records by target identifier.
// It is built once; suffix lookups are memoized so each distinct target
// scans the headers at most once.
type Index struct {
	records []*Record
	byID    map[string]*Record
	memo    map[string]*Record
}

// NewIndex indexes records by the first whitespace-delimited token of their header.
func NewIndex(records []*Record) *Index {
	idx := &Index{
		records: records,
		byID:    make(map[string]*Record, len(records)),
		memo:    make(map[string]*Record),
	}
	for _, r := range records {
		id := firstToken(r.Header)
		if _, dup := idx.byID[id]; !dup {
			idx.byID[id] = r
		}
	}
	return idx
}

// Lookup finds the record for a target. An exact ID match is preferred;
// otherwise the first header (in file order) ending with, then containing,
// the target is used. Returns nil if nothing matches.
func (x *Index) Lookup(target string) *Record {
	if r, ok := x.byID[target]; ok {
		return r
	}
	if r, ok := x.memo[target]; ok {
		return r
	}

	var found *Record
	for _, r := range x.records {
		if strings.HasSuffix(r.Header, target) {
			found = r
			break
		}
	}
	if found == nil {
		for _, r := range x.records {
			if strings.Contains(r.Header, target) {
				found = r
				break
			}
		}
	}

	x.memo[target] = found
	return found
}

// Len returns the number of indexed records.
func (x *Index) Len() int {
	return len(x.records)
}

// IDs returns the indexed record IDs in sorted order.
func (x *Index) IDs() []string {
	ids := make([]string, 0, len(x.byID))
	for id := range x.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Loader reads RNAfold output files.
type Loader struct {
	path string
}

// NewLoader creates a new RNAfold output loader.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the file and returns an index over its records.
func (l *Loader) Load() (*Index, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open RNAfold file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	records, err := parseRNAfold(reader)
	if err != nil {
		return nil, err
	}
	return NewIndex(records), nil
}

// parseRNAfold parses RNAfold output. Each record is a '>' header, an optional
// sequence line, and a structure line of the form "((..)).. (-12.30)".
func parseRNAfold(reader io.Reader) ([]*Record, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var records []*Record
	var current *Record

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ">") {
			if current != nil {
				records = append(records, current)
			}
			current = &Record{Header: strings.TrimSpace(line[1:])}
			continue
		}

		if current == nil {
			return nil, &ParseError{Line: lineNum, Message: "data line before first header"}
		}

		structure, energy, ok, err := parseStructureLine(line)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Message: err.Error()}
		}
		if ok {
			current.Structure = structure
			current.Energy = energy
		} else {
			current.Sequence += line
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan RNAfold: %w", err)
	}

	if current != nil {
		records = append(records, current)
	}
	return records, nil
}

// parseStructureLine splits "<dot-bracket> (<energy>)". ok is false when the
// line is not a structure line (e.g. a sequence line).
func parseStructureLine(line string) (structure string, energy float64, ok bool, err error) {
	fields := strings.SplitN(line, " ", 2)
	if !IsDotBracket(fields[0]) {
		return "", 0, false, nil
	}
	if len(fields) == 1 {
		return fields[0], 0, true, nil
	}

	e := strings.TrimSpace(fields[1])
	e = strings.Trim(e, "()")
	e = strings.TrimSpace(e)
	energy, err = strconv.ParseFloat(e, 64)
	if err != nil {
		return "", 0, false, fmt.Errorf("parse energy %q: %w", fields[1], err)
	}
	return fields[0], energy, true, nil
}

func firstToken(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}

// ParseError reports a malformed RNAfold line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("RNAfold parse error at line %d: %s", e.Line, e.Message)
}
