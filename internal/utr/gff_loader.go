package utr

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FeatureThreePrimeUTR is the GFF3 feature type read by the loader.
const FeatureThreePrimeUTR = "three_prime_UTR"

// Loader builds a UTR index from a TransDecoder GFF3 file.
type Loader struct {
	path      string
	minLength int
}

// NewLoader creates a loader using the default minimum UTR length.
func NewLoader(path string) *Loader {
	return &Loader{path: path, minLength: DefaultMinLength}
}

// SetMinLength overrides the minimum UTR length.
func (l *Loader) SetMinLength(n int) {
	l.minLength = n
}

// Load reads the GFF3 file and returns the built index.
func (l *Loader) Load() (*Index, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open GFF3 file: %w", err)
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

	return l.parseGFF(reader)
}

// parseGFF streams three_prime_UTR features into a Builder.
func (l *Loader) parseGFF(reader io.Reader) (*Index, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	b := NewBuilder(l.minLength)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 || fields[2] != FeatureThreePrimeUTR {
			continue
		}

		r, err := parseRegion(fields)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Err: err}
		}
		b.Add(r)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GFF3: %w", err)
	}

	return b.Index(), nil
}

// parseRegion converts GFF3 columns (seqid, source, type, start, end, score,
// strand, ...) into a Region.
func parseRegion(fields []string) (Region, error) {
	if len(fields) < 7 {
		return Region{}, fmt.Errorf("expected at least 7 fields, got %d", len(fields))
	}

	start, err := strconv.Atoi(fields[3])
	if err != nil {
		return Region{}, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.Atoi(fields[4])
	if err != nil {
		return Region{}, fmt.Errorf("parse end: %w", err)
	}

	strand, err := ParseStrand(fields[6])
	if err != nil {
		return Region{}, err
	}

	return Region{
		TranscriptID: fields[0],
		Start:        start,
		End:          end,
		Strand:       strand,
	}, nil
}

// ParseError reports a malformed annotation line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("GFF3 parse error at line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
