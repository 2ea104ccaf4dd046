package predict

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/mirsort/internal/utr"
)

// Markers of target-predict lines that carry no site.
const (
	noTargetMarker = "No target found"
	headerMarker   = "sRNA ID"
)

// TargetCSVParser reads target-predict CSV output: mirna,target,start-stop.
type TargetCSVParser struct {
	*lineReader
}

// NewTargetCSVParser opens a target-predict CSV file. Use "-" for stdin.
func NewTargetCSVParser(path string) (*TargetCSVParser, error) {
	lr, err := openLineReader(path)
	if err != nil {
		return nil, err
	}
	return &TargetCSVParser{lineReader: lr}, nil
}

// NewTargetCSVParserFromReader creates a parser from an io.Reader.
func NewTargetCSVParserFromReader(r io.Reader) *TargetCSVParser {
	return &TargetCSVParser{lineReader: newLineReaderFrom(r)}
}

// Next reads the next site, skipping headers, blank lines and
// "No target found" rows.
func (p *TargetCSVParser) Next() (*Site, error) {
	for {
		line, ok, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if strings.TrimSpace(line) == "" ||
			strings.Contains(line, noTargetMarker) ||
			strings.Contains(line, headerMarker) {
			continue
		}
		return p.parseLine(line)
	}
}

func (p *TargetCSVParser) parseLine(line string) (*Site, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 3 {
		return nil, p.errorf("expected at least 3 columns, found %d", len(fields))
	}

	iv, err := ParseRange(fields[2])
	if err != nil {
		return nil, p.errorf("%v", err)
	}

	return &Site{
		MicroRNA:    strings.TrimSpace(fields[0]),
		TargetID:    strings.TrimSpace(fields[1]),
		Coordinates: []utr.Interval{iv},
		Line:        p.lineNumber,
	}, nil
}

// ParseRange parses a "start-stop" coordinate.
func ParseRange(s string) (utr.Interval, error) {
	s = strings.TrimSpace(s)
	start, stop, found := strings.Cut(s, "-")
	if !found {
		return utr.Interval{}, fmt.Errorf("invalid coordinate %q: expected start-stop", s)
	}
	a, err := strconv.Atoi(start)
	if err != nil {
		return utr.Interval{}, fmt.Errorf("invalid coordinate start %q", start)
	}
	b, err := strconv.Atoi(stop)
	if err != nil {
		return utr.Interval{}, fmt.Errorf("invalid coordinate stop %q", stop)
	}
	return utr.Interval{Start: a, End: b}, nil
}

func (p *TargetCSVParser) errorf(format string, args ...any) error {
	return &ParseError{Format: "target-predict", Line: p.lineNumber, Message: fmt.Sprintf(format, args...)}
}
