package predict

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/mirsort/internal/utr"
)

// Column positions in a miranda ">>" summary line.
const (
	mirandaColMicroRNA         = 0
	mirandaColTarget           = 1
	mirandaColScore            = 2
	mirandaColEnergy           = 3
	mirandaColMicroRNALength   = 7
	mirandaColTranscriptLength = 8
	mirandaColPositions        = 9
)

// MirandaParser reads the ">>" summary lines of miranda output
// (e.g. the result of `grep '>>' out.miranda`).
type MirandaParser struct {
	*lineReader
}

// NewMirandaParser opens a miranda output file. Use "-" for stdin.
func NewMirandaParser(path string) (*MirandaParser, error) {
	lr, err := openLineReader(path)
	if err != nil {
		return nil, err
	}
	return &MirandaParser{lineReader: lr}, nil
}

// NewMirandaParserFromReader creates a parser from an io.Reader.
func NewMirandaParserFromReader(r io.Reader) *MirandaParser {
	return &MirandaParser{lineReader: newLineReaderFrom(r)}
}

// Next reads the next site. Lines that are not ">>" summaries are skipped.
func (p *MirandaParser) Next() (*Site, error) {
	for {
		line, ok, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		if !strings.HasPrefix(line, ">>") {
			continue
		}
		return p.parseLine(line)
	}
}

func (p *MirandaParser) parseLine(line string) (*Site, error) {
	fields := strings.Split(line, "\t")
	if len(fields) <= mirandaColPositions {
		return nil, p.errorf("expected at least %d columns, found %d", mirandaColPositions+1, len(fields))
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(fields[mirandaColScore]), 64)
	if err != nil {
		return nil, p.errorf("invalid score: %s", fields[mirandaColScore])
	}
	energy, err := strconv.ParseFloat(strings.TrimSpace(fields[mirandaColEnergy]), 64)
	if err != nil {
		return nil, p.errorf("invalid energy: %s", fields[mirandaColEnergy])
	}
	mirnaLen, err := strconv.Atoi(strings.TrimSpace(fields[mirandaColMicroRNALength]))
	if err != nil {
		return nil, p.errorf("invalid microRNA length: %s", fields[mirandaColMicroRNALength])
	}
	transcriptLen, err := strconv.Atoi(strings.TrimSpace(fields[mirandaColTranscriptLength]))
	if err != nil {
		return nil, p.errorf("invalid transcript length: %s", fields[mirandaColTranscriptLength])
	}

	positions := strings.Fields(fields[mirandaColPositions])
	if len(positions) == 0 {
		return nil, p.errorf("no binding positions")
	}
	coords := make([]utr.Interval, 0, len(positions))
	for _, s := range positions {
		pos, err := strconv.Atoi(s)
		if err != nil {
			return nil, p.errorf("invalid position: %s", s)
		}
		coords = append(coords, utr.Interval{Start: pos, End: pos + mirnaLen})
	}

	return &Site{
		MicroRNA:         strings.TrimPrefix(fields[mirandaColMicroRNA], ">>"),
		TargetID:         fields[mirandaColTarget],
		Coordinates:      coords,
		Score:            score,
		Energy:           energy,
		TranscriptLength: transcriptLen,
		Line:             p.lineNumber,
	}, nil
}

func (p *MirandaParser) errorf(format string, args ...any) error {
	return &ParseError{Format: "miranda", Line: p.lineNumber, Message: fmt.Sprintf(format, args...)}
}
