// Package predict reads microRNA target predictions from miranda and
// target-predict output.
package predict

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/inodb/mirsort/internal/utr"
)

// Site is one predicted microRNA-target interaction.
type Site struct {
	MicroRNA         string
	TargetID         string
	Coordinates      []utr.Interval // one or more binding footprints
	Score            float64        // tool score (miranda only)
	Energy           float64        // binding energy (miranda only)
	TranscriptLength int            // 0 when the input does not report it
	Line             int            // source line number
}

// SiteParser is the interface for parsers that read predicted sites.
type SiteParser interface {
	// Next reads the next site.
	// Returns nil, nil when there are no more sites.
	Next() (*Site, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}

// lineReader holds the shared file handling for both parsers.
type lineReader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// openLineReader opens path for line reading. "-" reads stdin; gzip input is
// detected by its magic bytes.
func openLineReader(path string) (*lineReader, error) {
	if path == "-" {
		return &lineReader{reader: bufio.NewReader(os.Stdin)}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prediction file: %w", err)
	}

	lr := &lineReader{file: file}

	// Check for gzip magic number (0x1f, 0x8b)
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read prediction file: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek prediction file: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		lr.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		lr.reader = bufio.NewReader(lr.gzipReader)
	} else {
		lr.reader = bufio.NewReader(file)
	}

	return lr, nil
}

func newLineReaderFrom(r io.Reader) *lineReader {
	return &lineReader{reader: bufio.NewReader(r)}
}

// readLine returns the next line without its terminator. ok is false at EOF.
func (lr *lineReader) readLine() (line string, ok bool, err error) {
	line, err = lr.reader.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", false, fmt.Errorf("read line: %w", err)
		}
		if line == "" {
			return "", false, nil
		}
	}
	lr.lineNumber++

	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, true, nil
}

func (lr *lineReader) LineNumber() int {
	return lr.lineNumber
}

func (lr *lineReader) Close() error {
	if lr.gzipReader != nil {
		lr.gzipReader.Close()
	}
	if lr.file != nil {
		return lr.file.Close()
	}
	return nil
}

// ParseError represents an error during prediction parsing with line context.
type ParseError struct {
	Format  string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error at line %d: %s", e.Format, e.Line, e.Message)
}
