// Package utr provides 3'UTR annotation indexing and site localization.
package utr

import (
	"errors"
	"fmt"
)

// ErrInvalidStrand is returned for any strand value other than '+' or '-'.
var ErrInvalidStrand = errors.New("invalid strand: must be + or -")

// Strand is the orientation of a transcript's 3'UTR annotation.
type Strand int8

// Strand values. The zero value is deliberately not a valid strand.
const (
	Forward Strand = 1
	Reverse Strand = -1
)

// ParseStrand converts a GFF strand column to a Strand.
func ParseStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return Forward, nil
	case "-":
		return Reverse, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrand, s)
	}
}

func (s Strand) String() string {
	switch s {
	case Forward:
		return "+"
	case Reverse:
		return "-"
	default:
		return "?"
	}
}

// Region is the single best 3'UTR interval kept for a transcript.
type Region struct {
	TranscriptID string
	Start        int // 1-based start
	End          int // 1-based end
	Strand       Strand
}

// Length returns End - Start, the value compared against the minimum UTR length.
func (r Region) Length() int {
	return r.End - r.Start
}

// Interval is a predicted binding footprint on a transcript.
type Interval struct {
	Start int
	End   int
}

// Reflect maps the interval onto the opposite strand of a transcript of the
// given length. Both bounds are derived from the original values.
func (iv Interval) Reflect(transcriptLength int) Interval {
	return Interval{
		Start: transcriptLength - iv.End,
		End:   transcriptLength - iv.Start,
	}
}

func (iv Interval) String() string {
	return fmt.Sprintf("%d-%d", iv.Start, iv.End)
}

// Contains reports whether iv lies within the 3'UTR region. Reverse-strand
// regions are compared against the reflected interval.
// A nil region means the transcript is unannotated, and the site is kept.
func Contains(iv Interval, region *Region, transcriptLength int) (bool, error) {
	if region == nil {
		return true, nil
	}

	switch region.Strand {
	case Forward:
	case Reverse:
		iv = iv.Reflect(transcriptLength)
	default:
		return false, fmt.Errorf("%w: transcript %s", ErrInvalidStrand, region.TranscriptID)
	}

	return iv.Start >= region.Start && iv.End <= region.End, nil
}
