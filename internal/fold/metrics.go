// Package fold reads RNAfold secondary structures and derives binding-site
// structure statistics from dot-bracket notation.
package fold

import (
	"cmp"
	"fmt"
	"strings"
)

// Metrics summarizes the dot-bracket structure of a binding footprint.
type Metrics struct {
	MaxPairedRun int     // longest run of '(' or of ')'
	MaxAnyRun    int     // longest run of any single repeated character
	Ratio        float64 // paired / unpaired; raw paired count when unpaired is zero
}

// ComputeMetrics derives Metrics from a dot-bracket substring.
func ComputeMetrics(s string) Metrics {
	var m Metrics
	var paired, unpaired int

	run := 0
	var prev rune
	for i, c := range s {
		switch c {
		case '(', ')':
			paired++
		case '.':
			unpaired++
		}

		if i > 0 && c == prev {
			run++
		} else {
			run = 1
		}
		prev = c

		if run > m.MaxAnyRun {
			m.MaxAnyRun = run
		}
		if (c == '(' || c == ')') && run > m.MaxPairedRun {
			m.MaxPairedRun = run
		}
	}

	if unpaired == 0 {
		m.Ratio = float64(paired)
	} else {
		m.Ratio = float64(paired) / float64(unpaired)
	}
	return m
}

// Compare orders metrics lexicographically by (MaxPairedRun, MaxAnyRun, Ratio).
func (m Metrics) Compare(o Metrics) int {
	if c := cmp.Compare(m.MaxPairedRun, o.MaxPairedRun); c != 0 {
		return c
	}
	if c := cmp.Compare(m.MaxAnyRun, o.MaxAnyRun); c != 0 {
		return c
	}
	return cmp.Compare(m.Ratio, o.Ratio)
}

// Footprint returns the part of a structure covered by the 1-based range
// [start, stop), i.e. structure[start-1 : stop-1].
func Footprint(structure string, start, stop int) (string, error) {
	if start < 1 || stop <= start {
		return "", fmt.Errorf("invalid footprint range %d-%d", start, stop)
	}
	if stop-1 > len(structure) {
		return "", fmt.Errorf("footprint %d-%d exceeds structure length %d", start, stop, len(structure))
	}
	return structure[start-1 : stop-1], nil
}

// IsDotBracket reports whether s is non-empty and consists only of '(', ')' and '.'.
func IsDotBracket(s string) bool {
	return s != "" && strings.Trim(s, "().") == ""
}
