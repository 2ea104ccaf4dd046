// Package rank evaluates predicted microRNA target sites and ranks the
// accepted targets of each microRNA.
package rank

import (
	"cmp"
	"strconv"

	"github.com/inodb/mirsort/internal/fold"
)

// Quality is the evaluated quality of an accepted site. Qualities within
// one ranking always share a concrete type.
type Quality interface {
	// Compare orders qualities by their sort key (ascending).
	Compare(other Quality) int

	// Values returns the formatted output columns.
	Values() []string
}

// EnergyScore is the miranda quality; its sort key is Score.
type EnergyScore struct {
	Energy float64
	Score  float64
}

// Compare implements Quality.
func (q EnergyScore) Compare(other Quality) int {
	o := other.(EnergyScore)
	return cmp.Compare(q.Score, o.Score)
}

// Values implements Quality.
func (q EnergyScore) Values() []string {
	return []string{formatFloat(q.Energy), formatFloat(q.Score)}
}

// StructureScore is the RNAfold quality; its sort key is the metrics tuple.
type StructureScore struct {
	fold.Metrics
	Energy float64
}

// Compare implements Quality.
func (q StructureScore) Compare(other Quality) int {
	o := other.(StructureScore)
	return q.Metrics.Compare(o.Metrics)
}

// Values implements Quality.
func (q StructureScore) Values() []string {
	return []string{
		formatFloat(q.Energy),
		strconv.Itoa(q.MaxPairedRun),
		strconv.Itoa(q.MaxAnyRun),
		formatFloat(q.Ratio),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
