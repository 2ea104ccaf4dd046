package rank

import (
	"slices"

	"github.com/inodb/mirsort/internal/utr"
)

// TargetList holds the accepted targets of one microRNA as parallel slices
// in insertion order. Ranks is filled by Rank.
type TargetList struct {
	MicroRNA    string
	Targets     []string
	Coordinates [][]utr.Interval
	Qualities   []Quality
	Ranks       []int
}

// Len returns the number of targets.
func (l *TargetList) Len() int {
	return len(l.Targets)
}

func (l *TargetList) add(target string, q Quality, coords []utr.Interval) {
	l.Targets = append(l.Targets, target)
	l.Qualities = append(l.Qualities, q)
	l.Coordinates = append(l.Coordinates, coords)
}

// Rank assigns each target its 1-based position in ascending quality order.
// Ranks stay aligned with insertion order; ties keep insertion order.
func (l *TargetList) Rank() {
	order := make([]int, len(l.Qualities))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return l.Qualities[a].Compare(l.Qualities[b])
	})

	l.Ranks = make([]int, len(order))
	for pos, idx := range order {
		l.Ranks[idx] = pos + 1
	}
}

// Aggregator groups accepted sites by microRNA. Input must be contiguous per
// microRNA: a change of ID finalizes the previous list.
type Aggregator struct {
	current   *TargetList
	seen      map[string]bool
	regrouped int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{seen: make(map[string]bool)}
}

// Add appends a target to the microRNA's list. When mirna differs from the
// current group, the current group is ranked and returned.
func (a *Aggregator) Add(mirna, target string, q Quality, coords []utr.Interval) *TargetList {
	var done *TargetList
	if a.current != nil && a.current.MicroRNA != mirna {
		done = a.Flush()
	}

	if a.current == nil {
		if a.seen[mirna] {
			a.regrouped++
		}
		a.seen[mirna] = true
		a.current = &TargetList{MicroRNA: mirna}
	}
	a.current.add(target, q, coords)

	return done
}

// Flush ranks and returns the current group, or nil if there is none.
func (a *Aggregator) Flush() *TargetList {
	l := a.current
	if l == nil {
		return nil
	}
	a.current = nil
	l.Rank()
	return l
}

// Regrouped returns how many groups reused a microRNA ID already finalized.
func (a *Aggregator) Regrouped() int {
	return a.regrouped
}
