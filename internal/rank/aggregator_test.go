package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/mirsort/internal/fold"
	"github.com/inodb/mirsort/internal/utr"
)

func scores(vals ...float64) []Quality {
	qs := make([]Quality, len(vals))
	for i, v := range vals {
		qs[i] = EnergyScore{Score: v}
	}
	return qs
}

func TestTargetList_Rank(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{"shuffled scores", []float64{30, 10, 20}, []int{3, 1, 2}},
		{"single", []float64{5}, []int{1}},
		{"already sorted", []float64{1, 2, 3, 4}, []int{1, 2, 3, 4}},
		{"descending", []float64{4, 3, 2, 1}, []int{4, 3, 2, 1}},
		{"ties keep insertion order", []float64{7, 3, 7, 3}, []int{3, 1, 4, 2}},
		{"empty", nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &TargetList{Qualities: scores(tt.scores...)}
			l.Rank()
			assert.Equal(t, tt.want, l.Ranks)
		})
	}
}

func TestTargetList_RankIsPermutation(t *testing.T) {
	l := &TargetList{Qualities: scores(9, 1, 5, 5, 2, 8, 0, 3)}
	l.Rank()

	seen := make(map[int]bool)
	for _, r := range l.Ranks {
		assert.GreaterOrEqual(t, r, 1)
		assert.LessOrEqual(t, r, len(l.Ranks))
		seen[r] = true
	}
	assert.Len(t, seen, len(l.Ranks))
}

func TestTargetList_RankStructureTuple(t *testing.T) {
	l := &TargetList{Qualities: []Quality{
		StructureScore{Metrics: fold.Metrics{MaxPairedRun: 3, MaxAnyRun: 4, Ratio: 1}},
		StructureScore{Metrics: fold.Metrics{MaxPairedRun: 3, MaxAnyRun: 2, Ratio: 5}},
		StructureScore{Metrics: fold.Metrics{MaxPairedRun: 1, MaxAnyRun: 9, Ratio: 9}},
		StructureScore{Metrics: fold.Metrics{MaxPairedRun: 3, MaxAnyRun: 4, Ratio: 0.5}},
	}}
	l.Rank()
	assert.Equal(t, []int{4, 2, 1, 3}, l.Ranks)
}

func TestAggregator_GroupsContiguousRuns(t *testing.T) {
	a := NewAggregator()
	iv := []utr.Interval{{Start: 1, End: 22}}

	assert.Nil(t, a.Add("miR-1", "Tr1", EnergyScore{Score: 30}, iv))
	assert.Nil(t, a.Add("miR-1", "Tr2", EnergyScore{Score: 10}, iv))
	assert.Nil(t, a.Add("miR-1", "Tr3", EnergyScore{Score: 20}, iv))

	done := a.Add("miR-2", "Tr4", EnergyScore{Score: 1}, iv)
	require.NotNil(t, done)
	assert.Equal(t, "miR-1", done.MicroRNA)
	assert.Equal(t, []string{"Tr1", "Tr2", "Tr3"}, done.Targets)
	assert.Equal(t, []int{3, 1, 2}, done.Ranks)

	last := a.Flush()
	require.NotNil(t, last)
	assert.Equal(t, "miR-2", last.MicroRNA)
	assert.Equal(t, []int{1}, last.Ranks)

	assert.Nil(t, a.Flush())
	assert.Zero(t, a.Regrouped())
}

func TestAggregator_NonContiguousRegroups(t *testing.T) {
	a := NewAggregator()
	a.Add("miR-1", "Tr1", EnergyScore{Score: 1}, nil)
	a.Add("miR-2", "Tr2", EnergyScore{Score: 1}, nil)
	done := a.Add("miR-1", "Tr3", EnergyScore{Score: 1}, nil)

	require.NotNil(t, done)
	assert.Equal(t, "miR-2", done.MicroRNA)
	assert.Equal(t, 1, a.Regrouped())

	last := a.Flush()
	assert.Equal(t, []string{"Tr3"}, last.Targets)
}

func TestQualityValues(t *testing.T) {
	assert.Equal(t, []string{"-18.5", "150"}, EnergyScore{Energy: -18.5, Score: 150}.Values())

	s := StructureScore{Metrics: fold.Metrics{MaxPairedRun: 3, MaxAnyRun: 3, Ratio: 3}, Energy: -3.4}
	assert.Equal(t, []string{"-3.4", "3", "3", "3"}, s.Values())
}
