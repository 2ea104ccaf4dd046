package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/mirsort/internal/fold"
	"github.com/inodb/mirsort/internal/predict"
	"github.com/inodb/mirsort/internal/utr"
)

func TestThresholdEvaluator(t *testing.T) {
	e := NewThresholdEvaluator()

	tests := []struct {
		name   string
		score  float64
		energy float64
		want   SkipReason
	}{
		{"passes", 150, -18, SkipNone},
		{"score at threshold", 100, -18, SkipNone},
		{"energy at threshold", 150, -20, SkipNone},
		{"positive energy uses magnitude", 150, 20, SkipNone},
		{"score below", 99.9, -10, SkipScore},
		{"energy too strong", 150, -20.5, SkipEnergy},
		{"score checked first", 50, -40, SkipScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := e.Evaluate(&predict.Site{Score: tt.score, Energy: tt.energy})
			assert.Equal(t, tt.want, ev.Reason)
			if tt.want == SkipNone {
				assert.Equal(t, EnergyScore{Energy: tt.energy, Score: tt.score}, ev.Quality)
			} else {
				assert.Nil(t, ev.Quality)
			}
		})
	}
}

func TestThresholdEvaluator_CustomThresholds(t *testing.T) {
	e := &ThresholdEvaluator{ScoreThreshold: 150, EnergyThreshold: 30}
	assert.Equal(t, SkipScore, e.Evaluate(&predict.Site{Score: 140, Energy: -25}).Reason)
	assert.True(t, e.Evaluate(&predict.Site{Score: 160, Energy: -25}).Accepted())
}

func testFolds() *fold.Index {
	return fold.NewIndex([]*fold.Record{
		{Header: "Tr1", Sequence: "GGGAAAUCCCAA", Structure: "(((..))).(..", Energy: -3.4},
	})
}

func TestStructureEvaluator(t *testing.T) {
	e := NewStructureEvaluator(testFolds())

	ev := e.Evaluate(&predict.Site{TargetID: "Tr1", Coordinates: []utr.Interval{{Start: 1, End: 9}}})
	require.True(t, ev.Accepted())
	assert.Equal(t, 12, ev.TranscriptLength)

	q, ok := ev.Quality.(StructureScore)
	require.True(t, ok)
	assert.Equal(t, 3, q.MaxPairedRun)
	assert.Equal(t, 3, q.MaxAnyRun)
	assert.InDelta(t, 3.0, q.Ratio, 1e-9)
	assert.InDelta(t, -3.4, q.Energy, 1e-9)
}

func TestStructureEvaluator_Skips(t *testing.T) {
	e := NewStructureEvaluator(testFolds())

	ev := e.Evaluate(&predict.Site{TargetID: "Tr9", Coordinates: []utr.Interval{{Start: 1, End: 5}}})
	assert.Equal(t, SkipNoFold, ev.Reason)

	ev = e.Evaluate(&predict.Site{TargetID: "Tr1", Coordinates: []utr.Interval{{Start: 5, End: 40}}})
	assert.Equal(t, SkipBadRange, ev.Reason)

	ev = e.Evaluate(&predict.Site{TargetID: "Tr1"})
	assert.Equal(t, SkipBadRange, ev.Reason)
}

func TestSkipReasonString(t *testing.T) {
	for _, r := range SkipReasons {
		assert.NotEqual(t, "unknown", r.String())
	}
	assert.Equal(t, "none", SkipNone.String())
}
