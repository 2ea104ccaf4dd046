package rank

import (
	"math"

	"github.com/inodb/mirsort/internal/fold"
	"github.com/inodb/mirsort/internal/predict"
)

// Default thresholds for miranda predictions.
const (
	DefaultScoreThreshold  = 100
	DefaultEnergyThreshold = 20
)

// SkipReason records why a site was not ranked.
type SkipReason int

// Skip reasons. SkipNone means the site was accepted.
const (
	SkipNone SkipReason = iota
	SkipScore
	SkipEnergy
	SkipNoFold
	SkipBadRange
	SkipOutsideUTR
)

// SkipReasons lists every reason a site can be skipped.
var SkipReasons = []SkipReason{SkipScore, SkipEnergy, SkipNoFold, SkipBadRange, SkipOutsideUTR}

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipScore:
		return "score_below_threshold"
	case SkipEnergy:
		return "energy_above_threshold"
	case SkipNoFold:
		return "fold_not_found"
	case SkipBadRange:
		return "footprint_out_of_range"
	case SkipOutsideUTR:
		return "outside_utr"
	default:
		return "unknown"
	}
}

// Evaluation is the outcome of scoring one site.
type Evaluation struct {
	Quality Quality
	Reason  SkipReason

	// TranscriptLength resolved by the evaluator; 0 means use the site's own.
	TranscriptLength int
}

// Accepted reports whether the site passed evaluation.
func (e Evaluation) Accepted() bool {
	return e.Reason == SkipNone
}

// Evaluator scores sites for one prediction tool.
type Evaluator interface {
	// Name identifies the strategy, e.g. "miranda".
	Name() string

	// Columns names the output columns produced by Quality.Values.
	Columns() []string

	// Evaluate scores a site.
	Evaluate(site *predict.Site) Evaluation
}

// ThresholdEvaluator accepts miranda sites with score >= ScoreThreshold and
// |energy| <= EnergyThreshold.
type ThresholdEvaluator struct {
	ScoreThreshold  float64
	EnergyThreshold float64
}

// NewThresholdEvaluator creates an evaluator with the default thresholds.
func NewThresholdEvaluator() *ThresholdEvaluator {
	return &ThresholdEvaluator{
		ScoreThreshold:  DefaultScoreThreshold,
		EnergyThreshold: DefaultEnergyThreshold,
	}
}

// Name implements Evaluator.
func (e *ThresholdEvaluator) Name() string { return "miranda" }

// Columns implements Evaluator.
func (e *ThresholdEvaluator) Columns() []string {
	return []string{"Energy", "Score"}
}

// Evaluate implements Evaluator.
func (e *ThresholdEvaluator) Evaluate(site *predict.Site) Evaluation {
	if site.Score < e.ScoreThreshold {
		return Evaluation{Reason: SkipScore}
	}
	if math.Abs(site.Energy) > e.EnergyThreshold {
		return Evaluation{Reason: SkipEnergy}
	}
	return Evaluation{Quality: EnergyScore{Energy: site.Energy, Score: site.Score}}
}

// StructureEvaluator scores sites by the RNAfold structure of their binding
// footprint. The first coordinate of a site is used as the footprint.
type StructureEvaluator struct {
	folds *fold.Index
}

// NewStructureEvaluator creates an evaluator over a pre-built fold index.
func NewStructureEvaluator(folds *fold.Index) *StructureEvaluator {
	return &StructureEvaluator{folds: folds}
}

// Name implements Evaluator.
func (e *StructureEvaluator) Name() string { return "rnafold" }

// Columns implements Evaluator.
func (e *StructureEvaluator) Columns() []string {
	return []string{"Energy", "Max_Paired_Run", "Max_Any_Run", "Paired_Unpaired_Ratio"}
}

// Evaluate implements Evaluator.
func (e *StructureEvaluator) Evaluate(site *predict.Site) Evaluation {
	rec := e.folds.Lookup(site.TargetID)
	if rec == nil {
		return Evaluation{Reason: SkipNoFold}
	}
	if len(site.Coordinates) == 0 {
		return Evaluation{Reason: SkipBadRange}
	}

	iv := site.Coordinates[0]
	sub, err := fold.Footprint(rec.Structure, iv.Start, iv.End)
	if err != nil {
		return Evaluation{Reason: SkipBadRange}
	}

	return Evaluation{
		Quality:          StructureScore{Metrics: fold.ComputeMetrics(sub), Energy: rec.Energy},
		TranscriptLength: rec.Length(),
	}
}
