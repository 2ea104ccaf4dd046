package rank

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/mirsort/internal/predict"
	"github.com/inodb/mirsort/internal/utr"
)

// ResultWriter receives ranked target lists as each microRNA is finalized.
type ResultWriter interface {
	Write(l *TargetList) error
	Flush() error
}

// Stats counts the decisions made during a run.
type Stats struct {
	Read        int                // sites read from the parser
	Accepted    int                // sites added to a ranking
	Unannotated int                // accepted sites whose transcript has no 3'UTR annotation
	Skipped     map[SkipReason]int // rejected sites by reason
	MicroRNAs   int                // ranked target lists written
	Regrouped   int                // microRNA runs that reused an earlier ID
}

// TotalSkipped returns the number of rejected sites.
func (s *Stats) TotalSkipped() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Engine filters predicted sites by 3'UTR localization and quality, then
// ranks the accepted targets per microRNA.
type Engine struct {
	index  *utr.Index
	eval   Evaluator
	logger *zap.Logger
}

// NewEngine creates an engine. A nil index treats every transcript as unannotated.
func NewEngine(index *utr.Index, eval Evaluator) *Engine {
	return &Engine{
		index:  index,
		eval:   eval,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for skip and warning messages.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Run consumes all sites from the parser and writes each microRNA's ranked
// targets as soon as its contiguous run of sites ends.
func (e *Engine) Run(parser predict.SiteParser, w ResultWriter) (*Stats, error) {
	stats := &Stats{Skipped: make(map[SkipReason]int)}
	agg := NewAggregator()

	emit := func(l *TargetList) error {
		if l == nil {
			return nil
		}
		stats.MicroRNAs++
		if err := w.Write(l); err != nil {
			return fmt.Errorf("write ranking for %s: %w", l.MicroRNA, err)
		}
		return nil
	}

	for {
		site, err := parser.Next()
		if err != nil {
			return stats, fmt.Errorf("read site: %w", err)
		}
		if site == nil {
			break
		}
		stats.Read++

		coords, ev, err := e.evaluate(site, stats)
		if err != nil {
			return stats, err
		}
		if !ev.Accepted() {
			stats.Skipped[ev.Reason]++
			e.logger.Debug("skipping site",
				zap.String("mirna", site.MicroRNA),
				zap.String("target", site.TargetID),
				zap.Int("line", site.Line),
				zap.Stringer("reason", ev.Reason))
			continue
		}
		stats.Accepted++

		before := agg.Regrouped()
		done := agg.Add(site.MicroRNA, site.TargetID, ev.Quality, coords)
		if agg.Regrouped() > before {
			e.logger.Warn("microRNA input is not contiguous; ranking this run separately",
				zap.String("mirna", site.MicroRNA),
				zap.Int("line", site.Line))
		}
		if err := emit(done); err != nil {
			return stats, err
		}
	}

	if err := emit(agg.Flush()); err != nil {
		return stats, err
	}
	stats.Regrouped = agg.Regrouped()

	if stats.Read == 0 {
		e.logger.Info("0 sites processed")
	}

	return stats, w.Flush()
}

// evaluate scores a site and keeps only the coordinates inside its 3'UTR.
func (e *Engine) evaluate(site *predict.Site, stats *Stats) ([]utr.Interval, Evaluation, error) {
	ev := e.eval.Evaluate(site)
	if !ev.Accepted() {
		return nil, ev, nil
	}

	var region *utr.Region
	if e.index != nil {
		if r, ok := e.index.Lookup(site.TargetID); ok {
			region = &r
		}
	}
	if region == nil {
		stats.Unannotated++
		return site.Coordinates, ev, nil
	}

	length := site.TranscriptLength
	if ev.TranscriptLength > 0 {
		length = ev.TranscriptLength
	}

	kept := make([]utr.Interval, 0, len(site.Coordinates))
	for _, iv := range site.Coordinates {
		ok, err := utr.Contains(iv, region, length)
		if err != nil {
			return nil, ev, fmt.Errorf("line %d: %w", site.Line, err)
		}
		if ok {
			kept = append(kept, iv)
		}
	}
	if len(kept) == 0 {
		ev.Reason = SkipOutsideUTR
		ev.Quality = nil
	}
	return kept, ev, nil
}
