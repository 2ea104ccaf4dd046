// Package metrics exports run statistics in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inodb/mirsort/internal/rank"
)

const namespace = "mirsort"

// Collector holds the per-run metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	sitesRead     *prometheus.GaugeVec
	sitesAccepted *prometheus.GaugeVec
	sitesSkipped  *prometheus.GaugeVec
	unannotated   *prometheus.GaugeVec
	mirnas        *prometheus.GaugeVec
	regrouped     *prometheus.GaugeVec
}

// NewCollector creates a collector with all metrics registered.
func NewCollector() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		sitesRead: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sites_read",
			Help:      "Predicted sites read in the last run",
		}, []string{"method"}),
		sitesAccepted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sites_accepted",
			Help:      "Sites ranked in the last run",
		}, []string{"method"}),
		sitesSkipped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sites_skipped",
			Help:      "Sites rejected in the last run by reason",
		}, []string{"method", "reason"}),
		unannotated: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sites_unannotated",
			Help:      "Accepted sites on transcripts without a 3'UTR annotation",
		}, []string{"method"}),
		mirnas: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mirnas_ranked",
			Help:      "Ranked target lists written in the last run",
		}, []string{"method"}),
		regrouped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mirnas_regrouped",
			Help:      "MicroRNA runs that reused an earlier ID",
		}, []string{"method"}),
	}
	c.reg.MustRegister(c.sitesRead, c.sitesAccepted, c.sitesSkipped, c.unannotated, c.mirnas, c.regrouped)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Observe records the statistics of one run.
func (c *Collector) Observe(method string, stats *rank.Stats) {
	c.sitesRead.WithLabelValues(method).Set(float64(stats.Read))
	c.sitesAccepted.WithLabelValues(method).Set(float64(stats.Accepted))
	c.unannotated.WithLabelValues(method).Set(float64(stats.Unannotated))
	c.mirnas.WithLabelValues(method).Set(float64(stats.MicroRNAs))
	c.regrouped.WithLabelValues(method).Set(float64(stats.Regrouped))
	for _, reason := range rank.SkipReasons {
		c.sitesSkipped.WithLabelValues(method, reason.String()).Set(float64(stats.Skipped[reason]))
	}
}

// WriteTextfile writes the collector's metrics to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.reg); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}

// WriteTextfile records stats for method and writes them to path.
func WriteTextfile(path, method string, stats *rank.Stats) error {
	c := NewCollector()
	c.Observe(method, stats)
	return c.WriteTextfile(path)
}
