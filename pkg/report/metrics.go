package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/specvital/xfail/pkg/domain"
)

// MetricName is the gauge written by WriteMetrics.
const MetricName = "xfail_results"

// Collector exposes report summaries as a gauge vector labelled by
// configuration and verdict.
type Collector struct {
	results *prometheus.GaugeVec
}

// NewCollector creates a collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		results: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: MetricName,
			Help: "Counts classified test results by configuration and verdict",
		}, []string{"configuration", "verdict"}),
	}
	if err := reg.Register(c.results); err != nil {
		return nil, fmt.Errorf("register %s: %w", MetricName, err)
	}
	return c, nil
}

// Observe records every verdict count of rep, zeros included.
func (c *Collector) Observe(rep *Report) {
	for _, v := range domain.Verdicts {
		c.results.WithLabelValues(string(rep.Configuration), string(v)).Set(float64(rep.Summary.Count(v)))
	}
}

// WriteMetrics writes the summaries of reps to path in the Prometheus
// textfile-collector format.
func WriteMetrics(path string, reps ...*Report) error {
	registry := prometheus.NewRegistry()
	c, err := NewCollector(registry)
	if err != nil {
		return err
	}
	for _, rep := range reps {
		c.Observe(rep)
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
