package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records scheduled maintenance jobs and the stock gauge the
// stock watch job maintains.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	lowStock prometheus.Gauge
}

func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_cron_job_duration_seconds",
		Help:    "Duration of scheduled maintenance jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_cron_job_runs_total",
		Help: "Scheduled maintenance job runs by outcome.",
	}, []string{"job", "outcome"})
	lowStock := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pos_low_stock_products",
		Help: "Active products at or below their reorder threshold at the last scan.",
	})
	reg.MustRegister(duration, runs, lowStock)
	return &CronJobMetrics{
		duration: duration,
		runs:     runs,
		lowStock: lowStock,
	}
}

// ObserveRun records one job run. A nil error counts as success.
func (c *CronJobMetrics) ObserveRun(job string, duration time.Duration, err error) {
	if c == nil || c.duration == nil {
		return
	}
	label := normalizeLabel(job)
	c.duration.WithLabelValues(label).Observe(duration.Seconds())
	outcome := OutcomeSuccess
	if err != nil {
		outcome = "failure"
	}
	c.runs.WithLabelValues(label, outcome).Inc()
}

func (c *CronJobMetrics) SetLowStock(count int) {
	if c == nil || c.lowStock == nil {
		return
	}
	c.lowStock.Set(float64(count))
}
