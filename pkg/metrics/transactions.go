package metrics

import (
	"strings"
	"time"

	pkgerrors "github.com/moonpos/moonpos-backend/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindCheckout   = "checkout"
	KindAdjustment = "adjustment"

	OutcomeSuccess = "success"
)

// TransactionMetrics records checkout and stock adjustment units of work.
type TransactionMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	postings *prometheus.CounterVec
	units    *prometheus.CounterVec
}

// NewTransactionMetrics registers the transaction metrics on the provided registerer.
func NewTransactionMetrics(reg prometheus.Registerer) *TransactionMetrics {
	if reg == nil {
		return &TransactionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pos_transaction_duration_seconds",
		Help:    "Duration of checkout and adjustment transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_transactions_total",
		Help: "Checkout and adjustment transactions by outcome.",
	}, []string{"kind", "outcome"})
	postings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_ledger_postings_total",
		Help: "Double-entry postings written to the ledger.",
	}, []string{"kind"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_stock_units_moved_total",
		Help: "Absolute stock units moved by committed transactions.",
	}, []string{"kind"})
	reg.MustRegister(duration, total, postings, units)
	return &TransactionMetrics{
		duration: duration,
		total:    total,
		postings: postings,
		units:    units,
	}
}

// Observe records one finished transaction. A nil error counts as success;
// otherwise the outcome is the lowercased error code.
func (m *TransactionMetrics) Observe(kind string, duration time.Duration, err error) {
	if m == nil || m.total == nil {
		return
	}
	kind = normalizeLabel(kind)
	m.duration.WithLabelValues(kind).Observe(duration.Seconds())
	m.total.WithLabelValues(kind, Outcome(err)).Inc()
}

// AddPostings counts ledger postings written by a committed transaction.
func (m *TransactionMetrics) AddPostings(kind string, n int) {
	if m == nil || m.postings == nil || n <= 0 {
		return
	}
	m.postings.WithLabelValues(normalizeLabel(kind)).Add(float64(n))
}

// AddUnits counts the absolute stock units moved by a committed transaction.
func (m *TransactionMetrics) AddUnits(kind string, units int) {
	if m == nil || m.units == nil {
		return
	}
	if units < 0 {
		units = -units
	}
	m.units.WithLabelValues(normalizeLabel(kind)).Add(float64(units))
}

// Outcome maps an error to its metric label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return strings.ToLower(string(pkgerrors.CodeInternal))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
