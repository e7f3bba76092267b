package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SaleMetrics records instrumentation for the sale transaction engine. A nil
// registerer yields a no-op instance, matching how tests construct services.
type SaleMetrics struct {
	commitDuration *prometheus.HistogramVec
	committed      *prometheus.CounterVec
	rejected       *prometheus.CounterVec
	lowStockAlerts prometheus.Counter
}

// NewSaleMetrics registers the sale engine metrics on the provided registerer.
func NewSaleMetrics(reg prometheus.Registerer) *SaleMetrics {
	if reg == nil {
		return &SaleMetrics{}
	}
	commitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_commit_duration_seconds",
		Help:    "Duration of sale commits in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_lines_committed",
		Help: "Committed sale line items.",
	}, []string{"scope"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sale_carts_rejected",
		Help: "Rejected carts by validation failure kind.",
	}, []string{"reason"})
	lowStockAlerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_low_alerts",
		Help: "Low-stock alerts raised after commits.",
	})
	reg.MustRegister(commitDuration, committed, rejected, lowStockAlerts)
	return &SaleMetrics{
		commitDuration: commitDuration,
		committed:      committed,
		rejected:       rejected,
		lowStockAlerts: lowStockAlerts,
	}
}

// ObserveCommitDuration records how long a commit took for the named scope.
func (s *SaleMetrics) ObserveCommitDuration(scope string, duration time.Duration) {
	if s == nil || s.commitDuration == nil {
		return
	}
	s.commitDuration.WithLabelValues(normalizeLabel(scope)).Observe(duration.Seconds())
}

// AddCommitted increments the committed line counter for the named scope.
func (s *SaleMetrics) AddCommitted(scope string, lines int) {
	if s == nil || s.committed == nil {
		return
	}
	s.committed.WithLabelValues(normalizeLabel(scope)).Add(float64(lines))
}

// IncRejected increments the rejected cart counter for the given reason.
func (s *SaleMetrics) IncRejected(reason string) {
	if s == nil || s.rejected == nil {
		return
	}
	s.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncLowStockAlert counts a raised low-stock alert.
func (s *SaleMetrics) IncLowStockAlert() {
	if s == nil || s.lowStockAlerts == nil {
		return
	}
	s.lowStockAlerts.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
