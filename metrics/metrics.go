package metrics

import (
	"ordermatch-backend/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Comparison outcomes recorded on ComparisonsTotal
const (
	OutcomeCompleted        = "completed"
	OutcomeCached           = "cached"
	OutcomeExtractionFailed = "extraction_failed"
	OutcomeValidationFailed = "validation_failed"
	OutcomeError            = "error"
)

// Metrics holds all Prometheus metrics for the comparison service.
type Metrics struct {
	ComparisonsTotal   *prometheus.CounterVec // labels: outcome
	ComparisonDuration prometheus.Histogram
	ExtractionFailures *prometheus.CounterVec // labels: document=purchase|sales
	SummaryFallbacks   prometheus.Counter
	LineItemsTotal     *prometheus.CounterVec // labels: status
	ReportCacheHits    prometheus.Counter
}

// NewMetrics creates the metrics and registers them on reg.
// Pass prometheus.NewRegistry() in tests to keep them isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ComparisonsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordermatch_comparisons_total",
			Help: "Comparisons served, by outcome",
		}, []string{"outcome"}),
		ComparisonDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ordermatch_comparison_duration_seconds",
			Help:    "End-to-end comparison latency including extraction",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}),
		ExtractionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordermatch_extraction_failures_total",
			Help: "Documents that could not be turned into order records",
		}, []string{"document"}),
		SummaryFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordermatch_summary_fallbacks_total",
			Help: "Reports that used the fallback summary",
		}),
		LineItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ordermatch_line_items_total",
			Help: "Product line comparison rows, by status",
		}, []string{"status"}),
		ReportCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordermatch_report_cache_hits_total",
			Help: "Comparisons answered from the report cache",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ComparisonsTotal,
			m.ComparisonDuration,
			m.ExtractionFailures,
			m.SummaryFallbacks,
			m.LineItemsTotal,
			m.ReportCacheHits,
		)
	}

	return m
}

// ObserveReport counts the line rows of a freshly assembled report
func (m *Metrics) ObserveReport(report *models.ComparisonReport) {
	if m == nil || report == nil {
		return
	}
	for status, n := range report.StatusCounts() {
		m.LineItemsTotal.WithLabelValues(string(status)).Add(float64(n))
	}
}

// ExtractionFailed counts a failed extraction for the given document kind
func (m *Metrics) ExtractionFailed(kind models.OrderKind) {
	if m == nil {
		return
	}
	document := "sales"
	if kind == models.OrderKindPurchase {
		document = "purchase"
	}
	m.ExtractionFailures.WithLabelValues(document).Inc()
}
