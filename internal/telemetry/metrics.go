// Package telemetry holds the Prometheus collectors for catalog refreshes.
//
// All recording methods are safe on a nil *Metrics, so components can take an
// optional metrics handle without guarding every call site.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes used as the "result" label.
const (
	ResultSuccess    = "success"
	ResultFailed     = "failed"
	ResultSkipped    = "skipped"
	ResultNotDue     = "not_due"
	ResultSuperseded = "superseded"
)

// Metrics holds all catalog Prometheus metrics.
type Metrics struct {
	// Fetch metrics
	PagesFetched    prometheus.Counter
	AppsFetched     prometheus.Counter
	AttemptFailures prometheus.Counter
	FetchDuration   prometheus.Histogram

	// Refresh metrics
	Refreshes   *prometheus.CounterVec
	CatalogApps prometheus.Gauge
	Ready       prometheus.Gauge
}

// NewMetrics registers the catalog collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PagesFetched: f.NewCounter(prometheus.CounterOpts{
			Name: "steamappcat_fetch_pages_total",
			Help: "Total number of app list pages fetched successfully",
		}),
		AppsFetched: f.NewCounter(prometheus.CounterOpts{
			Name: "steamappcat_fetch_apps_total",
			Help: "Total number of app entries received from the remote listing",
		}),
		AttemptFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "steamappcat_fetch_attempt_failures_total",
			Help: "Total number of failed page fetch attempts",
		}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "steamappcat_fetch_duration_seconds",
			Help:    "Duration of complete app list walks in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		Refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "steamappcat_refreshes_total",
			Help: "Total number of catalog initializations by result",
		}, []string{"result"}),
		CatalogApps: f.NewGauge(prometheus.GaugeOpts{
			Name: "steamappcat_catalog_apps",
			Help: "Number of apps held in the catalog",
		}),
		Ready: f.NewGauge(prometheus.GaugeOpts{
			Name: "steamappcat_catalog_ready",
			Help: "1 when the catalog is usable, 0 otherwise",
		}),
	}
}

// PageFetched records one successful page carrying n apps.
func (m *Metrics) PageFetched(n int) {
	if m == nil {
		return
	}
	m.PagesFetched.Inc()
	m.AppsFetched.Add(float64(n))
}

// AttemptFailed records one failed page attempt.
func (m *Metrics) AttemptFailed() {
	if m == nil {
		return
	}
	m.AttemptFailures.Inc()
}

// ObserveFetch records the duration of a full walk.
func (m *Metrics) ObserveFetch(seconds float64) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(seconds)
}

// RefreshDone records an Initialize outcome.
func (m *Metrics) RefreshDone(result string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(result).Inc()
}

// SetCatalogSize records the current row count.
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.CatalogApps.Set(float64(n))
}

// SetReady records whether the catalog is usable.
func (m *Metrics) SetReady(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.Ready.Set(1)
	} else {
		m.Ready.Set(0)
	}
}
