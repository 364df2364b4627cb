package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for flood monitoring.
type Metrics struct {
	CyclesEvaluated *prometheus.CounterVec // labels: state={SAFE,PREDICTED,WARNING,CRITICAL}
	SystemState     prometheus.Gauge
	CycleDuration   prometheus.Histogram
	MonitorRunning  prometheus.Gauge

	// Rainfall metrics.
	RainfallFetches       *prometheus.CounterVec // labels: outcome={success,error}
	RainfallFetchDuration prometheus.Histogram
	RainfallFallbacks     prometheus.Counter
	RainfallIntensity     prometheus.Gauge
	RainfallProvenance    *prometheus.GaugeVec // labels: provenance; 1 for the latest cycle's, 0 otherwise

	// Evidence metrics.
	SiteRiskScore     *prometheus.GaugeVec   // labels: site
	VisionAssessments *prometheus.CounterVec // labels: status, source
	VisionEdgeDensity prometheus.Histogram
	DistressSignals   prometheus.Counter

	// Alert publishing metrics.
	AlertsPublished prometheus.Counter
	PublishErrors   prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		CyclesEvaluated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "cycles_evaluated_total",
			Help:      "Monitoring cycles evaluated, by resulting system state.",
		}, []string{"state"}),
		SystemState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_sentry",
			Name:      "system_state",
			Help:      "Latest scheduled system state: 0 SAFE, 1 PREDICTED, 2 WARNING, 3 CRITICAL.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_sentry",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete assessment cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		MonitorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_sentry",
			Name:      "monitor_running",
			Help:      "1 when the scheduled monitor is active, 0 when shut down.",
		}),
		RainfallFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "rainfall_fetches_total",
			Help:      "Live rainfall requests by outcome.",
		}, []string{"outcome"}),
		RainfallFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_sentry",
			Name:      "rainfall_fetch_duration_seconds",
			Help:      "OpenWeatherMap request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RainfallFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "rainfall_fallbacks_total",
			Help:      "Cycles that substituted the manual value after a failed live fetch.",
		}),
		RainfallIntensity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_sentry",
			Name:      "rainfall_intensity_mm_per_hr",
			Help:      "Rainfall intensity used by the latest scheduled cycle.",
		}),
		RainfallProvenance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flood_sentry",
			Name:      "rainfall_provenance",
			Help:      "Provenance of the latest scheduled cycle's rainfall reading (1 = active).",
		}, []string{"provenance"}),
		SiteRiskScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "flood_sentry",
			Name:      "site_risk_score",
			Help:      "Terrain and rainfall risk score per site from the latest scheduled cycle.",
		}, []string{"site"}),
		VisionAssessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "vision_assessments_total",
			Help:      "Camera frame assessments by status and classifier path.",
		}, []string{"status", "source"}),
		VisionEdgeDensity: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_sentry",
			Name:      "vision_edge_density",
			Help:      "Fraction of edge pixels in analysed camera frames.",
			Buckets:   []float64{0.01, 0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5},
		}),
		DistressSignals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "distress_signals_total",
			Help:      "Cycles whose text input contained a distress keyword.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "alerts_published_total",
			Help:      "Assessments written to the alert topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "publish_errors_total",
			Help:      "Assessments that failed to publish.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_sentry",
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_sentry",
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.CyclesEvaluated,
		m.SystemState,
		m.CycleDuration,
		m.MonitorRunning,
		m.RainfallFetches,
		m.RainfallFetchDuration,
		m.RainfallFallbacks,
		m.RainfallIntensity,
		m.RainfallProvenance,
		m.SiteRiskScore,
		m.VisionAssessments,
		m.VisionEdgeDensity,
		m.DistressSignals,
		m.AlertsPublished,
		m.PublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	}
}
