package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "bookpage").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "bookpage",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of the site.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	activeSessions   prometheus.Gauge
	liveConnections  prometheus.Gauge
	liveEvents       *prometheus.CounterVec
	sessionsClosed   *prometheus.CounterVec
	waitlist         *prometheus.CounterVec
	languageSwitches *prometheus.CounterVec
	toasts           *prometheus.CounterVec
	wsErrors         *prometheus.CounterVec
}

// NewMetrics registers the site metrics.
//
// Metrics collected:
//   - bookpage_http_requests_total: requests by route, method and status
//   - bookpage_http_request_duration_seconds: request duration by route
//   - bookpage_active_sessions: visitor sessions held in memory
//   - bookpage_live_connections: open live WebSocket connections
//   - bookpage_live_events_total: live events by name and status
//   - bookpage_sessions_closed_total: closed sessions by reason
//   - bookpage_waitlist_submissions_total: waitlist submissions by outcome
//   - bookpage_language_switches_total: language changes by target language
//   - bookpage_toasts_total: toast store actions by type
//   - bookpage_websocket_errors_total: WebSocket errors by type
//
// Expose them with promhttp:
//
//	r.Handle("/metrics", promhttp.Handler())
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		requestsTotal: counter("http_requests_total",
			"Total number of HTTP requests", "route", "method", "status"),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		activeSessions:  gauge("active_sessions", "Number of visitor sessions held in memory"),
		liveConnections: gauge("live_connections", "Number of open live WebSocket connections"),

		liveEvents: counter("live_events_total",
			"Total number of live events processed", "event", "status"),
		sessionsClosed: counter("sessions_closed_total",
			"Total number of closed visitor sessions", "reason"),
		waitlist: counter("waitlist_submissions_total",
			"Waitlist submissions by outcome", "outcome"),
		languageSwitches: counter("language_switches_total",
			"Language changes by target language", "language"),
		toasts: counter("toasts_total",
			"Toast store actions by type", "action"),
		wsErrors: counter("websocket_errors_total",
			"Total WebSocket errors by type", "type"),
	}
}

// Handler returns middleware recording the request count and duration.
// Requests are labelled with the chi route pattern, so it must run inside
// a chi router.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
	})
}

// routePattern returns the matched chi route, which keeps label
// cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// SessionCreated records a new visitor session.
func (m *Metrics) SessionCreated() {
	m.activeSessions.Inc()
}

// SessionClosed records a session leaving memory.
func (m *Metrics) SessionClosed(reason string) {
	m.activeSessions.Dec()
	m.sessionsClosed.WithLabelValues(reason).Inc()
}

// LiveConnected records an opened live connection.
func (m *Metrics) LiveConnected() {
	m.liveConnections.Inc()
}

// LiveDisconnected records a closed live connection.
func (m *Metrics) LiveDisconnected() {
	m.liveConnections.Dec()
}

// LiveEvent records a processed live event.
func (m *Metrics) LiveEvent(name string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.liveEvents.WithLabelValues(name, status).Inc()
}

// Waitlist records a waitlist submission outcome.
func (m *Metrics) Waitlist(outcome string) {
	m.waitlist.WithLabelValues(outcome).Inc()
}

// LanguageSwitch records a language change.
func (m *Metrics) LanguageSwitch(lang string) {
	m.languageSwitches.WithLabelValues(lang).Inc()
}

// Toast records a toast store action.
func (m *Metrics) Toast(action string) {
	m.toasts.WithLabelValues(action).Inc()
}

// WebSocketError records a WebSocket error.
func (m *Metrics) WebSocketError(errorType string) {
	m.wsErrors.WithLabelValues(errorType).Inc()
}
