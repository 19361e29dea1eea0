// Package middleware provides the observability middleware of the site
// server.
//
// # Prometheus Metrics
//
// Metrics registers the site collectors and records HTTP requests through
// its Handler middleware. The remaining methods are hooks for the session
// manager, the live transport and the visitor sessions:
//
//	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(metrics.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # OpenTelemetry
//
// OpenTelemetry starts a server span per request using the global tracer
// provider, continuing any incoming trace context:
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// Live events are traced with StartEvent and EndEvent.
package middleware
