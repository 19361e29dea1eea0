package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewMetrics(WithRegistry(reg)), reg
}

func TestMetricsHandlerRecordsRoutes(t *testing.T) {
	m, _ := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Handler)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {})
	r.Post("/waitlist", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	r.Get("/static/*", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/", nil),
		httptest.NewRequest(http.MethodGet, "/", nil),
		httptest.NewRequest(http.MethodPost, "/waitlist", nil),
		httptest.NewRequest(http.MethodGet, "/static/a.css", nil),
		httptest.NewRequest(http.MethodGet, "/static/b.css", nil),
	} {
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	tests := []struct {
		route, method, status string
		want                  float64
	}{
		{"/", "GET", "200", 2},
		{"/waitlist", "POST", "303", 1},
		{"/static/*", "GET", "404", 2},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(tt.route, tt.method, tt.status))
		if got != tt.want {
			t.Errorf("requests_total{%s,%s,%s} = %v, want %v", tt.route, tt.method, tt.status, got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(m.requestDuration); n != 3 {
		t.Errorf("duration series = %d, want 3", n)
	}
}

func TestMetricsDomainCounters(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.SessionCreated()
	m.SessionCreated()
	m.SessionClosed("expired")
	m.LiveConnected()
	m.LiveConnected()
	m.LiveDisconnected()
	m.LiveEvent("menu", nil)
	m.LiveEvent("navigate", errors.New("bad anchor"))
	m.Waitlist("completed")
	m.LanguageSwitch("es")
	m.LanguageSwitch("es")
	m.Toast("add")
	m.WebSocketError("read")

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"active_sessions", m.activeSessions, 1},
		{"sessions_closed", m.sessionsClosed.WithLabelValues("expired"), 1},
		{"live_connections", m.liveConnections, 1},
		{"live_events ok", m.liveEvents.WithLabelValues("menu", "success"), 1},
		{"live_events error", m.liveEvents.WithLabelValues("navigate", "error"), 1},
		{"waitlist", m.waitlist.WithLabelValues("completed"), 1},
		{"language_switches", m.languageSwitches.WithLabelValues("es"), 2},
		{"toasts", m.toasts.WithLabelValues("add"), 1},
		{"websocket_errors", m.wsErrors.WithLabelValues("read"), 1},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(c.c); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestMetricsNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"), WithConstLabels(prometheus.Labels{"site": "en"}))
	m.SessionCreated()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_active_sessions" {
			found = true
			if l := f.GetMetric()[0].GetLabel(); len(l) != 1 || l[0].GetValue() != "en" {
				t.Errorf("labels = %v", l)
			}
		}
	}
	if !found {
		t.Error("test_active_sessions not registered")
	}
}

func TestRoutePatternOutsideRouter(t *testing.T) {
	if got := routePattern(httptest.NewRequest(http.MethodGet, "/x", nil)); got != "unmatched" {
		t.Errorf("routePattern() = %q, want unmatched", got)
	}
}

func TestOpenTelemetryContinuesTrace(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	var extracted int
	mw := OpenTelemetry(WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
		extracted++
		return []attribute.KeyValue{attribute.String("test.attr", "ok")}
	}))

	var got trace.SpanContext
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = trace.SpanContextFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if got.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace id = %s, want the incoming one", got.TraceID())
	}
	if extracted != 1 {
		t.Errorf("extractor called %d times, want 1", extracted)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	mw := OpenTelemetry(
		WithTracerName("test"),
		WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/healthz" }),
		WithAttributeExtractor(func(*http.Request) []attribute.KeyValue {
			t.Error("filtered request should not be traced")
			return nil
		}),
	)

	called := false
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Error("filtered request should still reach the handler")
	}
}

func TestEventSpans(t *testing.T) {
	ctx, span := StartEvent(context.Background(), "sess-1", "menu")
	if !trace.SpanFromContext(ctx).SpanContext().Equal(span.SpanContext()) {
		t.Error("StartEvent should put the span in the context")
	}
	EndEvent(span, nil)

	_, span = StartEvent(context.Background(), "sess-1", "navigate")
	EndEvent(span, errors.New("E003"))
}

func TestRequestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	tests := []struct {
		path  string
		level string
		route string
	}{
		{"/", "DEBUG", "/"},
		{"/missing", "WARN", "unmatched"},
		{"/boom", "ERROR", "/boom"},
	}
	for _, tt := range tests {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("%s: decode log line %q: %v", tt.path, buf.String(), err)
		}
		if entry["level"] != tt.level {
			t.Errorf("%s: level = %v, want %s", tt.path, entry["level"], tt.level)
		}
		if entry["route"] != tt.route {
			t.Errorf("%s: route = %v, want %s", tt.path, entry["route"], tt.route)
		}
		if entry["path"] != tt.path {
			t.Errorf("%s: path = %v", tt.path, entry["path"])
		}
	}
}
