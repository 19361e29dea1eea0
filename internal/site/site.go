package site

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/patagonia-pages/bookpage/internal/config"
	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/static"
	"github.com/patagonia-pages/bookpage/internal/visitor"
	"github.com/patagonia-pages/bookpage/internal/waitlist"
	"github.com/patagonia-pages/bookpage/pkg/assets"
	"github.com/patagonia-pages/bookpage/pkg/clock"
	"github.com/patagonia-pages/bookpage/pkg/middleware"
	"github.com/patagonia-pages/bookpage/pkg/render"
	"github.com/patagonia-pages/bookpage/pkg/session"
	"github.com/patagonia-pages/bookpage/pkg/toast"
)

// Options configures a Server.
type Options struct {
	Config *config.Config
	Table  *i18n.Table
	Logger *slog.Logger

	// Clock drives session activity, toast removal and waitlist delays.
	// Defaults to the real clock.
	Clock clock.Clock

	// Registry receives the metrics. Defaults to a fresh registry that
	// also carries the Go and process collectors.
	Registry *prometheus.Registry

	// Static overrides the embedded assets.
	Static fs.FS
}

// Server is the HTTP surface of the site.
type Server struct {
	config   *config.Config
	table    *i18n.Table
	logger   *slog.Logger
	clock    clock.Clock
	sessions *session.Manager[*visitor.Session]
	metrics  *middleware.Metrics
	registry *prometheus.Registry
	renderer *render.Renderer
	upgrader websocket.Upgrader

	static   fs.FS
	manifest *assets.Manifest
	assets   assets.Resolver

	handler    http.Handler
	httpServer *http.Server

	liveMu sync.Mutex
	live   map[*liveConn]struct{}
}

// New creates a Server. It fingerprints the static assets and starts the
// session cleanup loop; call Shutdown to stop it.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "site")
	table := opts.Table
	if table == nil {
		t, err := i18n.Load()
		if err != nil {
			return nil, err
		}
		table = t
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	staticFS := opts.Static
	if staticFS == nil {
		staticFS = static.FS()
	}

	manifest, err := assets.Fingerprint(staticFS)
	if err != nil {
		return nil, err
	}

	policy, err := session.ParseEvictionPolicy(cfg.Session.Eviction)
	if err != nil {
		return nil, err
	}
	sessCfg := session.DefaultManagerConfig()
	sessCfg.EvictionPolicy = policy
	if cfg.Session.IdleTimeout > 0 {
		sessCfg.IdleTimeout = cfg.Session.IdleTimeout.Std()
	}
	if cfg.Session.MaxSessions > 0 {
		sessCfg.MaxSessions = cfg.Session.MaxSessions
	}
	if cfg.Session.MaxSessionsPerIP > 0 {
		sessCfg.MaxSessionsPerIP = cfg.Session.MaxSessionsPerIP
	}

	s := &Server{
		config:   cfg,
		table:    table,
		logger:   logger,
		clock:    clk,
		metrics:  middleware.NewMetrics(middleware.WithNamespace(cfg.Metrics.Namespace), middleware.WithRegistry(reg)),
		registry: reg,
		renderer: render.NewRenderer(render.RendererConfig{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		static:   staticFS,
		manifest: manifest,
		assets:   assets.NewResolver(manifest, cfg.StaticPath()),
		live:     make(map[*liveConn]struct{}),
	}
	s.sessions = session.NewManager[*visitor.Session](sessCfg, logger,
		session.WithClock(clk),
		session.WithHooks(session.Hooks{
			OnCreate: func(string) { s.metrics.SessionCreated() },
			OnClose:  func(_ string, reason string) { s.metrics.SessionClosed(reason) },
		}),
	)
	s.handler = s.routes()

	logger.Debug("site ready",
		"assets", manifest.Len(),
		"base_path", cfg.Server.BasePath,
		"preorder_form", cfg.Site.PreorderForm)
	return s, nil
}

// routes builds the router. Everything is mounted under the base path.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimw.Recoverer)
	if s.config.Metrics.Enabled {
		r.Use(s.metrics.Handler)
	}
	if s.config.Tracing.Enabled {
		r.Use(middleware.OpenTelemetry(
			middleware.WithTracerName(s.config.Tracing.Name),
			middleware.WithRequestFilter(func(r *http.Request) bool {
				return r.URL.Path != s.url("healthz") && r.URL.Path != s.url("metrics")
			}),
		))
	}

	site := chi.NewRouter()
	site.Get("/", s.handlePage)
	site.Post("/language", s.handleLanguage)
	site.Post("/waitlist", s.handleWaitlist)
	site.Post("/toast/dismiss", s.handleDismiss)
	site.Post("/carousel", s.handleCarousel)
	site.Get("/_live", s.handleLive)
	site.Get("/"+s.config.Server.StaticPrefix+"*", s.handleStatic)
	site.Get("/healthz", s.handleHealth)
	if s.config.Metrics.Enabled {
		site.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	base := s.config.Server.BasePath
	if base == "/" {
		r.Mount("/", site)
	} else {
		r.Mount(strings.TrimSuffix(base, "/"), site)
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Metrics returns the metric recorder of the server.
func (s *Server) Metrics() *middleware.Metrics {
	return s.metrics
}

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager[*visitor.Session] {
	return s.sessions
}

// Manifest returns the asset manifest.
func (s *Server) Manifest() *assets.Manifest {
	return s.manifest
}

// Run listens on the configured address and blocks until ctx is done, an
// interrupt arrives or the listener fails. It then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			"address", s.config.Address(),
			"base_path", s.config.Server.BasePath)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			s.sessions.Shutdown(context.Background())
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout.Std())
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops the listener, closes every live connection and closes
// all sessions, cancelling submissions in flight.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			errs = append(errs, err)
		}
	}

	s.liveMu.Lock()
	conns := make([]*liveConn, 0, len(s.live))
	for c := range s.live {
		conns = append(conns, c)
	}
	s.liveMu.Unlock()
	for _, c := range conns {
		c.closeWith(websocket.CloseGoingAway, "server shutting down")
	}

	if err := s.sessions.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return stderrors.Join(errs...)
}

// deps returns the visitor dependencies shared by all sessions.
func (s *Server) deps() visitor.Deps {
	return visitor.Deps{
		Table:            s.table,
		Site:             SiteValues(s.config),
		Assets:           s.assets,
		Base:             s.config.Server.BasePath,
		ToastRemoveDelay: s.config.Site.ToastRemoveDelay.Std(),
		WaitlistDelay:    s.config.Site.WaitlistDelay.Std(),
		Clock:            s.clock,
		Logger:           s.logger,
		Recorder:         waitlistRecorder{s.metrics},
		OnToast:          func(a toast.ActionType) { s.metrics.Toast(a.String()) },
		OnLanguage:       func(l i18n.Language) { s.metrics.LanguageSwitch(l.String()) },
	}
}

// url joins the base path and p.
func (s *Server) url(p string) string {
	return s.config.Server.BasePath + p
}

type waitlistRecorder struct {
	m *middleware.Metrics
}

func (r waitlistRecorder) RecordWaitlist(o waitlist.Outcome) {
	r.m.Waitlist(string(o))
}
