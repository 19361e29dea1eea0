package visitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/language"
	"github.com/patagonia-pages/bookpage/internal/nav"
	"github.com/patagonia-pages/bookpage/internal/sections"
	"github.com/patagonia-pages/bookpage/internal/waitlist"
	"github.com/patagonia-pages/bookpage/pkg/clock"
	"github.com/patagonia-pages/bookpage/pkg/pref"
	"github.com/patagonia-pages/bookpage/pkg/render"
	"github.com/patagonia-pages/bookpage/pkg/toast"
	"github.com/patagonia-pages/bookpage/pkg/vdom"
)

// Deps are the values shared by every session of a server.
type Deps struct {
	Table  *i18n.Table
	Site   sections.Site
	Assets sections.Assets
	Base   string

	// Static renders pages for static hosting.
	Static bool

	ToastRemoveDelay time.Duration
	WaitlistDelay    time.Duration

	Clock  clock.Clock
	Logger *slog.Logger

	// Optional metric hooks.
	Recorder   waitlist.Recorder
	OnToast    func(toast.ActionType)
	OnLanguage func(i18n.Language)
}

// Request carries what the first request of a visitor tells about them.
type Request struct {
	// Stored is the persisted language preference, if any.
	Stored string

	// Locale is the browser locale signal, typically Accept-Language.
	Locale string
}

// Session is the state of one visitor.
type Session struct {
	ID string

	Language *language.Provider
	Toasts   *toast.Store
	Waitlist *waitlist.Form
	Nav      *nav.State
	Carousel *sections.Carousel

	deps     Deps
	logger   *slog.Logger
	renderer *render.Renderer
	storage  *pref.ClientStorage

	// ctx scopes work that outlives a single event, such as a waitlist
	// submission. It is cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
	unsubs []func()

	renderMu sync.Mutex

	mu        sync.Mutex
	conns     map[uint64]Conn
	nextConn  uint64
	lastToast string
	closed    bool
}

// New creates the session id for a visitor.
func New(id string, deps Deps, req Request) *Session {
	if deps.Clock == nil {
		deps.Clock = clock.Real()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.ToastRemoveDelay <= 0 {
		deps.ToastRemoveDelay = toast.DefaultRemoveDelay
	}
	if deps.WaitlistDelay <= 0 {
		deps.WaitlistDelay = waitlist.DefaultDelay
	}
	logger := deps.Logger.With("session_id", id)

	seed := map[string]string{}
	if req.Stored != "" {
		seed[language.StorageKey] = req.Stored
	}
	storage := pref.NewClientStorage(seed)

	toastOpts := []toast.Option{
		toast.WithRemoveDelay(deps.ToastRemoveDelay),
		toast.WithClock(deps.Clock),
		toast.WithLogger(logger),
	}
	if deps.OnToast != nil {
		toastOpts = append(toastOpts, toast.WithObserver(deps.OnToast))
	}
	toasts := toast.New(toastOpts...)

	formOpts := []waitlist.Option{
		waitlist.WithDelay(deps.WaitlistDelay),
		waitlist.WithClock(deps.Clock),
		waitlist.WithLogger(logger),
	}
	if deps.Recorder != nil {
		formOpts = append(formOpts, waitlist.WithRecorder(deps.Recorder))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID: id,
		Language: language.NewProvider(deps.Table, storage, req.Locale, language.NewDocument(),
			language.WithLogger(logger)),
		Toasts:   toasts,
		Waitlist: waitlist.New(toasts, formOpts...),
		Nav:      nav.New(),
		Carousel: sections.NewCarousel(len(sections.PreviewImages)),
		deps:     deps,
		logger:   logger,
		renderer: render.NewRenderer(render.RendererConfig{}),
		storage:  storage,
		ctx:      ctx,
		cancel:   cancel,
		conns:    make(map[uint64]Conn),
	}

	storage.SetSink(func(key, value string) {
		s.broadcast(Frame{Type: FramePersist, Key: key, Value: value})
	})

	s.unsubs = append(s.unsubs,
		s.Language.Subscribe(func(st language.State) {
			if deps.OnLanguage != nil {
				deps.OnLanguage(st.Language)
			}
			s.refresh()
		}),
		s.Toasts.Subscribe(func(records []toast.Record) {
			s.announce(records)
			s.refresh()
		}),
		s.Waitlist.Subscribe(func(waitlist.Snapshot) { s.refresh() }),
		s.Nav.Subscribe(func(nav.Snapshot) { s.refresh() }),
		s.Carousel.Subscribe(func(int) { s.refresh() }),
	)

	logger.Debug("visitor session created",
		"language", s.Language.Language(),
		"language_source", s.Language.Source())
	return s
}

// View returns the render input for the current state.
func (s *Session) View() sections.View {
	return sections.View{
		Site:     s.deps.Site,
		Assets:   s.deps.Assets,
		Base:     s.deps.Base,
		Static:   s.deps.Static,
		Nav:      s.Nav.Snapshot(),
		Form:     s.Waitlist.Snapshot(),
		Toasts:   s.Toasts.Toasts(),
		Carousel: s.Carousel.Index(),
	}
}

// Page builds the page root for the current state.
func (s *Session) Page(ctx context.Context) *vdom.VNode {
	return sections.Home(s.withProvider(ctx), s.View())
}

// Render returns the HTML of the page root.
func (s *Session) Render() (string, error) {
	return s.renderer.RenderToString(s.Page(s.ctx))
}

// Lang returns the document language.
func (s *Session) Lang() string {
	return s.Language.Document().Lang()
}

// Submit starts a waitlist submission bound to the session lifetime.
func (s *Session) Submit() (*waitlist.Task, error) {
	return s.Waitlist.HandleSubmit(s.withProvider(s.ctx))
}

// Attach registers a live connection. The returned function detaches it.
func (s *Session) Attach(c Conn) func() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	id := s.nextConn
	s.nextConn++
	s.conns[id] = c
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
	}
}

// Conns returns the number of attached live connections.
func (s *Session) Conns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// RenderFrame returns a render frame for the current state.
func (s *Session) RenderFrame() (Frame, error) {
	html, err := s.Render()
	if err != nil {
		return Frame{}, err
	}
	return Frame{Type: FrameRender, HTML: html, Lang: s.Lang()}, nil
}

// refresh re-renders the page root and sends it to every connection.
func (s *Session) refresh() {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	if s.Conns() == 0 {
		return
	}
	frame, err := s.RenderFrame()
	if err != nil {
		s.logger.Error("render failed", "error", err)
		return
	}
	s.broadcast(frame)
}

// announce sends a toast frame when a new toast opens.
func (s *Session) announce(records []toast.Record) {
	if len(records) == 0 || !records[0].Open {
		return
	}
	s.mu.Lock()
	if records[0].ID == s.lastToast {
		s.mu.Unlock()
		return
	}
	s.lastToast = records[0].ID
	s.mu.Unlock()

	s.broadcast(Frame{Type: FrameToast, Toast: toast.Event(records[0])})
}

func (s *Session) broadcast(f Frame) {
	s.mu.Lock()
	conns := make([]Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.Send(f); err != nil {
			s.logger.Debug("live send failed", "frame", f.Type, "error", err)
		}
	}
}

// Close cancels pending work, stops timers and drops every connection.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.conns = make(map[uint64]Conn)
	s.mu.Unlock()

	s.cancel()
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.Waitlist.Close()
	s.Toasts.Close()
	s.logger.Debug("visitor session closed")
}
