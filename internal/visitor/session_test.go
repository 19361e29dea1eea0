package visitor

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/language"
	"github.com/patagonia-pages/bookpage/internal/sections"
	"github.com/patagonia-pages/bookpage/pkg/clock"
	"github.com/patagonia-pages/bookpage/pkg/toast"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var table = i18n.MustLoad()

type recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recorder) Send(f Frame) error {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
	return nil
}

func (r *recorder) ofType(typ string) []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Frame
	for _, f := range r.frames {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

func (r *recorder) last(typ string) (Frame, bool) {
	fs := r.ofType(typ)
	if len(fs) == 0 {
		return Frame{}, false
	}
	return fs[len(fs)-1], true
}

func newSession(t *testing.T, req Request) (*Session, *clock.Manual, *recorder) {
	t.Helper()
	c := clock.NewManual(time.Unix(0, 0))
	s := New("test", Deps{
		Table:            table,
		Site:             sections.DefaultSite(),
		Base:             "/",
		Clock:            c,
		ToastRemoveDelay: 5 * time.Second,
		WaitlistDelay:    time.Second,
	}, req)
	t.Cleanup(s.Close)

	rec := &recorder{}
	s.Attach(rec)
	return s, c, rec
}

func TestNewSessionLanguage(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want i18n.Language
	}{
		{"stored spanish", Request{Stored: "es", Locale: "en-US"}, i18n.Spanish},
		{"stored english", Request{Stored: "en", Locale: "es-ES"}, i18n.English},
		{"detected spanish", Request{Locale: "es-AR,es;q=0.9"}, i18n.Spanish},
		{"detected default", Request{Locale: "fr-FR"}, i18n.English},
		{"invalid stored", Request{Stored: "xx"}, i18n.English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newSession(t, tt.req)
			if got := s.Language.Language(); got != tt.want {
				t.Errorf("Language() = %q, want %q", got, tt.want)
			}
			if s.Lang() != tt.want.String() {
				t.Errorf("Lang() = %q, want %q", s.Lang(), tt.want)
			}
		})
	}
}

func TestToggleLanguageRerendersAndPersists(t *testing.T) {
	s, _, rec := newSession(t, Request{})

	if _, err := s.HandleEvent(context.Background(), Event{Name: EventToggleLang}); err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	frame, ok := rec.last(FrameRender)
	if !ok {
		t.Fatal("expected a render frame")
	}
	if frame.Lang != "es" {
		t.Errorf("render lang = %q, want es", frame.Lang)
	}
	es := table.Catalog(i18n.Spanish)
	if !strings.Contains(frame.HTML, es.Nav.AboutBook) {
		t.Errorf("render should contain Spanish nav label %q", es.Nav.AboutBook)
	}
	if !strings.Contains(frame.HTML, `id="app"`) {
		t.Error("render should be the page root")
	}

	persist, ok := rec.last(FramePersist)
	if !ok || persist.Key != language.StorageKey || persist.Value != "es" {
		t.Errorf("persist frame = %+v", persist)
	}
}

func TestLanguageEvent(t *testing.T) {
	s, _, _ := newSession(t, Request{})

	if _, err := s.HandleEvent(context.Background(), Event{Name: EventLanguage, Value: "es"}); err != nil {
		t.Fatalf("lang es error = %v", err)
	}
	if s.Language.Language() != i18n.Spanish {
		t.Errorf("Language() = %q", s.Language.Language())
	}

	_, err := s.HandleEvent(context.Background(), Event{Name: EventLanguage, Value: "de"})
	if !errors.HasCode(err, "E002") {
		t.Errorf("lang de error = %v, want E002", err)
	}
}

func TestNavigationEvents(t *testing.T) {
	s, _, rec := newSession(t, Request{})
	ctx := context.Background()

	s.HandleEvent(ctx, Event{Name: EventMenu})
	if !s.Nav.MenuOpen() {
		t.Fatal("menu should be open")
	}

	replies, err := s.HandleEvent(ctx, Event{Name: EventNavigate, Args: map[string]string{"anchor": "author"}})
	if err != nil {
		t.Fatalf("navigate error = %v", err)
	}
	if len(replies) != 1 || replies[0].Type != FrameScroll || replies[0].Target != "author" {
		t.Errorf("navigate replies = %+v", replies)
	}
	if s.Nav.MenuOpen() {
		t.Error("navigating should close the menu")
	}

	if _, err := s.HandleEvent(ctx, Event{Name: EventNavigate, Args: map[string]string{"anchor": "nowhere"}}); !errors.HasCode(err, "E003") {
		t.Errorf("unknown anchor error = %v, want E003", err)
	}

	replies, _ = s.HandleEvent(ctx, Event{Name: EventTop})
	if len(replies) != 1 || replies[0].Target != "top" {
		t.Errorf("top replies = %+v", replies)
	}

	s.HandleEvent(ctx, Event{Name: EventScroll, Y: 120})
	if !s.Nav.Scrolled() {
		t.Error("scroll past the threshold should mark the page scrolled")
	}
	frame, _ := rec.last(FrameRender)
	if !strings.Contains(frame.HTML, "navigation-scrolled") {
		t.Error("scrolled render should use the scrolled navigation")
	}
}

func TestCarouselEvent(t *testing.T) {
	s, _, _ := newSession(t, Request{})
	ctx := context.Background()

	s.HandleEvent(ctx, Event{Name: EventCarousel, Args: map[string]string{"dir": "next"}})
	if s.Carousel.Index() != 1 {
		t.Errorf("Index() = %d, want 1", s.Carousel.Index())
	}
	s.HandleEvent(ctx, Event{Name: EventCarousel, Args: map[string]string{"dir": "next"}})
	if s.Carousel.Index() != 0 {
		t.Errorf("Index() = %d, want 0 after looping", s.Carousel.Index())
	}
}

func TestSubmitFlow(t *testing.T) {
	for _, lang := range i18n.Supported() {
		t.Run(lang.String(), func(t *testing.T) {
			s, c, rec := newSession(t, Request{Stored: lang.String()})
			ctx := context.Background()

			s.HandleEvent(ctx, Event{Name: EventEmail, Value: "reader@example.com"})
			if _, err := s.HandleEvent(ctx, Event{Name: EventSubmit}); err != nil {
				t.Fatalf("submit error = %v", err)
			}
			if !s.Waitlist.IsSubmitting() {
				t.Fatal("form should be submitting")
			}

			c.Advance(time.Second)

			if s.Waitlist.IsSubmitting() || s.Waitlist.Email() != "" {
				t.Errorf("after completion: %+v", s.Waitlist.Snapshot())
			}
			frame, ok := rec.last(FrameToast)
			if !ok {
				t.Fatal("expected a toast frame")
			}
			want := table.Catalog(lang).Preorder.SuccessTitle
			if frame.Toast["title"] != want {
				t.Errorf("toast title = %v, want %q", frame.Toast["title"], want)
			}
			render, _ := rec.last(FrameRender)
			if !strings.Contains(render.HTML, want) {
				t.Error("re-render should include the toast")
			}
		})
	}
}

func TestSubmitEmptyEmailIsIgnored(t *testing.T) {
	s, c, rec := newSession(t, Request{})

	if _, err := s.HandleEvent(context.Background(), Event{Name: EventSubmit}); err != nil {
		t.Fatalf("submit error = %v", err)
	}
	c.Advance(time.Minute)

	if s.Waitlist.IsSubmitting() {
		t.Error("empty submit should not start")
	}
	if len(s.Toasts.Toasts()) != 0 || len(rec.ofType(FrameToast)) != 0 {
		t.Error("empty submit should not raise a toast")
	}
}

func TestSubmitEventCarriesEmail(t *testing.T) {
	s, _, _ := newSession(t, Request{})

	s.HandleEvent(context.Background(), Event{Name: EventSubmit, Args: map[string]string{"email": "a@b.co"}})
	if !s.Waitlist.IsSubmitting() {
		t.Error("submit with an email argument should start")
	}
}

func TestDismissEvent(t *testing.T) {
	s, c, _ := newSession(t, Request{})
	h := s.Toasts.Toast(toast.Payload{Title: "hi"})

	s.HandleEvent(context.Background(), Event{Name: EventDismiss, Args: map[string]string{"id": h.ID}})
	if got := s.Toasts.Toasts(); len(got) != 1 || got[0].Open {
		t.Fatalf("after dismiss: %+v", got)
	}
	c.Advance(5 * time.Second)
	if len(s.Toasts.Toasts()) != 0 {
		t.Error("dismissed toast should be removed after the delay")
	}
}

func TestUnknownEvent(t *testing.T) {
	s, _, _ := newSession(t, Request{})

	_, err := s.HandleEvent(context.Background(), Event{Name: "explode"})
	if !errors.HasCode(err, "E005") {
		t.Fatalf("error = %v, want E005", err)
	}
	f := ErrorFrame(err)
	if f.Type != FrameError || f.Code != "E005" {
		t.Errorf("ErrorFrame() = %+v", f)
	}
}

func TestDetachStopsFrames(t *testing.T) {
	s, _, _ := newSession(t, Request{})
	rec := &recorder{}
	detach := s.Attach(rec)
	if s.Conns() != 2 {
		t.Fatalf("Conns() = %d, want 2", s.Conns())
	}

	detach()
	s.HandleEvent(context.Background(), Event{Name: EventMenu})
	if len(rec.frames) != 0 {
		t.Errorf("detached connection got %d frames", len(rec.frames))
	}
}

func TestCloseCancelsSubmission(t *testing.T) {
	s, c, _ := newSession(t, Request{})
	s.Waitlist.SetEmail("reader@example.com")

	task, err := s.Submit()
	if err != nil || task == nil {
		t.Fatalf("Submit() = %v, %v", task, err)
	}
	s.Close()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task should finish when the session closes")
	}
	if !errors.HasCode(task.Err(), "E006") {
		t.Errorf("task error = %v, want E006", task.Err())
	}
	c.Advance(time.Minute)
	if len(s.Toasts.Toasts()) != 0 {
		t.Error("cancelled submission should not raise a toast")
	}
	if c.Pending() != 0 {
		t.Errorf("%d timers still pending", c.Pending())
	}
	if s.Conns() != 0 {
		t.Error("Close should drop connections")
	}
}
