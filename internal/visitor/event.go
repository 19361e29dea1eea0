package visitor

import (
	"context"
	stderrors "errors"

	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/language"
	"github.com/patagonia-pages/bookpage/internal/sections"
)

// Live event names, as set by the data-live-* attributes of the page and
// the scroll listener of the client.
const (
	EventScroll     = "scroll"
	EventMenu       = "menu"
	EventNavigate   = "navigate"
	EventTop        = "top"
	EventLanguage   = "lang"
	EventToggleLang = "toggle_lang"
	EventEmail      = "email"
	EventSubmit     = "submit"
	EventDismiss    = "dismiss"
	EventCarousel   = "carousel"
)

// Event is one client-to-server message on the live connection.
type Event struct {
	Name  string            `json:"name"`
	Args  map[string]string `json:"args,omitempty"`
	Value string            `json:"value,omitempty"`
	Y     float64           `json:"y,omitempty"`
}

// Arg returns the data-arg-key value sent with the event.
func (e Event) Arg(key string) string {
	return e.Args[key]
}

// HandleEvent applies a live event. The returned frames go to the
// connection that sent the event only; state changes reach every
// connection through the re-render.
func (s *Session) HandleEvent(ctx context.Context, ev Event) ([]Frame, error) {
	s.logger.Debug("live event", "event", ev.Name)

	switch ev.Name {
	case EventScroll:
		s.Nav.OnScroll(ev.Y)

	case EventMenu:
		s.Nav.ToggleMenu()

	case EventNavigate:
		target, err := s.Nav.ScrollTo(ev.Arg("anchor"))
		if err != nil {
			return nil, err
		}
		return []Frame{{Type: FrameScroll, Target: target}}, nil

	case EventTop:
		return []Frame{{Type: FrameScroll, Target: s.Nav.ScrollToTop()}}, nil

	case EventLanguage:
		value := ev.Value
		if value == "" {
			value = ev.Arg("lang")
		}
		lang, ok := i18n.Parse(value)
		if !ok {
			return nil, errors.New("E002").
				WithDetailf("language %q", value).
				WithSuggestion("Use one of: en, es")
		}
		return nil, s.Language.SetLanguage(lang)

	case EventToggleLang:
		s.Language.Toggle()

	case EventEmail:
		s.Waitlist.SetEmail(ev.Value)

	case EventSubmit:
		if email, ok := ev.Args["email"]; ok {
			s.Waitlist.SetEmail(email)
		}
		// The submission outlives the event; it belongs to the session.
		if _, err := s.Submit(); err != nil {
			return nil, err
		}

	case EventDismiss:
		s.Toasts.Dismiss(ev.Arg("id"))

	case EventCarousel:
		s.Carousel.Move(sections.Direction(ev.Arg("dir")))

	default:
		return nil, errors.New("E005").WithDetailf("event %q", ev.Name)
	}
	return nil, nil
}

// ErrorFrame converts a HandleEvent error to a frame for the client.
func ErrorFrame(err error) Frame {
	var coded *errors.Error
	if stderrors.As(err, &coded) {
		return Frame{Type: FrameError, Code: coded.Code, Message: coded.Message}
	}
	return Frame{Type: FrameError, Message: err.Error()}
}

// withProvider attaches the session's provider to ctx.
func (s *Session) withProvider(ctx context.Context) context.Context {
	return language.WithProvider(ctx, s.Language)
}
