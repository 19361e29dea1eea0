package site

import (
	"bytes"
	stderrors "errors"
	"net"
	"net/http"
	"strings"

	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/i18n"
	"github.com/patagonia-pages/bookpage/internal/language"
	"github.com/patagonia-pages/bookpage/internal/sections"
	"github.com/patagonia-pages/bookpage/internal/visitor"
	"github.com/patagonia-pages/bookpage/pkg/pref"
	"github.com/patagonia-pages/bookpage/pkg/session"
)

// SessionCookie carries the visitor session id.
const SessionCookie = "bp_session"

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	// A session already driven by another tab is not shared; each tab
	// owns its state.
	sess, err := s.visitorSession(w, r, false)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	page := Document(r.Context(), sess, PageOptions{
		Assets: s.assets,
		Base:   s.config.Server.BasePath,
		Live:   true,
	})
	if err := s.renderer.RenderPage(&buf, page); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Language", sess.Lang())
	w.Header().Add("Vary", "Cookie, Accept-Language")
	w.Write(buf.Bytes())
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.visitorSession(w, r, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	value := strings.TrimSpace(r.PostFormValue("lang"))
	var lang i18n.Language
	if value == "" {
		lang = sess.Language.Toggle()
	} else {
		l, ok := i18n.Parse(value)
		if !ok {
			s.fail(w, r, errors.New("E002").
				WithDetailf("language %q", value).
				WithSuggestion("Use one of: en, es"))
			return
		}
		if err := sess.Language.SetLanguage(l); err != nil {
			s.fail(w, r, err)
			return
		}
		lang = l
	}

	s.persistLanguage(w, r, lang)
	s.redirect(w, r, "")
}

// persistLanguage stores lang in the browser's language cookie, scoped to
// the base path like the live client's persist frames.
func (s *Server) persistLanguage(w http.ResponseWriter, r *http.Request, lang i18n.Language) {
	storage := pref.NewCookieStorage(r, w)
	storage.Path = s.config.Server.BasePath
	storage.Secure = s.config.Session.SecureCookies && isSecure(r)

	p := pref.New(language.StorageKey, lang)
	p.Bind(storage, pref.StringCodec[i18n.Language]())
	p.Set(lang)
}

func (s *Server) handleWaitlist(w http.ResponseWriter, r *http.Request) {
	sess, err := s.visitorSession(w, r, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	sess.Waitlist.SetEmail(strings.TrimSpace(r.PostFormValue("email")))
	task, err := sess.Submit()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if task != nil {
		// The toast is part of the session and shows on the next render.
		if err := task.Wait(r.Context()); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	s.redirect(w, r, "#preorder")
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	sess, err := s.visitorSession(w, r, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if id := r.PostFormValue("id"); id != "" {
		sess.Toasts.Dismiss(id)
	}
	s.redirect(w, r, "")
}

func (s *Server) handleCarousel(w http.ResponseWriter, r *http.Request) {
	sess, err := s.visitorSession(w, r, true)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess.Carousel.Move(sections.Direction(r.PostFormValue("dir")))
	s.redirect(w, r, "#about")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// visitorSession returns the session named by the session cookie or
// creates one. With shareLive false a session that has live connections
// is not reused, so a second tab gets its own state.
func (s *Server) visitorSession(w http.ResponseWriter, r *http.Request, shareLive bool) (*visitor.Session, error) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if ms, ok := s.sessions.Get(c.Value); ok {
			if shareLive || ms.Value.Conns() == 0 {
				return ms.Value, nil
			}
		}
	}

	req := visitor.Request{Locale: r.Header.Get("Accept-Language")}
	if c, err := r.Cookie(language.StorageKey); err == nil {
		req.Stored = c.Value
	}

	ms, err := s.sessions.Create(clientIP(r), func(id string) (*visitor.Session, error) {
		return visitor.New(id, s.deps(), req), nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	http.SetCookie(w, s.cookie(r, SessionCookie, ms.ID, 0, true))
	return ms.Value, nil
}

func sessionError(err error) error {
	switch {
	case stderrors.Is(err, session.ErrManagerStopped):
		return errors.New("E302").Wrap(err)
	case stderrors.Is(err, session.ErrMaxSessionsReached),
		stderrors.Is(err, session.ErrTooManySessionsFromIP):
		return errors.New("E301").Wrap(err)
	}
	return err
}

// cookie builds a cookie scoped to the base path. maxAge 0 makes a
// browser-session cookie.
func (s *Server) cookie(r *http.Request, name, value string, maxAge int, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     s.config.Server.BasePath,
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.config.Session.SecureCookies && isSecure(r),
	}
}

// redirect answers a form post with 303 to the page, plus fragment.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, fragment string) {
	http.Redirect(w, r, s.config.Server.BasePath+fragment, http.StatusSeeOther)
}

// fail writes err with the status of its category.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "30")
	}
	http.Error(w, err.Error(), status)
}

// clientIP returns the request IP. chi's RealIP has already applied the
// forwarding headers to RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
