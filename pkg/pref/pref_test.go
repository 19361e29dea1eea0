package pref

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type lang string

// TestPrefNew tests creating new preferences.
func TestPrefNew(t *testing.T) {
	p := New("theme", "light")

	if p.Key() != "theme" {
		t.Errorf("Key: got %v, want theme", p.Key())
	}
	if p.Get() != "light" {
		t.Errorf("Get: got %v, want light", p.Get())
	}
	if p.UpdatedAt().IsZero() {
		t.Error("UpdatedAt should not be zero")
	}
}

// TestPrefSetGet tests setting and getting values.
func TestPrefSetGet(t *testing.T) {
	p := New("theme", "light")

	p.Set("dark")
	if p.Get() != "dark" {
		t.Errorf("After Set: got %v, want dark", p.Get())
	}
}

func TestPrefBindLoadsPersistedValue(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Store("language", "es")

	p := New[lang]("language", "en")
	if !p.Bind(storage, StringCodec[lang]()) {
		t.Fatal("Bind should report a loaded value")
	}
	if p.Get() != "es" {
		t.Errorf("Get after Bind = %q, want es", p.Get())
	}
}

func TestPrefBindWithoutValue(t *testing.T) {
	p := New[lang]("language", "en")
	if p.Bind(NewMemoryStorage(), StringCodec[lang]()) {
		t.Error("Bind should report false for an empty storage")
	}
	if p.Get() != "en" {
		t.Errorf("Get = %q, want default en", p.Get())
	}
}

func TestPrefBindRejectsUndecodable(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Store("language", "fr")

	codec := Codec[lang]{
		Encode: func(l lang) string { return string(l) },
		Decode: func(s string) (lang, bool) { return lang(s), s == "en" || s == "es" },
	}
	p := New[lang]("language", "en")
	if p.Bind(storage, codec) {
		t.Error("Bind should ignore values the codec rejects")
	}
	if p.Get() != "en" {
		t.Errorf("Get = %q, want en", p.Get())
	}
}

func TestPrefSetPersists(t *testing.T) {
	storage := NewMemoryStorage()
	p := New[lang]("language", "en")
	p.Bind(storage, StringCodec[lang]())

	p.Set("es")

	if v, _ := storage.Load("language"); v != "es" {
		t.Errorf("persisted = %q, want es", v)
	}
}

func TestCookieStorage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "language", Value: "es"})
	rec := httptest.NewRecorder()

	s := NewCookieStorage(req, rec)
	if v, ok := s.Load("language"); !ok || v != "es" {
		t.Errorf("Load = %q, %v; want es, true", v, ok)
	}

	s.Store("language", "en")
	if v, _ := s.Load("language"); v != "en" {
		t.Errorf("Load after Store = %q, want en", v)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "language" || c.Value != "en" || c.Path != "/" {
		t.Errorf("cookie = %+v", c)
	}
	if c.MaxAge <= 0 {
		t.Errorf("cookie MaxAge = %d, want positive", c.MaxAge)
	}
}

func TestCookieStorageMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s := NewCookieStorage(req, httptest.NewRecorder())
	if _, ok := s.Load("language"); ok {
		t.Error("Load should report false without a cookie")
	}
}

func TestClientStorage(t *testing.T) {
	s := NewClientStorage(map[string]string{"language": "es"})
	if v, ok := s.Load("language"); !ok || v != "es" {
		t.Errorf("seeded Load = %q, %v", v, ok)
	}

	var sent [][2]string
	s.SetSink(func(k, v string) { sent = append(sent, [2]string{k, v}) })
	s.Store("language", "en")

	if len(sent) != 1 || sent[0] != [2]string{"language", "en"} {
		t.Errorf("sink saw %v", sent)
	}
	if v, _ := s.Load("language"); v != "en" {
		t.Errorf("Load after Store = %q", v)
	}
}
