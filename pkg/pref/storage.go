package pref

import (
	"net/http"
	"sync"
	"time"
)

// Storage is a string key-value store holding persisted preferences.
type Storage interface {
	Load(key string) (string, bool)
	Store(key, value string)
}

// MemoryStorage keeps preferences in memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Load(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Store(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// DefaultCookieMaxAge keeps preference cookies for a year.
const DefaultCookieMaxAge = 365 * 24 * time.Hour

// CookieStorage persists preferences as cookies on an HTTP exchange.
// Loads read the request; stores add a Set-Cookie header to the response
// and are visible to later loads on the same exchange.
type CookieStorage struct {
	r *http.Request
	w http.ResponseWriter

	// Path is the cookie path (default "/").
	Path string
	// MaxAge is the cookie lifetime.
	MaxAge time.Duration
	// Secure marks cookies Secure.
	Secure bool

	mu      sync.Mutex
	written map[string]string
}

// NewCookieStorage binds a cookie storage to a request/response pair.
func NewCookieStorage(r *http.Request, w http.ResponseWriter) *CookieStorage {
	return &CookieStorage{
		r:       r,
		w:       w,
		Path:    "/",
		MaxAge:  DefaultCookieMaxAge,
		written: make(map[string]string),
	}
}

func (c *CookieStorage) Load(key string) (string, bool) {
	c.mu.Lock()
	if v, ok := c.written[key]; ok {
		c.mu.Unlock()
		return v, true
	}
	c.mu.Unlock()

	if c.r == nil {
		return "", false
	}
	cookie, err := c.r.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (c *CookieStorage) Store(key, value string) {
	c.mu.Lock()
	c.written[key] = value
	c.mu.Unlock()

	if c.w == nil {
		return
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     c.Path,
		MaxAge:   int(c.MaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   c.Secure,
	})
}

// ClientStorage keeps preferences in memory for a live session and reports
// every store to a sink that forwards it to the browser.
type ClientStorage struct {
	mem  *MemoryStorage
	sink func(key, value string)
}

// NewClientStorage seeds a client storage with values the browser already
// holds. sink may be set later with SetSink.
func NewClientStorage(seed map[string]string) *ClientStorage {
	mem := NewMemoryStorage()
	for k, v := range seed {
		mem.Store(k, v)
	}
	return &ClientStorage{mem: mem}
}

// SetSink sets the function notified on every Store.
func (c *ClientStorage) SetSink(sink func(key, value string)) {
	c.mem.mu.Lock()
	c.sink = sink
	c.mem.mu.Unlock()
}

func (c *ClientStorage) Load(key string) (string, bool) {
	return c.mem.Load(key)
}

func (c *ClientStorage) Store(key, value string) {
	c.mem.Store(key, value)

	c.mem.mu.RLock()
	sink := c.sink
	c.mem.mu.RUnlock()
	if sink != nil {
		sink(key, value)
	}
}
