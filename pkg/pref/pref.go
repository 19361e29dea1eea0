// Package pref provides persisted user preferences.
//
// A preference is a typed value stored under a string key in a Storage.
// The browser keeps the persisted copy: over plain HTTP it lives in a cookie
// (CookieStorage); over a live connection the server records it in memory and
// asks the client to write it back (see ClientStorage).
//
// Example:
//
//	lang := pref.New("language", "en")
//	lang.Bind(pref.NewCookieStorage(r, w), pref.StringCodec[string]())
//	lang.Set("es") // persisted as language=es
package pref

import (
	"sync"
	"time"
)

// Codec converts a preference value to and from its persisted string form.
type Codec[T any] struct {
	Encode func(T) string
	Decode func(string) (T, bool)
}

// StringCodec stores string-like values verbatim.
func StringCodec[T ~string]() Codec[T] {
	return Codec[T]{
		Encode: func(v T) string { return string(v) },
		Decode: func(s string) (T, bool) { return T(s), s != "" },
	}
}

// Pref represents a persisted user preference.
type Pref[T any] struct {
	key       string
	value     T
	updatedAt time.Time

	mu sync.RWMutex

	storage Storage
	codec   Codec[T]
}

// New creates a new preference with the given key and default value.
func New[T any](key string, defaultValue T) *Pref[T] {
	return &Pref[T]{
		key:       key,
		value:     defaultValue,
		updatedAt: time.Now(),
	}
}

// Bind attaches a storage to the preference. If the storage already holds a
// decodable value it becomes the current value and Bind reports true.
func (p *Pref[T]) Bind(storage Storage, codec Codec[T]) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.storage = storage
	p.codec = codec

	if storage == nil || codec.Decode == nil {
		return false
	}
	raw, ok := storage.Load(p.key)
	if !ok {
		return false
	}
	v, ok := codec.Decode(raw)
	if !ok {
		return false
	}
	p.value = v
	return true
}

// Get returns the current preference value.
func (p *Pref[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set updates the value and persists it to the bound storage.
func (p *Pref[T]) Set(value T) {
	p.mu.Lock()
	p.value = value
	p.updatedAt = time.Now()
	storage, codec := p.storage, p.codec
	p.mu.Unlock()

	if storage != nil && codec.Encode != nil {
		storage.Store(p.key, codec.Encode(value))
	}
}

// Key returns the preference key.
func (p *Pref[T]) Key() string {
	return p.key
}

// UpdatedAt returns when the preference was last updated.
func (p *Pref[T]) UpdatedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updatedAt
}
