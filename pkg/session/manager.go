package session

import (
	"container/list"
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/patagonia-pages/bookpage/pkg/clock"
)

// Resource is the state held by a session. Close is called once, when the
// session leaves the manager.
type Resource interface {
	Close()
}

// ManagedSession wraps session state with management metadata.
type ManagedSession[S Resource] struct {
	// ID is the unique session identifier.
	ID string

	// IP is the client IP address for per-IP limiting.
	IP string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// Value is the session state.
	Value S

	// Guarded by the manager lock.
	lastActive time.Time
	detachedAt time.Time
	conns      int
}

// ManagerConfig configures the session manager.
type ManagerConfig struct {
	// MaxSessions is the maximum number of sessions. Zero means no limit.
	// Default: 10000.
	MaxSessions int

	// MaxSessionsPerIP is the maximum number of sessions per IP address.
	// Zero means no limit. Default: 100.
	MaxSessionsPerIP int

	// IdleTimeout is how long a detached session is kept.
	// Default: 30 minutes.
	IdleTimeout time.Duration

	// CleanupInterval is how often to clean up expired sessions.
	// Default: 1 minute.
	CleanupInterval time.Duration

	// EvictionPolicy determines which detached session goes when
	// MaxSessions is reached. Default: EvictionOldest.
	EvictionPolicy EvictionPolicy
}

// EvictionPolicy determines which sessions are evicted first.
type EvictionPolicy int

const (
	// EvictionLRU evicts the least recently active sessions first.
	EvictionLRU EvictionPolicy = iota

	// EvictionOldest evicts the oldest sessions first (by creation time).
	EvictionOldest

	// EvictionRandom evicts sessions randomly (faster but less fair).
	EvictionRandom
)

// String returns the policy name.
func (p EvictionPolicy) String() string {
	switch p {
	case EvictionLRU:
		return "lru"
	case EvictionOldest:
		return "oldest"
	case EvictionRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParseEvictionPolicy parses a policy name as printed by String.
func ParseEvictionPolicy(s string) (EvictionPolicy, error) {
	switch s {
	case "", "lru":
		return EvictionLRU, nil
	case "oldest":
		return EvictionOldest, nil
	case "random":
		return EvictionRandom, nil
	}
	return EvictionLRU, errors.New("unknown eviction policy: " + s)
}

// DefaultManagerConfig returns a ManagerConfig with sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxSessions:      10000,
		MaxSessionsPerIP: 100,
		IdleTimeout:      30 * time.Minute,
		CleanupInterval:  1 * time.Minute,
		EvictionPolicy:   EvictionOldest,
	}
}

// Close reasons passed to Hooks.OnClose.
const (
	ReasonRemoved  = "removed"
	ReasonExpired  = "expired"
	ReasonEvicted  = "evicted"
	ReasonShutdown = "shutdown"
)

// Hooks are lifecycle callbacks, called without the manager lock held.
type Hooks struct {
	OnCreate func(id string)
	OnClose  func(id string, reason string)
}

// Error types for session management.
var (
	// ErrTooManySessionsFromIP is returned when the per-IP session limit is exceeded.
	ErrTooManySessionsFromIP = errors.New("too many sessions from this IP address")

	// ErrMaxSessionsReached is returned when the session limit is reached
	// and no detached session can be evicted.
	ErrMaxSessionsReached = errors.New("maximum session limit reached")

	// ErrSessionNotFound is returned when a session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrManagerStopped is returned when operations are attempted on a stopped manager.
	ErrManagerStopped = errors.New("session manager is stopped")
)

// Option configures a Manager.
type Option func(*options)

type options struct {
	clock clock.Clock
	hooks Hooks
}

// WithClock sets the clock used for activity timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithHooks sets the lifecycle callbacks.
func WithHooks(h Hooks) Option {
	return func(o *options) {
		o.hooks = h
	}
}

// Manager manages session lifecycle and memory protection.
type Manager[S Resource] struct {
	mu sync.RWMutex

	// All sessions by ID
	sessions map[string]*ManagedSession[S]

	// Detached sessions in LRU order (front = most recently accessed)
	detachedQueue *list.List
	detachedIndex map[string]*list.Element

	// Session count per IP address
	sessionsByIP map[string]int

	config ManagerConfig
	logger *slog.Logger
	clock  clock.Clock
	hooks  Hooks

	// Random source (for EvictionRandom); overrideable for tests.
	randIntn func(n int) int

	// Lifecycle
	done    chan struct{}
	loop    sync.WaitGroup
	stopped bool
}

// NewManager creates a new session manager and starts its cleanup loop.
// Call Shutdown to stop it.
func NewManager[S Resource](config ManagerConfig, logger *slog.Logger, opts ...Option) *Manager[S] {
	if logger == nil {
		logger = slog.Default()
	}
	o := options{clock: clock.Real()}
	for _, opt := range opts {
		opt(&o)
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}

	m := &Manager[S]{
		sessions:      make(map[string]*ManagedSession[S]),
		detachedQueue: list.New(),
		detachedIndex: make(map[string]*list.Element),
		sessionsByIP:  make(map[string]int),
		config:        config,
		logger:        logger.With("component", "session_manager"),
		clock:         o.clock,
		hooks:         o.hooks,
		randIntn:      rand.Intn,
		done:          make(chan struct{}),
	}

	m.loop.Add(1)
	go m.cleanupLoop()

	return m
}

// pendingClose is a session removed under the lock, closed after it.
type pendingClose[S Resource] struct {
	sess   *ManagedSession[S]
	reason string
}

// Create registers a new detached session. build receives the new ID and
// returns the session state.
func (m *Manager[S]) Create(ip string, build func(id string) (S, error)) (*ManagedSession[S], error) {
	m.mu.Lock()

	if m.stopped {
		m.mu.Unlock()
		return nil, ErrManagerStopped
	}

	if m.config.MaxSessionsPerIP > 0 && m.sessionsByIP[ip] >= m.config.MaxSessionsPerIP {
		m.mu.Unlock()
		return nil, ErrTooManySessionsFromIP
	}

	var closed []pendingClose[S]
	if m.config.MaxSessions > 0 && len(m.sessions) >= m.config.MaxSessions {
		evicted := m.evictOneLocked()
		if evicted == nil {
			m.mu.Unlock()
			return nil, ErrMaxSessionsReached
		}
		closed = append(closed, pendingClose[S]{evicted, ReasonEvicted})
	}

	id := uuid.NewString()
	value, err := build(id)
	if err != nil {
		m.mu.Unlock()
		m.finish(closed)
		return nil, err
	}

	now := m.clock.Now()
	sess := &ManagedSession[S]{
		ID:         id,
		IP:         ip,
		CreatedAt:  now,
		Value:      value,
		lastActive: now,
		detachedAt: now,
	}
	m.sessions[id] = sess
	m.sessionsByIP[ip]++
	m.detachedIndex[id] = m.detachedQueue.PushFront(id)

	m.logger.Debug("session created",
		"session_id", id,
		"ip", ip,
		"ip_session_count", m.sessionsByIP[ip])
	m.mu.Unlock()

	m.finish(closed)
	if m.hooks.OnCreate != nil {
		m.hooks.OnCreate(id)
	}
	return sess, nil
}

// Get retrieves a session by ID and marks it active.
func (m *Manager[S]) Get(sessionID string) (*ManagedSession[S], bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	m.touchLocked(sess)
	return sess, true
}

// Touch updates the last active time for a session.
func (m *Manager[S]) Touch(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[sessionID]; ok {
		m.touchLocked(sess)
	}
}

func (m *Manager[S]) touchLocked(sess *ManagedSession[S]) {
	sess.lastActive = m.clock.Now()
	if sess.conns == 0 {
		sess.detachedAt = sess.lastActive
	}
	if elem, ok := m.detachedIndex[sess.ID]; ok {
		m.detachedQueue.MoveToFront(elem)
	}
}

// Attach records a live connection to the session. An attached session is
// never expired or evicted.
func (m *Manager[S]) Attach(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return ErrManagerStopped
	}
	sess, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	sess.conns++
	sess.lastActive = m.clock.Now()
	if elem, ok := m.detachedIndex[sessionID]; ok {
		m.detachedQueue.Remove(elem)
		delete(m.detachedIndex, sessionID)
	}

	m.logger.Debug("session attached",
		"session_id", sessionID,
		"connections", sess.conns)
	return nil
}

// Detach records that a live connection closed. The session becomes
// detached when its last connection goes.
func (m *Manager[S]) Detach(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[sessionID]
	if !ok || sess.conns == 0 {
		return
	}

	sess.conns--
	if sess.conns > 0 {
		return
	}

	now := m.clock.Now()
	sess.lastActive = now
	sess.detachedAt = now
	m.detachedIndex[sessionID] = m.detachedQueue.PushFront(sessionID)

	m.logger.Debug("session detached",
		"session_id", sessionID,
		"detached_count", m.detachedQueue.Len())
}

// Remove removes a session from the manager and closes its state.
func (m *Manager[S]) Remove(sessionID string) {
	m.mu.Lock()
	sess := m.removeSessionLocked(sessionID)
	m.mu.Unlock()

	if sess != nil {
		m.finish([]pendingClose[S]{{sess, ReasonRemoved}})
	}
}

// removeSessionLocked removes a session (must be called with lock held).
func (m *Manager[S]) removeSessionLocked(sessionID string) *ManagedSession[S] {
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil
	}

	delete(m.sessions, sessionID)
	m.sessionsByIP[sess.IP]--
	if m.sessionsByIP[sess.IP] <= 0 {
		delete(m.sessionsByIP, sess.IP)
	}

	if elem, ok := m.detachedIndex[sessionID]; ok {
		m.detachedQueue.Remove(elem)
		delete(m.detachedIndex, sessionID)
	}

	m.logger.Debug("session removed",
		"session_id", sessionID,
		"remaining", len(m.sessions))
	return sess
}

// finish closes removed sessions and reports them. Must be called without
// the lock held.
func (m *Manager[S]) finish(closed []pendingClose[S]) {
	for _, c := range closed {
		c.sess.Value.Close()
		if m.hooks.OnClose != nil {
			m.hooks.OnClose(c.sess.ID, c.reason)
		}
	}
}

// evictOneLocked removes one detached session according to the configured
// EvictionPolicy (must be called with lock held). It returns nil when no
// session is detached.
func (m *Manager[S]) evictOneLocked() *ManagedSession[S] {
	if m.detachedQueue.Len() == 0 {
		return nil
	}

	var sessionID string

	switch m.config.EvictionPolicy {
	case EvictionOldest:
		var oldestTime time.Time
		for e := m.detachedQueue.Front(); e != nil; e = e.Next() {
			id := e.Value.(string)
			sess := m.sessions[id]
			if sess == nil {
				continue
			}
			if sessionID == "" || sess.CreatedAt.Before(oldestTime) {
				sessionID = id
				oldestTime = sess.CreatedAt
			}
		}
	case EvictionRandom:
		n := m.detachedQueue.Len()
		idx := m.randIntn(n)
		if idx < 0 {
			idx = 0
		} else if idx >= n {
			idx = n - 1
		}
		e := m.detachedQueue.Front()
		for i := 0; i < idx && e != nil; i++ {
			e = e.Next()
		}
		if e != nil {
			sessionID = e.Value.(string)
		}
	}

	// LRU, and the fallback for anything the policies above missed: the
	// least recently used detached session is at the back.
	if sessionID == "" {
		sessionID = m.detachedQueue.Back().Value.(string)
	}

	m.logger.Debug("evicting session",
		"session_id", sessionID,
		"policy", m.config.EvictionPolicy.String(),
		"reason", "session_limit_reached")
	return m.removeSessionLocked(sessionID)
}

// cleanupLoop periodically cleans up expired sessions.
func (m *Manager[S]) cleanupLoop() {
	defer m.loop.Done()
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.done:
			return
		}
	}
}

// cleanupExpired removes detached sessions idle for longer than IdleTimeout.
func (m *Manager[S]) cleanupExpired() {
	if m.config.IdleTimeout <= 0 {
		return
	}

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}

	now := m.clock.Now()
	var closed []pendingClose[S]
	for id, sess := range m.sessions {
		if sess.conns > 0 {
			continue
		}
		if now.Sub(sess.detachedAt) > m.config.IdleTimeout {
			if s := m.removeSessionLocked(id); s != nil {
				closed = append(closed, pendingClose[S]{s, ReasonExpired})
			}
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	m.finish(closed)
	if len(closed) > 0 {
		m.logger.Debug("cleaned up expired sessions",
			"count", len(closed),
			"remaining", remaining)
	}
}

// Shutdown stops the cleanup loop and closes every session.
func (m *Manager[S]) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	close(m.done)

	closed := make([]pendingClose[S], 0, len(m.sessions))
	for id := range m.sessions {
		if s := m.removeSessionLocked(id); s != nil {
			closed = append(closed, pendingClose[S]{s, ReasonShutdown})
		}
	}
	m.mu.Unlock()

	m.finish(closed)

	stopped := make(chan struct{})
	go func() {
		m.loop.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.logger.Info("session manager stopped", "closed", len(closed))
	return nil
}

// Stats returns manager statistics.
func (m *Manager[S]) Stats() ManagerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	connected := 0
	for _, sess := range m.sessions {
		if sess.conns > 0 {
			connected++
		}
	}

	return ManagerStats{
		Total:     len(m.sessions),
		Connected: connected,
		Detached:  m.detachedQueue.Len(),
		UniqueIPs: len(m.sessionsByIP),
	}
}

// ManagerStats contains session manager statistics.
type ManagerStats struct {
	// Total is the total number of sessions (connected + detached).
	Total int

	// Connected is the number of sessions with live connections.
	Connected int

	// Detached is the number of sessions without live connections.
	Detached int

	// UniqueIPs is the number of unique client IP addresses.
	UniqueIPs int
}
