package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/patagonia-pages/bookpage/pkg/clock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeState struct {
	mu     sync.Mutex
	closed int
}

func (f *fakeState) Close() {
	f.mu.Lock()
	f.closed++
	f.mu.Unlock()
}

func (f *fakeState) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func newTestManager(t *testing.T, config ManagerConfig, opts ...Option) (*Manager[*fakeState], *clock.Manual) {
	t.Helper()
	c := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	opts = append([]Option{WithClock(c)}, opts...)
	m := NewManager[*fakeState](config, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	t.Cleanup(func() { m.Shutdown(context.Background()) })
	return m, c
}

func build(id string) (*fakeState, error) {
	return &fakeState{}, nil
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t, DefaultManagerConfig())

	sess, err := m.Create("10.0.0.1", build)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session ID should not be empty")
	}

	got, ok := m.Get(sess.ID)
	if !ok || got != sess {
		t.Errorf("Get(%q) = %v, %v", sess.ID, got, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) should fail")
	}

	stats := m.Stats()
	if stats.Total != 1 || stats.Detached != 1 || stats.Connected != 0 || stats.UniqueIPs != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestManagerCreateBuildError(t *testing.T) {
	m, _ := newTestManager(t, DefaultManagerConfig())
	boom := errors.New("boom")

	_, err := m.Create("10.0.0.1", func(string) (*fakeState, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Create() error = %v, want boom", err)
	}
	if m.Stats().Total != 0 {
		t.Error("failed build should not register a session")
	}
}

func TestManagerPerIPLimit(t *testing.T) {
	config := DefaultManagerConfig()
	config.MaxSessionsPerIP = 2
	m, _ := newTestManager(t, config)

	for i := 0; i < 2; i++ {
		if _, err := m.Create("10.0.0.1", build); err != nil {
			t.Fatalf("Create() #%d error = %v", i, err)
		}
	}
	if _, err := m.Create("10.0.0.1", build); !errors.Is(err, ErrTooManySessionsFromIP) {
		t.Errorf("Create() error = %v, want ErrTooManySessionsFromIP", err)
	}
	if _, err := m.Create("10.0.0.2", build); err != nil {
		t.Errorf("other IP should be allowed, got %v", err)
	}
}

func TestManagerEviction(t *testing.T) {
	tests := []struct {
		name   string
		policy EvictionPolicy
		// touch is the index of the session touched after creation.
		touch int
		want  int
	}{
		{"lru evicts least recently active", EvictionLRU, 0, 1},
		{"oldest ignores activity", EvictionOldest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultManagerConfig()
			config.MaxSessions = 3
			config.EvictionPolicy = tt.policy
			m, c := newTestManager(t, config)

			var created []*ManagedSession[*fakeState]
			for i := 0; i < 3; i++ {
				s, err := m.Create("10.0.0.1", build)
				if err != nil {
					t.Fatal(err)
				}
				created = append(created, s)
				c.Advance(time.Second)
			}
			m.Touch(created[tt.touch].ID)

			if _, err := m.Create("10.0.0.1", build); err != nil {
				t.Fatalf("Create() at limit error = %v", err)
			}

			victim := created[tt.want]
			if _, ok := m.Get(victim.ID); ok {
				t.Errorf("session %d should have been evicted", tt.want)
			}
			if victim.Value.Closed() != 1 {
				t.Errorf("evicted session closed %d times, want 1", victim.Value.Closed())
			}
			if m.Stats().Total != 3 {
				t.Errorf("Total = %d, want 3", m.Stats().Total)
			}
		})
	}
}

func TestManagerRandomEvictionUsesSource(t *testing.T) {
	config := DefaultManagerConfig()
	config.MaxSessions = 2
	config.EvictionPolicy = EvictionRandom
	m, _ := newTestManager(t, config)
	m.randIntn = func(n int) int { return n - 1 }

	first, _ := m.Create("10.0.0.1", build)
	m.Create("10.0.0.1", build)
	m.Create("10.0.0.1", build)

	// Back of the detached queue is the first session created.
	if _, ok := m.Get(first.ID); ok {
		t.Error("expected the last queue position to be evicted")
	}
}

func TestManagerAttachedSessionsAreNotEvicted(t *testing.T) {
	config := DefaultManagerConfig()
	config.MaxSessions = 1
	m, _ := newTestManager(t, config)

	sess, _ := m.Create("10.0.0.1", build)
	if err := m.Attach(sess.ID); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if _, err := m.Create("10.0.0.1", build); !errors.Is(err, ErrMaxSessionsReached) {
		t.Fatalf("Create() error = %v, want ErrMaxSessionsReached", err)
	}

	m.Detach(sess.ID)
	if _, err := m.Create("10.0.0.1", build); err != nil {
		t.Errorf("Create() after detach error = %v", err)
	}
}

func TestManagerAttachDetachCounts(t *testing.T) {
	m, _ := newTestManager(t, DefaultManagerConfig())
	sess, _ := m.Create("10.0.0.1", build)

	m.Attach(sess.ID)
	m.Attach(sess.ID)
	if s := m.Stats(); s.Connected != 1 || s.Detached != 0 {
		t.Errorf("after two attaches Stats() = %+v", s)
	}

	m.Detach(sess.ID)
	if s := m.Stats(); s.Connected != 1 {
		t.Errorf("one connection left, Stats() = %+v", s)
	}

	m.Detach(sess.ID)
	m.Detach(sess.ID) // extra detach is ignored
	if s := m.Stats(); s.Connected != 0 || s.Detached != 1 {
		t.Errorf("after last detach Stats() = %+v", s)
	}

	if err := m.Attach("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Attach(missing) error = %v", err)
	}
}

func TestManagerCleanupExpired(t *testing.T) {
	config := DefaultManagerConfig()
	config.IdleTimeout = time.Minute

	var mu sync.Mutex
	reasons := map[string]string{}
	m, c := newTestManager(t, config, WithHooks(Hooks{
		OnClose: func(id, reason string) {
			mu.Lock()
			reasons[id] = reason
			mu.Unlock()
		},
	}))

	idle, _ := m.Create("10.0.0.1", build)
	live, _ := m.Create("10.0.0.1", build)
	m.Attach(live.ID)

	c.Advance(2 * time.Minute)
	m.cleanupExpired()

	if _, ok := m.Get(idle.ID); ok {
		t.Error("idle detached session should have expired")
	}
	if _, ok := m.Get(live.ID); !ok {
		t.Error("connected session should be kept")
	}
	if idle.Value.Closed() != 1 {
		t.Error("expired session should be closed")
	}

	mu.Lock()
	defer mu.Unlock()
	if reasons[idle.ID] != ReasonExpired {
		t.Errorf("close reason = %q, want %q", reasons[idle.ID], ReasonExpired)
	}
}

func TestManagerTouchKeepsSessionAlive(t *testing.T) {
	config := DefaultManagerConfig()
	config.IdleTimeout = time.Minute
	m, c := newTestManager(t, config)

	sess, _ := m.Create("10.0.0.1", build)
	c.Advance(50 * time.Second)
	m.Touch(sess.ID)
	c.Advance(50 * time.Second)
	m.cleanupExpired()

	if _, ok := m.Get(sess.ID); !ok {
		t.Error("touched session should not expire")
	}
}

func TestManagerRemove(t *testing.T) {
	var created, closed []string
	m, _ := newTestManager(t, DefaultManagerConfig(), WithHooks(Hooks{
		OnCreate: func(id string) { created = append(created, id) },
		OnClose:  func(id, reason string) { closed = append(closed, reason) },
	}))

	sess, _ := m.Create("10.0.0.1", build)
	m.Remove(sess.ID)
	m.Remove(sess.ID)

	if sess.Value.Closed() != 1 {
		t.Errorf("Close called %d times, want 1", sess.Value.Closed())
	}
	if len(created) != 1 || created[0] != sess.ID {
		t.Errorf("OnCreate calls = %v", created)
	}
	if len(closed) != 1 || closed[0] != ReasonRemoved {
		t.Errorf("OnClose reasons = %v", closed)
	}
	if m.Stats().UniqueIPs != 0 {
		t.Error("IP count should drop to zero")
	}
}

func TestManagerShutdown(t *testing.T) {
	m, _ := newTestManager(t, DefaultManagerConfig())

	a, _ := m.Create("10.0.0.1", build)
	b, _ := m.Create("10.0.0.2", build)
	m.Attach(b.ID)

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if a.Value.Closed() != 1 || b.Value.Closed() != 1 {
		t.Error("Shutdown should close every session")
	}
	if _, err := m.Create("10.0.0.1", build); !errors.Is(err, ErrManagerStopped) {
		t.Errorf("Create() after shutdown error = %v", err)
	}
	if err := m.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}

func TestParseEvictionPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    EvictionPolicy
		wantErr bool
	}{
		{"", EvictionLRU, false},
		{"lru", EvictionLRU, false},
		{"oldest", EvictionOldest, false},
		{"random", EvictionRandom, false},
		{"fifo", EvictionLRU, true},
	}
	for _, tt := range tests {
		got, err := ParseEvictionPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEvictionPolicy(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseEvictionPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && tt.in != "" && got.String() != tt.in {
			t.Errorf("String() = %q, want %q", got.String(), tt.in)
		}
	}
}
