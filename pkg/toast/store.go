package toast

import (
	"log/slog"
	"sync"
	"time"

	"github.com/patagonia-pages/bookpage/pkg/clock"
)

// Option configures a Store.
type Option func(*Store)

// WithRemoveDelay sets how long dismissed records stay in the queue.
func WithRemoveDelay(d time.Duration) Option {
	return func(s *Store) {
		s.removeDelay = d
	}
}

// WithClock sets the clock used for delayed removal.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithObserver sets a function told about every applied action, after the
// state changed. It is meant for metrics.
func WithObserver(fn func(ActionType)) Option {
	return func(s *Store) {
		s.observe = fn
	}
}

// Store is a toast queue shared by every view of a session.
type Store struct {
	mu      sync.Mutex
	state   State
	ids     idGenerator
	timers  map[string]clock.Timer
	subs    map[uint64]func([]Record)
	nextSub uint64
	closed  bool
	seq     uint64

	// notifyMu orders deliveries; delivered is the seq of the newest
	// snapshot handed to subscribers.
	notifyMu  sync.Mutex
	delivered uint64

	removeDelay time.Duration
	clock       clock.Clock
	logger      *slog.Logger
	observe     func(ActionType)
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		state:       State{Toasts: []Record{}},
		timers:      make(map[string]clock.Timer),
		subs:        make(map[uint64]func([]Record)),
		removeDelay: DefaultRemoveDelay,
		clock:       clock.Real(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle controls one toast.
type Handle struct {
	ID    string
	store *Store
}

// Update applies p to the toast.
func (h Handle) Update(p Patch) {
	h.store.Update(h.ID, p)
}

// Dismiss closes the toast.
func (h Handle) Dismiss() {
	h.store.Dismiss(h.ID)
}

// Toast adds an open record and returns its handle. When the queue is full
// the oldest record is evicted.
func (s *Store) Toast(p Payload) Handle {
	s.mu.Lock()
	id := s.ids.next()
	s.mu.Unlock()

	if p.Level == "" {
		p.Level = TypeSuccess
	}
	s.dispatch(Action{Type: ActionAdd, Record: Record{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Level:       p.Level,
		Open:        true,
	}})
	return Handle{ID: id, store: s}
}

// Update applies p to the record with id.
func (s *Store) Update(id string, p Patch) {
	s.dispatch(Action{Type: ActionUpdate, ID: id, Patch: p})
}

// Dismiss closes the record with the given id, or every record when no id
// is given, and schedules removal. Closed records are left alone.
func (s *Store) Dismiss(id ...string) {
	target := ""
	if len(id) > 0 {
		target = id[0]
	}
	s.dispatch(Action{Type: ActionDismiss, ID: target})
}

// Remove drops the record with id immediately; an empty id clears the queue.
func (s *Store) Remove(id string) {
	s.dispatch(Action{Type: ActionRemove, ID: id})
}

// Toasts returns a snapshot of the queue, most recent first.
func (s *Store) Toasts() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.state.Toasts)
}

// Subscribe registers fn for queue changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn func([]Record)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Pending returns the number of scheduled removals.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Close cancels pending removals and drops subscribers. Later mutations
// are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.subs = make(map[uint64]func([]Record))
}

func (s *Store) dispatch(a Action) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	prev := s.state
	next := Reduce(prev, a)
	if equal(prev.Toasts, next.Toasts) {
		s.mu.Unlock()
		return
	}
	s.state = next

	switch a.Type {
	case ActionAdd:
		s.cancelEvictedLocked(next.Toasts)
	case ActionDismiss:
		for _, r := range next.Toasts {
			if !r.Open {
				s.scheduleRemovalLocked(r.ID)
			}
		}
	case ActionRemove:
		s.cancelEvictedLocked(next.Toasts)
	}

	s.seq++
	seq := s.seq
	snapshot := clone(next.Toasts)
	subs := make([]func([]Record), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	observe := s.observe
	s.mu.Unlock()

	if observe != nil {
		observe(a.Type)
	}
	s.notify(seq, snapshot, subs)
}

// notify delivers snapshot unless a newer one already went out, so
// subscribers never step back to an older queue. Subscribers must not
// mutate the store.
func (s *Store) notify(seq uint64, snapshot []Record, subs []func([]Record)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if seq <= s.delivered {
		return
	}
	s.delivered = seq
	for _, fn := range subs {
		fn(snapshot)
	}
}

// scheduleRemovalLocked starts the removal timer for id unless one runs.
func (s *Store) scheduleRemovalLocked(id string) {
	if _, ok := s.timers[id]; ok {
		return
	}
	s.timers[id] = s.clock.AfterFunc(s.removeDelay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		s.logger.Debug("toast removed", "id", id)
		s.Remove(id)
	})
}

// cancelEvictedLocked stops timers for records no longer in the queue.
func (s *Store) cancelEvictedLocked(toasts []Record) {
	present := make(map[string]bool, len(toasts))
	for _, r := range toasts {
		present[r.ID] = true
	}
	for id, t := range s.timers {
		if !present[id] {
			t.Stop()
			delete(s.timers, id)
		}
	}
}

func clone(in []Record) []Record {
	out := make([]Record, len(in))
	copy(out, in)
	return out
}

func equal(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
