package waitlist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/patagonia-pages/bookpage/internal/language"
	"github.com/patagonia-pages/bookpage/pkg/clock"
	"github.com/patagonia-pages/bookpage/pkg/toast"
)

// DefaultDelay is how long a submission takes before it is confirmed.
const DefaultDelay = time.Second

// Outcome is a submission event reported to a Recorder.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeStarted   Outcome = "started"
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

// Recorder receives submission events.
type Recorder interface {
	RecordWaitlist(Outcome)
}

// Snapshot is the form state delivered to subscribers.
type Snapshot struct {
	Email      string
	Submitting bool
}

// Option configures a Form.
type Option func(*Form)

// WithDelay sets the submission delay.
func WithDelay(d time.Duration) Option {
	return func(f *Form) {
		f.delay = d
	}
}

// WithClock sets the clock the delay runs on.
func WithClock(c clock.Clock) Option {
	return func(f *Form) {
		f.clock = c
	}
}

// WithLogger sets the form logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		f.logger = l
	}
}

// WithRecorder sets the submission event recorder.
func WithRecorder(r Recorder) Option {
	return func(f *Form) {
		f.recorder = r
	}
}

// Form is the waitlist form state of one session.
type Form struct {
	toasts   *toast.Store
	delay    time.Duration
	clock    clock.Clock
	logger   *slog.Logger
	recorder Recorder

	mu         sync.Mutex
	email      string
	submitting bool
	task       *Task
	subs       map[uint64]func(Snapshot)
	nextSub    uint64
}

// New creates an empty form that confirms submissions on toasts.
func New(toasts *toast.Store, opts ...Option) *Form {
	f := &Form{
		toasts: toasts,
		delay:  DefaultDelay,
		clock:  clock.Real(),
		logger: slog.Default(),
		subs:   make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Email returns the typed email.
func (f *Form) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// IsSubmitting reports whether a submission is in flight.
func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Snapshot returns the current form state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{Email: f.email, Submitting: f.submitting}
}

// SetEmail replaces the typed email.
func (f *Form) SetEmail(email string) {
	f.mu.Lock()
	if f.email == email {
		f.mu.Unlock()
		return
	}
	f.email = email
	s := Snapshot{Email: f.email, Submitting: f.submitting}
	subs := f.subscribersLocked()
	f.mu.Unlock()

	notify(subs, s)
}

// Subscribe registers fn for form changes and returns a function that
// removes it.
func (f *Form) Subscribe(fn func(Snapshot)) func() {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// HandleSubmit submits the typed email.
//
// An empty email does nothing and returns a nil task. While a submission
// is in flight the running task is returned and no new one starts.
// Otherwise the form is marked submitting and a Task is started; the task
// is cancelled when ctx is done.
//
// ctx must carry a language provider; its catalog supplies the
// confirmation toast.
func (f *Form) HandleSubmit(ctx context.Context) (*Task, error) {
	provider := language.ProviderFrom(ctx)
	if provider == nil {
		_, err := language.Lookup(ctx)
		return nil, err
	}

	f.mu.Lock()
	if f.email == "" {
		f.mu.Unlock()
		f.record(OutcomeIgnored)
		return nil, nil
	}
	if f.submitting {
		t := f.task
		f.mu.Unlock()
		f.record(OutcomeIgnored)
		return t, nil
	}

	t := newTask(f, provider)
	f.submitting = true
	f.task = t
	s := Snapshot{Email: f.email, Submitting: true}
	subs := f.subscribersLocked()
	email := f.email
	f.mu.Unlock()

	f.logger.Debug("waitlist submission started", "email_domain", domainOf(email))
	f.record(OutcomeStarted)
	notify(subs, s)

	t.start(ctx, f.clock, f.delay)
	return t, nil
}

// complete confirms the submission of t.
func (f *Form) complete(t *Task) {
	cat := t.provider.Catalog()
	f.toasts.Toast(toast.Payload{
		Title:       cat.Preorder.SuccessTitle,
		Description: cat.Preorder.SuccessDescription,
		Level:       toast.TypeSuccess,
	})

	f.mu.Lock()
	f.email = ""
	f.submitting = false
	if f.task == t {
		f.task = nil
	}
	s := Snapshot{Email: f.email, Submitting: false}
	subs := f.subscribersLocked()
	f.mu.Unlock()

	f.logger.Debug("waitlist submission completed")
	f.record(OutcomeCompleted)
	notify(subs, s)
}

// abort resets the submitting flag and keeps the email.
func (f *Form) abort(t *Task) {
	f.mu.Lock()
	f.submitting = false
	if f.task == t {
		f.task = nil
	}
	s := Snapshot{Email: f.email, Submitting: false}
	subs := f.subscribersLocked()
	f.mu.Unlock()

	f.logger.Debug("waitlist submission cancelled")
	f.record(OutcomeCancelled)
	notify(subs, s)
}

// Close cancels a submission in flight.
func (f *Form) Close() {
	f.mu.Lock()
	t := f.task
	f.mu.Unlock()
	if t != nil {
		t.Cancel()
	}
}

func (f *Form) record(o Outcome) {
	if f.recorder != nil {
		f.recorder.RecordWaitlist(o)
	}
}

func (f *Form) subscribersLocked() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(f.subs))
	for _, fn := range f.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(Snapshot), s Snapshot) {
	for _, fn := range subs {
		fn(s)
	}
}

// domainOf returns the part of an email after the last '@'.
// Full addresses are kept out of logs.
func domainOf(email string) string {
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			return email[i+1:]
		}
	}
	return ""
}
