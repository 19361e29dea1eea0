package waitlist

import (
	"context"
	"sync"
	"time"

	"github.com/patagonia-pages/bookpage/internal/errors"
	"github.com/patagonia-pages/bookpage/internal/language"
	"github.com/patagonia-pages/bookpage/pkg/clock"
)

// Task is a submission in flight.
type Task struct {
	form     *Form
	provider *language.Provider

	once    sync.Once
	done    chan struct{}
	mu      sync.Mutex
	err     error
	timer   clock.Timer
	stopCtx func() bool
}

func newTask(f *Form, p *language.Provider) *Task {
	return &Task{
		form:     f,
		provider: p,
		done:     make(chan struct{}),
	}
}

func (t *Task) start(ctx context.Context, c clock.Clock, delay time.Duration) {
	stop := context.AfterFunc(ctx, func() {
		t.cancel(ctx.Err())
	})
	timer := c.AfterFunc(delay, t.finish)

	t.mu.Lock()
	t.stopCtx = stop
	t.timer = timer
	t.mu.Unlock()

	// Cancelled before the timer was stored.
	select {
	case <-t.done:
		timer.Stop()
		stop()
	default:
	}
}

// Done is closed when the task completes or is cancelled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns nil while running or after completion, and an E006 error
// after cancellation.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Wait blocks until the task ends or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the task. The form keeps its email and no toast is shown.
// Cancelling a finished task does nothing.
func (t *Task) Cancel() {
	t.cancel(context.Canceled)
}

func (t *Task) cancel(cause error) {
	t.once.Do(func() {
		t.mu.Lock()
		if t.timer != nil {
			t.timer.Stop()
		}
		stop := t.stopCtx
		t.err = errors.New("E006").Wrap(cause)
		t.mu.Unlock()
		if stop != nil {
			stop()
		}

		t.form.abort(t)
		close(t.done)
	})
}

func (t *Task) finish() {
	t.once.Do(func() {
		t.mu.Lock()
		stop := t.stopCtx
		t.mu.Unlock()
		if stop != nil {
			stop()
		}

		t.form.complete(t)
		close(t.done)
	})
}
