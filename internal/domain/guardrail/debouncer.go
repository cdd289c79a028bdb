package guardrail

import (
	"context"
	"errors"
	"time"

	"github.com/puzpuzpuz/xsync/v2"
)

var ErrSuperseded = errors.New("superseded by a newer request")

type pendingCall struct {
	cancel context.CancelCauseFunc
}

// Debouncer delays a call by a quiet period. A newer call with the same key
// cancels the older one, whether it is still waiting or already running.
type Debouncer struct {
	delay   time.Duration
	pending *xsync.MapOf[string, *pendingCall]
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: xsync.NewMapOf[*pendingCall](),
	}
}

// Do runs fn after the quiet period unless a newer call with the same key
// arrives, then it returns ErrSuperseded.
func (d *Debouncer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	call := &pendingCall{cancel: cancel}
	if previous, loaded := d.pending.LoadAndStore(key, call); loaded {
		previous.cancel(ErrSuperseded)
	}

	defer d.pending.Compute(key, func(current *pendingCall, loaded bool) (*pendingCall, bool) {
		// Only remove our own entry, a newer call may have replaced it.
		return current, !loaded || current == call
	})

	timer := time.NewTimer(d.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return d.cause(ctx)
	case <-timer.C:
	}

	if err := fn(ctx); err != nil {
		if ctx.Err() != nil {
			return d.cause(ctx)
		}

		return err
	}

	if errors.Is(context.Cause(ctx), ErrSuperseded) {
		return ErrSuperseded
	}

	return nil
}

func (d *Debouncer) cause(ctx context.Context) error {
	if cause := context.Cause(ctx); errors.Is(cause, ErrSuperseded) {
		return ErrSuperseded
	}

	return ctx.Err()
}

// Pending returns the number of keys which have a call in progress.
func (d *Debouncer) Pending() int {
	return d.pending.Size()
}
