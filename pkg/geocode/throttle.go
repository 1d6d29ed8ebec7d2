package geocode

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultMinDelay is the minimum gap between two geocoder calls.
const DefaultMinDelay = 400 * time.Millisecond

// Throttle enforces a minimum delay between consecutive dispatches across
// every goroutine that shares it. One Throttle is created per run and handed
// to every worker.
type Throttle struct {
	minDelay time.Duration
	sem      chan struct{}
	last     time.Time

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewThrottle creates a Throttle. A non-positive minDelay disables throttling.
func NewThrottle(minDelay time.Duration) *Throttle {
	return &Throttle{
		minDelay: minDelay,
		sem:      make(chan struct{}, 1),
		nowFunc:  time.Now,
	}
}

// MinDelay returns the configured gap.
func (t *Throttle) MinDelay() time.Duration { return t.minDelay }

// Wait blocks until at least MinDelay has passed since the previous call to
// Wait returned, then records the dispatch time. Waiters are served one at a
// time and give up when ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "geocode: throttle wait")
	}
	defer func() { <-t.sem }()

	if !t.last.IsZero() {
		if wait := t.minDelay - t.nowFunc().Sub(t.last); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return eris.Wrap(ctx.Err(), "geocode: throttle wait")
			case <-timer.C:
			}
		}
	}
	t.last = t.nowFunc()
	return nil
}

// Wrap returns a Client that waits on the throttle before every call to next.
func (t *Throttle) Wrap(next Client) Client {
	return ClientFunc(func(ctx context.Context, address string) (*Result, error) {
		if err := t.Wait(ctx); err != nil {
			return nil, err
		}
		return next.Geocode(ctx, address)
	})
}
