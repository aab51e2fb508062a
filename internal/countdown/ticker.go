package countdown

import (
	"context"
	"time"
)

// Ticker recomputes a countdown periodically until its context ends.
type Ticker struct {
	// MultiDay is the refresh interval when only minutes are displayed.
	MultiDay time.Duration
	// Precise is the refresh interval when seconds are displayed.
	Precise time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// NewTicker creates a Ticker with the given intervals; zero values fall back
// to one minute and one second.
func NewTicker(multiDay, precise time.Duration) *Ticker {
	if multiDay <= 0 {
		multiDay = time.Minute
	}
	if precise <= 0 {
		precise = time.Second
	}
	return &Ticker{MultiDay: multiDay, Precise: precise}
}

// Interval returns the refresh interval for a display mode.
func (t *Ticker) Interval(precise bool) time.Duration {
	if precise {
		return t.Precise
	}
	return t.MultiDay
}

func (t *Ticker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Watch emits the countdown for the given dates immediately and then on every
// tick. The interval follows the display mode of the last emission, so a
// stream that crosses into sub-minute precision speeds up. The channel is
// closed once ctx is done; the underlying timer is released at the same time.
func (t *Ticker) Watch(ctx context.Context, departure, ret string, precise bool) <-chan Remaining {
	out := make(chan Remaining)
	go func() {
		defer close(out)

		tk := time.NewTicker(t.Interval(precise))
		defer tk.Stop()

		for {
			rem := Calculate(t.now(), departure, ret)
			select {
			case out <- rem:
			case <-ctx.Done():
				return
			}
			if p := rem.Precise(); p != precise {
				precise = p
				tk.Reset(t.Interval(precise))
			}

			select {
			case <-tk.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
