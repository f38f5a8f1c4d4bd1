package ticker

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	//ErrInvalidFrameRate is returned by New for a non-positive frame rate
	ErrInvalidFrameRate = errors.New("invalid frame rate")
	//ErrDone can be returned by a tick function to finish Run without an error
	ErrDone = errors.New("ticker: done")
)

//Clock is the time source of a Ticker
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

//Option configures a Ticker
type Option func(t *Ticker)

//WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(t *Ticker) {
		t.clock = c
	}
}

//Ticker calls a function at most fps times per second
//the interval is measured from the end of the previous tick's work to the start of the next one,
//so ticks are never closer than the interval and overruns are not caught up
type Ticker struct {
	interval time.Duration
	clock    Clock
	ticks    int
}

//New creates the Ticker for the given frame rate
func New(fps int, opts ...Option) (*Ticker, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %d, must be positive", ErrInvalidFrameRate, fps)
	}
	t := &Ticker{
		interval: time.Second / time.Duration(fps),
		clock:    realClock{},
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

//Interval returns the minimal time between two ticks
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

//Ticks returns the number of completed ticks
func (t *Ticker) Ticks() int {
	return t.ticks
}

//Run calls fn once per tick until ctx is cancelled or fn returns an error
//the first tick is immediate
//cancellation and ErrDone finish Run with nil, any other error from fn is returned
func (t *Ticker) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	var last time.Time
	for {
		if ctx.Err() != nil {
			return nil
		}
		if !last.IsZero() {
			if wait := t.interval - t.clock.Now().Sub(last); wait > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-t.clock.After(wait):
				}
			}
		}
		err := fn(ctx)
		last = t.clock.Now()
		if err != nil {
			if errors.Is(err, ErrDone) {
				t.ticks++
				return nil
			}
			return err
		}
		t.ticks++
	}
}
