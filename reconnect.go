package pixelwalker

import (
	"context"
	"fmt"
	"time"
)

// attempts is the connection budget of one join: count tries, each bounded
// by interval.
type attempts struct {
	count    int
	interval time.Duration
	used     int
}

func newAttempts(count int, interval time.Duration) *attempts {
	return &attempts{
		count:    count,
		interval: interval,
	}
}

// next reports whether another attempt may start and consumes it.
func (a *attempts) next() bool {
	if a.used >= a.count {
		return false
	}
	a.used++
	return true
}

// try runs one attempt of dial with the per-attempt deadline. A dial that
// fails before the deadline still waits it out, so attempts stay evenly
// spaced.
func (a *attempts) try(ctx context.Context, dial dialFunc, url string) (transport, error) {
	actx, cancel := context.WithTimeout(ctx, a.interval)
	defer cancel()

	t, err := dial(actx, url)
	if err == nil {
		return t, nil
	}
	<-actx.Done()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, err
}

// open dials url until a transport opens or the budget runs out.
func (c *Client) open(ctx context.Context, url string) (transport, error) {
	c.mu.Lock()
	a := newAttempts(c.settings.ReconnectCount, c.settings.ReconnectInterval)
	c.mu.Unlock()

	var lastErr error
	for a.next() {
		t, err := a.try(ctx, c.dial, url)
		if err == nil {
			c.opts.metrics.attempt("ok")
			return t, nil
		}
		if ctx.Err() != nil {
			c.opts.metrics.attempt("canceled")
			return nil, ctx.Err()
		}
		c.opts.metrics.attempt("failed")
		lastErr = err
		c.debug(fmt.Sprintf("Connection attempt %d of %d failed: %v", a.used, a.count, err))
	}
	if lastErr == nil {
		return nil, ErrUnableToConnect
	}
	return nil, fmt.Errorf("%w: %w", ErrUnableToConnect, lastErr)
}
