package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/oshokin/frb/internal/logger"
)

// throttleLogInterval limits how often throttled requests are reported.
const throttleLogInterval = time.Second

// Limiter blocks until a request may proceed.
// *rate.Limiter and *WindowLimiter satisfy it.
type Limiter interface {
	// Wait blocks until the limiter admits one event or ctx is done.
	Wait(ctx context.Context) error
}

// WindowLimiter admits at most calls events per fixed window of period.
// A window opens with the first event after the previous one has expired,
// so the count never exceeds calls inside any single window.
// It is safe for concurrent use.
type WindowLimiter struct {
	// mu guards windowStart and admitted.
	mu sync.Mutex
	// calls is the number of events admitted per window.
	calls int
	// period is the window length.
	period time.Duration
	// windowStart is the opening time of the current window.
	windowStart time.Time
	// admitted counts events in the current window.
	admitted int
	// now returns the current time.
	now func() time.Time
}

// NewWindowLimiter creates a limiter admitting calls events per period.
func NewWindowLimiter(calls int, period time.Duration) *WindowLimiter {
	return &WindowLimiter{
		calls:  calls,
		period: period,
		now:    time.Now,
	}
}

// Wait blocks until the current window has room or ctx is done.
func (l *WindowLimiter) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := l.reserve()
		if delay <= 0 {
			return nil
		}

		timer := time.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve admits one event and returns zero, or returns how long until the window expires.
func (l *WindowLimiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	elapsed := now.Sub(l.windowStart)
	if l.windowStart.IsZero() || elapsed >= l.period || elapsed < 0 {
		l.windowStart = now
		l.admitted = 0
		elapsed = 0
	}

	if l.admitted < l.calls {
		l.admitted++

		return 0
	}

	return l.period - elapsed
}

// RateLimitTransport is a custom http.RoundTripper that throttles outgoing requests.
// Requests over the limit wait for admission instead of failing.
type RateLimitTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// limiter decides when a request may be sent.
	limiter Limiter
	// throttleLog samples the throttling debug messages.
	throttleLog *rate.Sometimes
}

// NewRateLimiter returns a limiter admitting at most calls events per period.
// Non-positive values disable limiting.
func NewRateLimiter(calls int, period time.Duration) Limiter {
	if calls <= 0 || period <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}

	return NewWindowLimiter(calls, period)
}

// NewRateLimitTransport creates and returns a new instance of RateLimitTransport.
func NewRateLimitTransport(next http.RoundTripper, limiter Limiter) http.RoundTripper {
	return &RateLimitTransport{
		next:        next,
		limiter:     limiter,
		throttleLog: &rate.Sometimes{First: 1, Interval: throttleLogInterval},
	}
}

// RoundTrip waits for the limiter and then executes a single HTTP transaction.
// It implements the http.RoundTripper interface.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ctx := req.Context()
	startTime := time.Now()

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if waited := time.Since(startTime); waited > time.Millisecond {
		t.throttleLog.Do(func() {
			logger.Debugf(ctx, "Request throttled for %s", waited)
		})
	}

	return t.next.RoundTrip(req)
}
