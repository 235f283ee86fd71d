package providers

import (
	"context"
	"sync"
	"time"
)

// rateWindow is the period a limiter's budget refills over.
const rateWindow = time.Minute

// RateLimiter is a token bucket that caps calls to one provider at a fixed
// number per minute. Tokens refill continuously, so a burst of a full
// minute's budget is allowed after an idle period.
type RateLimiter struct {
	mu sync.Mutex

	perMinute  int
	tokens     float64
	lastRefill time.Time

	consumed int64
	waited   time.Duration
	last429  time.Time

	now func() time.Time
}

// RateLimiterStatus reports current limiter state.
type RateLimiterStatus struct {
	TokensAvailable int           `json:"tokens_available"`
	TokensLimit     int           `json:"tokens_limit"`
	Utilization     float64       `json:"utilization"`
	TimeUntilToken  time.Duration `json:"time_until_token"`
	TotalConsumed   int64         `json:"total_consumed"`
	TotalWaited     time.Duration `json:"total_waited"`
	Last429Time     time.Time     `json:"last_429_time,omitempty"`
}

// NewRateLimiter returns a limiter allowing perMinute calls per minute,
// starting with a full bucket. Values below one are raised to one.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	l := &RateLimiter{
		perMinute: perMinute,
		tokens:    float64(perMinute),
		now:       time.Now,
	}
	l.lastRefill = l.now()
	return l
}

// Wait blocks until a token is available or ctx is done.
func (l *RateLimiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		l.refill()
		if l.tokens >= 1 {
			l.tokens--
			l.consumed++
			l.mu.Unlock()
			return nil
		}
		delay := l.untilToken()
		l.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			l.mu.Lock()
			l.waited += delay
			l.mu.Unlock()
		}
	}
}

// TryConsume takes a token if one is available without blocking.
func (l *RateLimiter) TryConsume() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	l.consumed++
	return true
}

// Record429 notes that the provider rejected a call for exceeding its rate
// limit. When the provider sent a Retry-After the bucket is emptied so
// later callers back off instead of piling on.
func (l *RateLimiter) Record429(retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.last429 = l.now()
	if retryAfter > 0 {
		l.refill()
		l.tokens = 0
	}
}

// Status returns a snapshot of the limiter.
func (l *RateLimiter) Status() RateLimiterStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	utilization := 1 - l.tokens/float64(l.perMinute)
	if utilization < 0 {
		utilization = 0
	}

	var wait time.Duration
	if l.tokens < 1 {
		wait = l.untilToken()
	}

	return RateLimiterStatus{
		TokensAvailable: int(l.tokens),
		TokensLimit:     l.perMinute,
		Utilization:     utilization,
		TimeUntilToken:  wait,
		TotalConsumed:   l.consumed,
		TotalWaited:     l.waited,
		Last429Time:     l.last429,
	}
}

// refill credits tokens for the time since the last refill. Caller holds mu.
func (l *RateLimiter) refill() {
	now := l.now()
	elapsed := now.Sub(l.lastRefill)
	l.lastRefill = now
	if elapsed <= 0 {
		return
	}

	l.tokens += elapsed.Seconds() * l.perSecond()
	if ceiling := float64(l.perMinute); l.tokens > ceiling {
		l.tokens = ceiling
	}
}

// untilToken is how long until one whole token is available. Caller holds mu.
func (l *RateLimiter) untilToken() time.Duration {
	missing := 1 - l.tokens
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / l.perSecond() * float64(time.Second))
}

func (l *RateLimiter) perSecond() float64 {
	return float64(l.perMinute) / rateWindow.Seconds()
}
