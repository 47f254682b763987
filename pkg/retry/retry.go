// Package retry waits for infrastructure to come up at startup.
//
// Request handling never retries; only the connect probes in database, redis
// and kafka go through here.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Policy is a capped exponential backoff
type Policy struct {
	// Attempts is the total number of tries, at least 1
	Attempts   int
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Fixed waits interval between attempts
func Fixed(attempts int, interval time.Duration) Policy {
	return Policy{Attempts: attempts, Initial: interval, Max: interval, Multiplier: 1}
}

func (p Policy) normalized() Policy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Initial <= 0 {
		p.Initial = time.Second
	}
	if p.Multiplier < 1 {
		p.Multiplier = 2
	}
	if p.Max < p.Initial {
		p.Max = 30 * time.Second
	}
	return p
}

// Delay is the wait before attempt n (1-based); the first attempt never waits
func (p Policy) Delay(n int) time.Duration {
	if n <= 1 {
		return 0
	}
	p = p.normalized()
	d := float64(p.Initial) * math.Pow(p.Multiplier, float64(n-2))
	if d > float64(p.Max) {
		return p.Max
	}
	return time.Duration(d)
}

// Do calls probe until it succeeds, the attempts run out or ctx ends
func Do(ctx context.Context, p Policy, probe func(ctx context.Context) error) error {
	p = p.normalized()

	var lastErr error
	for n := 1; n <= p.Attempts; n++ {
		if wait := p.Delay(n); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("gave up after %d attempts: %w", n-1, ctx.Err())
			case <-timer.C:
			}
		}
		if lastErr = probe(ctx); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", p.Attempts, lastErr)
}
