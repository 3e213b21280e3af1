package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter is a token bucket refilled one token at a time.
type rateLimiter struct {
	stopCh   chan struct{}
	tokens   int
	capacity int
	mu       sync.Mutex
	once     sync.Once
}

// newRateLimiter allows requestsPerMinute calls per minute, defaulting to 30.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}

	rl := &rateLimiter{
		tokens:   requestsPerMinute,
		capacity: requestsPerMinute,
		stopCh:   make(chan struct{}),
	}
	go rl.refill(time.Minute / time.Duration(requestsPerMinute))

	return rl
}

// wait blocks until a token is available or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if rl.tryAcquire() {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (rl *rateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

func (rl *rateLimiter) refill(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.mu.Lock()
			if rl.tokens < rl.capacity {
				rl.tokens++
			}
			rl.mu.Unlock()
		}
	}
}

// Close stops the refill goroutine. It is safe to call more than once.
func (rl *rateLimiter) Close() {
	rl.once.Do(func() { close(rl.stopCh) })
}
