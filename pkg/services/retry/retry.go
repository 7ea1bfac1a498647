package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Backoff describes an exponential backoff schedule: the delay before retry
// attempt n is Base * Growth^n, offset by a random jitter proportional to the
// computed delay.
type Backoff struct {
	Base   time.Duration
	Growth float64
	Jitter float64
}

// DefaultBackoff matches the upstream throttling guidance: 2s base, 1.5x
// growth, 1% jitter.
var DefaultBackoff = Backoff{
	Base:   2 * time.Second,
	Growth: 1.5,
	Jitter: 0.01,
}

// Delay computes the sleep before retry attempt n (0-based).
func (b Backoff) Delay(n int) time.Duration {
	base := float64(b.Base) * math.Pow(b.Growth, float64(n))
	jitter := (rand.Float64()*2 - 1) * b.Jitter * base
	return time.Duration(base + jitter)
}

// Policy parameterizes Do. Retryable decides which errors are worth another
// attempt; anything else propagates immediately.
type Policy struct {
	MaxRetries int
	Backoff    Backoff
	Retryable  func(error) bool
}

// Do runs fn, retrying retryable failures up to MaxRetries times with backoff
// sleeps in between. The sleep blocks the caller; cancelling the context cuts
// it short. The last error is returned once the budget is exhausted.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	if policy.Retryable == nil {
		policy.Retryable = func(error) bool { return true }
	}
	if policy.Backoff == (Backoff{}) {
		policy.Backoff = DefaultBackoff
	}

	logger := zerolog.Ctx(ctx)

	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !policy.Retryable(lastErr) {
			return lastErr
		}
		if attempt >= policy.MaxRetries {
			return fmt.Errorf("retry budget of %d exhausted: %w", policy.MaxRetries, lastErr)
		}

		delay := policy.Backoff.Delay(attempt)
		logger.Info().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Err(lastErr).
			Msg("retrying after backoff")

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
