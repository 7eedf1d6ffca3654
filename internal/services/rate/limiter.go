package rate

import (
	"context"
	"fmt"
	"time"
)

const (
	interestsMinuteWindow = time.Minute
	interests10SecWindow  = 10 * time.Second
)

// TooFastError reports a rejected action and how long the caller should wait.
type TooFastError struct {
	RetryAfterSec int64
}

func (e *TooFastError) Error() string {
	return fmt.Sprintf("too many actions, retry after %ds", e.RetryAfterSec)
}

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter caps interest actions per actor over a one minute and a ten second window.
// A zero limit disables that window.
type Limiter struct {
	store     WindowStore
	perMinute int
	per10Sec  int
}

func NewLimiter(store WindowStore, perMinute, per10Sec int) *Limiter {
	if perMinute < 0 {
		perMinute = 0
	}
	if per10Sec < 0 {
		per10Sec = 0
	}

	return &Limiter{
		store:     store,
		perMinute: perMinute,
		per10Sec:  per10Sec,
	}
}

// Allow counts one action for actor and returns *TooFastError when a window is exhausted.
// An actor that is already blocked is rejected without counting the attempt.
func (l *Limiter) Allow(ctx context.Context, actor string) error {
	wait, err := l.RetryAfter(ctx, actor)
	if err != nil {
		return err
	}
	if wait > 0 {
		return &TooFastError{RetryAfterSec: wait}
	}

	retryAfterSec := int64(0)

	if l.perMinute > 0 {
		count, ttl, err := l.store.IncrementWindow(ctx, minuteKey(actor), interestsMinuteWindow)
		if err != nil {
			return err
		}
		if count > int64(l.perMinute) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if l.per10Sec > 0 {
		count, ttl, err := l.store.IncrementWindow(ctx, tenSecKey(actor), interests10SecWindow)
		if err != nil {
			return err
		}
		if count > int64(l.per10Sec) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if retryAfterSec > 0 {
		return &TooFastError{RetryAfterSec: retryAfterSec}
	}
	return nil
}

// RetryAfter reports the wait before actor may act again without counting an action.
func (l *Limiter) RetryAfter(ctx context.Context, actor string) (int64, error) {
	if actor == "" {
		return 0, fmt.Errorf("actor is required")
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}

	retryAfterSec := int64(0)

	if l.perMinute > 0 {
		count, ttl, err := l.store.WindowState(ctx, minuteKey(actor))
		if err != nil {
			return 0, err
		}
		if count >= int64(l.perMinute) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	if l.per10Sec > 0 {
		count, ttl, err := l.store.WindowState(ctx, tenSecKey(actor))
		if err != nil {
			return 0, err
		}
		if count >= int64(l.per10Sec) {
			retryAfterSec = max(retryAfterSec, ceilSeconds(ttl))
		}
	}

	return retryAfterSec, nil
}

func minuteKey(actor string) string {
	return "rate:interests:min:" + actor
}

func tenSecKey(actor string) string {
	return "rate:interests:10s:" + actor
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	return max(sec, 1)
}
