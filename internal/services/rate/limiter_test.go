package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/ivankudzin/spark/internal/repo/redis"
)

func TestLimiterBlocksOn10SecondWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 100, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Allow(ctx, "42"); err != nil {
			t.Fatalf("allow #%d: %v", i+1, err)
		}
	}

	err := limiter.Allow(ctx, "42")
	var tooFast *TooFastError
	if !errors.As(err, &tooFast) {
		t.Fatalf("expected TooFastError on third action, got %v", err)
	}
	if tooFast.RetryAfterSec <= 0 {
		t.Fatalf("expected positive retry_after, got %d", tooFast.RetryAfterSec)
	}

	currentRetry, err := limiter.RetryAfter(ctx, "42")
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if currentRetry <= 0 {
		t.Fatalf("expected positive retry_after state, got %d", currentRetry)
	}

	mr.FastForward(11 * time.Second)

	if err := limiter.Allow(ctx, "42"); err != nil {
		t.Fatalf("allow after 10s window: %v", err)
	}
}

func TestLimiterBlocksOnMinuteWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 3, 100)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.Allow(ctx, "77"); err != nil {
			t.Fatalf("allow #%d: %v", i+1, err)
		}
	}

	var tooFast *TooFastError
	if err := limiter.Allow(ctx, "77"); !errors.As(err, &tooFast) {
		t.Fatalf("expected TooFastError on fourth action, got %v", err)
	}

	if err := limiter.Allow(ctx, "78"); err != nil {
		t.Fatalf("other actors keep their own windows: %v", err)
	}
}

func TestLimiterDoesNotCountRejectedAttempts(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 100, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Allow(ctx, "5"); err != nil {
			t.Fatalf("allow #%d: %v", i+1, err)
		}
	}

	var tooFast *TooFastError
	for i := 0; i < 10; i++ {
		if err := limiter.Allow(ctx, "5"); !errors.As(err, &tooFast) {
			t.Fatalf("blocked attempt #%d: expected TooFastError, got %v", i+1, err)
		}
	}

	for key, want := range map[string]string{
		"rate:interests:10s:5": "2",
		"rate:interests:min:5": "2",
	} {
		got, err := mr.Get(key)
		if err != nil {
			t.Fatalf("read %s: %v", key, err)
		}
		if got != want {
			t.Fatalf("%s: rejected attempts were counted, got %s want %s", key, got, want)
		}
	}

	mr.FastForward(11 * time.Second)
	if err := limiter.Allow(ctx, "5"); err != nil {
		t.Fatalf("allow after 10s window: %v", err)
	}
}

func TestLimiterZeroLimitsDisableWindows(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 0, 0)
	for i := 0; i < 50; i++ {
		if err := limiter.Allow(context.Background(), "1"); err != nil {
			t.Fatalf("allow #%d: %v", i+1, err)
		}
	}
	if mr.Exists("rate:interests:min:1") {
		t.Fatalf("disabled windows must not touch redis")
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
