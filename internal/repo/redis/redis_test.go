package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
)

func TestProfileCacheRoundTripAndExpiry(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	cache := NewProfileCacheRepo(client, time.Minute)

	if _, ok, err := cache.GetProfile(ctx, "7"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	p := model.Profile{
		Identity: "7",
		Name:     "Masha",
		Gender:   enums.GenderFemale,
		Music:    &model.Music{Title: "Song"},
	}
	if err := cache.SetProfile(ctx, p); err != nil {
		t.Fatalf("set profile: %v", err)
	}

	got, ok, err := cache.GetProfile(ctx, "7")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Name != "Masha" || got.Music == nil || got.Music.Title != "Song" {
		t.Fatalf("unexpected cached profile: %+v", got)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := cache.GetProfile(ctx, "7"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestProfileCacheDelete(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	cache := NewProfileCacheRepo(client, time.Minute)
	if err := cache.SetProfile(ctx, model.Profile{Identity: "9"}); err != nil {
		t.Fatalf("set profile: %v", err)
	}
	if err := cache.DeleteProfile(ctx, "9"); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if _, ok, _ := cache.GetProfile(ctx, "9"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestProfileCacheFillKeepsExistingEntry(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	cache := NewProfileCacheRepo(client, time.Minute)

	if err := cache.SetProfileIfAbsent(ctx, model.Profile{Identity: "5", Name: "first"}); err != nil {
		t.Fatalf("fill empty slot: %v", err)
	}
	if err := cache.SetProfileIfAbsent(ctx, model.Profile{Identity: "5", Name: "second"}); err != nil {
		t.Fatalf("fill taken slot: %v", err)
	}
	got, ok, err := cache.GetProfile(ctx, "5")
	if err != nil || !ok || got.Name != "first" {
		t.Fatalf("expected first fill to win, got %+v ok=%v err=%v", got, ok, err)
	}
	if ttl := mr.TTL(profileKeyPrefix + "5"); ttl <= 0 {
		t.Fatalf("expected filled entry to carry a ttl, got %s", ttl)
	}

	if err := cache.SetProfile(ctx, model.Profile{Identity: "5", Name: "third"}); err != nil {
		t.Fatalf("set profile: %v", err)
	}
	got, _, _ = cache.GetProfile(ctx, "5")
	if got.Name != "third" {
		t.Fatalf("expected plain set to overwrite, got %q", got.Name)
	}
}

func TestRateWindowCountsAndResets(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	rates := NewRateRepo(client)

	for i := int64(1); i <= 3; i++ {
		count, ttl, err := rates.IncrementWindow(ctx, "rate:test", 10*time.Second)
		if err != nil {
			t.Fatalf("increment #%d: %v", i, err)
		}
		if count != i {
			t.Fatalf("expected count %d, got %d", i, count)
		}
		if ttl <= 0 || ttl > 10*time.Second {
			t.Fatalf("unexpected ttl %s", ttl)
		}
	}

	count, _, err := rates.WindowState(ctx, "rate:test")
	if err != nil || count != 3 {
		t.Fatalf("expected window state 3, got %d err=%v", count, err)
	}

	mr.FastForward(11 * time.Second)
	count, ttl, err := rates.WindowState(ctx, "rate:test")
	if err != nil || count != 0 || ttl != 0 {
		t.Fatalf("expected empty window after expiry, got count=%d ttl=%s err=%v", count, ttl, err)
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
