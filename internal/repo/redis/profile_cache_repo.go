package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/spark/internal/domain/model"
)

const profileKeyPrefix = "profile:"

// ProfileCacheRepo stores serialized profiles with a TTL. A miss is (zero, false, nil).
type ProfileCacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewProfileCacheRepo(client *goredis.Client, ttl time.Duration) *ProfileCacheRepo {
	return &ProfileCacheRepo{client: client, ttl: ttl}
}

func (r *ProfileCacheRepo) GetProfile(ctx context.Context, identity string) (model.Profile, bool, error) {
	if r.client == nil {
		return model.Profile{}, false, fmt.Errorf("redis client is nil")
	}

	raw, err := r.client.Get(ctx, profileKeyPrefix+identity).Bytes()
	if errors.Is(err, goredis.Nil) {
		return model.Profile{}, false, nil
	}
	if err != nil {
		return model.Profile{}, false, fmt.Errorf("get cached profile: %w", err)
	}

	var p model.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Profile{}, false, fmt.Errorf("decode cached profile: %w", err)
	}
	return p, true, nil
}

func (r *ProfileCacheRepo) SetProfile(ctx context.Context, p model.Profile) error {
	raw, err := r.encode(p)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, profileKeyPrefix+p.Identity, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("set cached profile: %w", err)
	}
	return nil
}

// SetProfileIfAbsent fills an empty slot only (SET NX). A present entry wins.
func (r *ProfileCacheRepo) SetProfileIfAbsent(ctx context.Context, p model.Profile) error {
	raw, err := r.encode(p)
	if err != nil {
		return err
	}
	if err := r.client.SetNX(ctx, profileKeyPrefix+p.Identity, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("fill cached profile: %w", err)
	}
	return nil
}

func (r *ProfileCacheRepo) encode(p model.Profile) ([]byte, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if p.Identity == "" {
		return nil, fmt.Errorf("profile identity is required")
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode cached profile: %w", err)
	}
	return raw, nil
}

func (r *ProfileCacheRepo) DeleteProfile(ctx context.Context, identity string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, profileKeyPrefix+identity).Err(); err != nil {
		return fmt.Errorf("delete cached profile: %w", err)
	}
	return nil
}
