package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/identity"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/domain/rules"
	"github.com/ivankudzin/spark/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("profile not found")
)

type ProfileStore interface {
	Upsert(ctx context.Context, p model.Profile) error
	Get(ctx context.Context, identity string) (model.Profile, error)
}

// ProfileCache is optional. Misses are reported as ok=false with a nil error.
// SetProfileIfAbsent must not replace an existing entry; reads use it so a slow reader cannot
// overwrite what a newer Upsert stored.
type ProfileCache interface {
	GetProfile(ctx context.Context, identity string) (model.Profile, bool, error)
	SetProfile(ctx context.Context, p model.Profile) error
	SetProfileIfAbsent(ctx context.Context, p model.Profile) error
	DeleteProfile(ctx context.Context, identity string) error
}

type Service struct {
	store ProfileStore
	cache ProfileCache
	now   func() time.Time
}

func NewService(store ProfileStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

func (s *Service) AttachCache(cache ProfileCache) {
	s.cache = cache
}

// Upsert normalizes p, resolves its photo and overwrites any stored profile with the same identity.
func (s *Service) Upsert(ctx context.Context, p model.Profile) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	id, err := identity.Normalize(p.Identity)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if p.Age < 0 {
		return model.Profile{}, fmt.Errorf("%w: age must not be negative", ErrValidation)
	}

	p.Identity = id
	p.Name = strings.TrimSpace(p.Name)
	p.City = strings.TrimSpace(p.City)
	p.Gender = enums.Gender(strings.ToLower(strings.TrimSpace(string(p.Gender))))
	p.Photo = rules.PrimaryPhoto(p.Photo, p.Media)
	p.Interests = normalizeTags(p.Interests)
	p.UpdatedAt = s.now().UTC()

	if err := s.store.Upsert(ctx, p); err != nil {
		return model.Profile{}, fmt.Errorf("store profile: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProfile(ctx, p); err != nil {
			// A stale entry must not outlive a failed refresh.
			_ = s.cache.DeleteProfile(ctx, p.Identity)
		}
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, rawID string) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	id, err := identity.Normalize(rawID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if s.cache != nil {
		if p, ok, err := s.cache.GetProfile(ctx, id); err == nil && ok {
			return p, nil
		}
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("load profile: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.SetProfileIfAbsent(ctx, p)
	}
	return p, nil
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
