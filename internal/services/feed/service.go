package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/identity"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotRegistered = errors.New("requester has no profile")
)

type ProfileStore interface {
	Get(ctx context.Context, identity string) (model.Profile, error)
	ListByGender(ctx context.Context, gender enums.Gender) ([]model.Profile, error)
}

// Ledger answers which identities an actor has already acted on.
type Ledger interface {
	SeenTargets(ctx context.Context, actor string) (map[string]struct{}, error)
}

type Config struct {
	DefaultLimit int
	MaxLimit     int
}

type Service struct {
	profiles ProfileStore
	ledger   Ledger
	cfg      Config
	shuffle  func(n int, swap func(i, j int))
}

func NewService(profiles ProfileStore, ledger Ledger, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = MaxLimit
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}

	return &Service{
		profiles: profiles,
		ledger:   ledger,
		cfg:      cfg,
		shuffle:  rand.Shuffle,
	}
}

// Feed returns up to limit unseen profiles of the gender opposite to the requester's,
// in uniformly random order. A requester outside the two-valued model gets an empty feed.
func (s *Service) Feed(ctx context.Context, rawRequester string, limit int) ([]model.Profile, error) {
	if s.profiles == nil || s.ledger == nil {
		return nil, fmt.Errorf("feed dependencies are not configured")
	}

	requester, err := identity.Normalize(rawRequester)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	me, err := s.profiles.Get(ctx, requester)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, fmt.Errorf("load requester profile: %w", err)
	}

	target := me.Gender.Opposite()
	if target == "" {
		return []model.Profile{}, nil
	}

	pool, err := s.profiles.ListByGender(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	seen, err := s.ledger.SeenTargets(ctx, requester)
	if err != nil {
		return nil, err
	}

	candidates := make([]model.Profile, 0, len(pool))
	for _, p := range pool {
		if p.Identity == requester {
			continue
		}
		if _, ok := seen[p.Identity]; ok {
			continue
		}
		candidates = append(candidates, p)
	}

	s.shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	limit = s.clampLimit(limit)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}
