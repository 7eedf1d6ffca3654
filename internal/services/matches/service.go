package matches

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivankudzin/spark/internal/domain/identity"
	"github.com/ivankudzin/spark/internal/domain/model"
)

var ErrValidation = errors.New("validation error")

type MatchStore interface {
	ListForUser(ctx context.Context, identity string) ([]model.Match, error)
}

type ProfileStore interface {
	GetMany(ctx context.Context, identities []string) ([]model.Profile, error)
}

type Service struct {
	matches  MatchStore
	profiles ProfileStore
}

func NewService(matches MatchStore, profiles ProfileStore) *Service {
	return &Service{
		matches:  matches,
		profiles: profiles,
	}
}

// List returns the other party of every match involving the user, oldest match first.
// Counterparts without a stored profile are skipped.
func (s *Service) List(ctx context.Context, rawID string) ([]model.Profile, error) {
	if s.matches == nil || s.profiles == nil {
		return nil, fmt.Errorf("match dependencies are not configured")
	}

	id, err := identity.Normalize(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	rows, err := s.matches.ListForUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	if len(rows) == 0 {
		return []model.Profile{}, nil
	}

	others := make([]string, 0, len(rows))
	for _, m := range rows {
		others = append(others, m.Other(id))
	}

	items, err := s.profiles.GetMany(ctx, others)
	if err != nil {
		return nil, fmt.Errorf("load matched profiles: %w", err)
	}
	return items, nil
}
