package stats

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/ivankudzin/spark/internal/domain/identity"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/domain/rules"
)

var ErrValidation = errors.New("validation error")

type LedgerStore interface {
	CountPositiveReceived(ctx context.Context, target string) (int, error)
}

type MatchStore interface {
	CountForUser(ctx context.Context, identity string) (int, error)
}

type Service struct {
	ledger  LedgerStore
	matches MatchStore
	jitter  func() int
}

func NewService(ledger LedgerStore, matches MatchStore) *Service {
	return &Service{
		ledger:  ledger,
		matches: matches,
		jitter:  func() int { return rand.Intn(rules.ViewsJitterMax + 1) },
	}
}

// Get never fails for unknown users; they simply have zero counts.
func (s *Service) Get(ctx context.Context, rawID string) (model.Stats, error) {
	if s.ledger == nil || s.matches == nil {
		return model.Stats{}, fmt.Errorf("stats dependencies are not configured")
	}

	id, err := identity.Normalize(rawID)
	if err != nil {
		return model.Stats{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	likes, err := s.ledger.CountPositiveReceived(ctx, id)
	if err != nil {
		return model.Stats{}, fmt.Errorf("count received likes: %w", err)
	}
	matches, err := s.matches.CountForUser(ctx, id)
	if err != nil {
		return model.Stats{}, fmt.Errorf("count matches: %w", err)
	}

	return model.Stats{
		LikesReceived: likes,
		Matches:       matches,
		Views:         rules.Views(likes, s.jitter()),
	}, nil
}
