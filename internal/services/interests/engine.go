package interests

import (
	"context"
	"fmt"

	"github.com/ivankudzin/spark/internal/domain/model"
)

// evaluate runs after actor's positive action toward target has been stored. It must be
// called inside the pair transaction so the exists check and the append cannot interleave
// with the reciprocal call.
func (s *Service) evaluate(ctx context.Context, actor, target string) (matched, created bool, err error) {
	reciprocal, err := s.HasPositiveInterest(ctx, target, actor)
	if err != nil {
		return false, false, err
	}
	if !reciprocal {
		return false, false, nil
	}

	exists, err := s.matches.Exists(ctx, actor, target)
	if err != nil {
		return false, false, fmt.Errorf("lookup match: %w", err)
	}
	if exists {
		return true, false, nil
	}

	created, err = s.matches.AppendIfAbsent(ctx, model.NewMatch(actor, target, s.now().UTC()))
	if err != nil {
		return false, false, fmt.Errorf("append match: %w", err)
	}
	return true, created, nil
}
