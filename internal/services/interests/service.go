// Package interests records one-directional interest actions and evaluates matches.
package interests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/identity"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidAction = errors.New("invalid interest action")
	ErrNotRegistered = errors.New("actor has no profile")
	ErrNotFound      = errors.New("target profile not found")
)

type LedgerStore interface {
	Replace(ctx context.Context, ev model.InterestEvent) error
	Get(ctx context.Context, actor, target string) (model.InterestEvent, error)
	SeenTargets(ctx context.Context, actor string) ([]string, error)
}

type MatchStore interface {
	AppendIfAbsent(ctx context.Context, m model.Match) (bool, error)
	Exists(ctx context.Context, a, b string) (bool, error)
}

type ProfileLookup interface {
	Get(ctx context.Context, identity string) (model.Profile, error)
}

// Transactor runs fn so that no other fn for the same unordered pair interleaves with it.
// Stores called with the ctx handed to fn take part in the same unit of work.
type Transactor interface {
	WithinPairTx(ctx context.Context, a, b string, fn func(context.Context) error) error
}

type RateLimiter interface {
	Allow(ctx context.Context, actor string) error
}

type Dependencies struct {
	Ledger     LedgerStore
	Matches    MatchStore
	Profiles   ProfileLookup
	Transactor Transactor
}

type Result struct {
	// Matched is true whenever both sides currently like each other, including replays.
	Matched bool
	// MatchCreated is true only for the call that wrote the match record.
	MatchCreated bool
}

type Service struct {
	ledger      LedgerStore
	matches     MatchStore
	profiles    ProfileLookup
	tx          Transactor
	rateLimiter RateLimiter
	now         func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		ledger:   deps.Ledger,
		matches:  deps.Matches,
		profiles: deps.Profiles,
		tx:       deps.Transactor,
		now:      time.Now,
	}
}

func (s *Service) AttachRateLimiter(limiter RateLimiter) {
	s.rateLimiter = limiter
}

// Record replaces the live event for (actor, target) with action and, for positive actions,
// evaluates the pair for a match. The action is checked before anything is touched.
func (s *Service) Record(ctx context.Context, rawActor, rawTarget string, action enums.Action) (Result, error) {
	if !action.Valid() {
		return Result{}, ErrInvalidAction
	}

	actor, err := identity.Normalize(rawActor)
	if err != nil {
		return Result{}, fmt.Errorf("%w: actor: %v", ErrValidation, err)
	}
	target, err := identity.Normalize(rawTarget)
	if err != nil {
		return Result{}, fmt.Errorf("%w: target: %v", ErrValidation, err)
	}
	if actor == target {
		return Result{}, fmt.Errorf("%w: actor and target must differ", ErrValidation)
	}

	if s.ledger == nil || s.matches == nil || s.profiles == nil || s.tx == nil {
		return Result{}, fmt.Errorf("interest dependencies are not configured")
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(ctx, actor); err != nil {
			return Result{}, err
		}
	}

	var result Result
	if err := s.tx.WithinPairTx(ctx, actor, target, func(txCtx context.Context) error {
		if err := s.requireProfiles(txCtx, actor, target); err != nil {
			return err
		}

		if err := s.ledger.Replace(txCtx, model.InterestEvent{
			Actor:     actor,
			Target:    target,
			Action:    action,
			CreatedAt: s.now().UTC(),
		}); err != nil {
			return fmt.Errorf("record interest: %w", err)
		}

		if !action.IsPositive() {
			return nil
		}

		matched, created, err := s.evaluate(txCtx, actor, target)
		if err != nil {
			return err
		}
		result = Result{Matched: matched, MatchCreated: created}
		return nil
	}); err != nil {
		return Result{}, err
	}

	return result, nil
}

// HasPositiveInterest reports whether actor currently likes or super-likes target.
func (s *Service) HasPositiveInterest(ctx context.Context, actor, target string) (bool, error) {
	if s.ledger == nil {
		return false, fmt.Errorf("ledger store is nil")
	}

	ev, err := s.ledger.Get(ctx, actor, target)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load interest: %w", err)
	}
	return ev.Action.IsPositive(), nil
}

// SeenTargets is every identity actor has recorded any action toward.
func (s *Service) SeenTargets(ctx context.Context, actor string) (map[string]struct{}, error) {
	if s.ledger == nil {
		return nil, fmt.Errorf("ledger store is nil")
	}

	targets, err := s.ledger.SeenTargets(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("load seen targets: %w", err)
	}

	seen := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		seen[target] = struct{}{}
	}
	return seen, nil
}

func (s *Service) requireProfiles(ctx context.Context, actor, target string) error {
	if _, err := s.profiles.Get(ctx, actor); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotRegistered
		}
		return fmt.Errorf("load actor profile: %w", err)
	}
	if _, err := s.profiles.Get(ctx, target); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load target profile: %w", err)
	}
	return nil
}
