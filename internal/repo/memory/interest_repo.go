package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo"
)

type InterestRepo struct {
	db *DB
}

// Replace drops any live event for (actor, target) and stores ev in its place.
func (r *InterestRepo) Replace(_ context.Context, ev model.InterestEvent) error {
	if ev.Actor == "" || ev.Target == "" {
		return fmt.Errorf("invalid interest payload")
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = r.db.now().UTC()
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := pair{actor: ev.Actor, target: ev.Target}
	delete(r.db.interests, key)
	r.db.interests[key] = ev
	return nil
}

func (r *InterestRepo) Get(_ context.Context, actor, target string) (model.InterestEvent, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ev, ok := r.db.interests[pair{actor: actor, target: target}]
	if !ok {
		return model.InterestEvent{}, fmt.Errorf("interest %s->%s: %w", actor, target, repo.ErrNotFound)
	}
	return ev, nil
}

func (r *InterestRepo) SeenTargets(_ context.Context, actor string) ([]string, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]string, 0)
	for key := range r.db.interests {
		if key.actor == actor {
			out = append(out, key.target)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *InterestRepo) CountPositiveReceived(_ context.Context, target string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for key, ev := range r.db.interests {
		if key.target == target && ev.Action.IsPositive() {
			count++
		}
	}
	return count, nil
}

func (r *InterestRepo) ListAll(_ context.Context) ([]model.InterestEvent, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.InterestEvent, 0, len(r.db.interests))
	for _, ev := range r.db.interests {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		if out[i].Actor != out[j].Actor {
			return out[i].Actor < out[j].Actor
		}
		return out[i].Target < out[j].Target
	})
	return out, nil
}
