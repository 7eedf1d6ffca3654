package memory

import (
	"context"
	"fmt"

	"github.com/ivankudzin/spark/internal/domain/model"
)

type MatchRepo struct {
	db *DB
}

// AppendIfAbsent stores m unless the unordered pair already has a match. It reports whether
// a new record was written.
func (r *MatchRepo) AppendIfAbsent(_ context.Context, m model.Match) (bool, error) {
	if m.UserA == "" || m.UserB == "" || m.UserA == m.UserB {
		return false, fmt.Errorf("invalid match payload")
	}
	m = model.NewMatch(m.UserA, m.UserB, m.CreatedAt)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.db.now().UTC()
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := model.PairKey(m.UserA, m.UserB)
	if _, ok := r.db.matches[key]; ok {
		return false, nil
	}
	r.db.matches[key] = m
	r.db.matchesOrder = append(r.db.matchesOrder, key)
	return true, nil
}

func (r *MatchRepo) Exists(_ context.Context, a, b string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	_, ok := r.db.matches[model.PairKey(a, b)]
	return ok, nil
}

// ListForUser returns matches involving identity, oldest first.
func (r *MatchRepo) ListForUser(_ context.Context, identity string) ([]model.Match, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Match, 0)
	for _, key := range r.db.matchesOrder {
		m := r.db.matches[key]
		if m.Involves(identity) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MatchRepo) CountForUser(ctx context.Context, identity string) (int, error) {
	items, err := r.ListForUser(ctx, identity)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (r *MatchRepo) ListAll(_ context.Context) ([]model.Match, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Match, 0, len(r.db.matchesOrder))
	for _, key := range r.db.matchesOrder {
		out = append(out, r.db.matches[key])
	}
	return out, nil
}
