package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/spark/internal/domain/model"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// AppendIfAbsent inserts the canonical pair and reports whether a row was written.
func (r *MatchRepo) AppendIfAbsent(ctx context.Context, m model.Match) (bool, error) {
	if m.UserA == "" || m.UserB == "" || m.UserA == m.UserB {
		return false, fmt.Errorf("invalid match payload")
	}
	q, err := conn(ctx, r.pool)
	if err != nil {
		return false, err
	}

	userA, userB := model.OrderPair(m.UserA, m.UserB)
	result, err := q.Exec(ctx, `
INSERT INTO matches (
	user_a,
	user_b,
	created_at
) VALUES ($1, $2, NOW())
ON CONFLICT (user_a, user_b) DO NOTHING
`, userA, userB)
	if err != nil {
		return false, fmt.Errorf("create match: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *MatchRepo) Exists(ctx context.Context, a, b string) (bool, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return false, err
	}

	userA, userB := model.OrderPair(a, b)
	var exists bool
	if err := q.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM matches WHERE user_a = $1 AND user_b = $2
)
`, userA, userB).Scan(&exists); err != nil {
		return false, fmt.Errorf("lookup match: %w", err)
	}
	return exists, nil
}

// ListForUser returns matches involving identity, oldest first.
func (r *MatchRepo) ListForUser(ctx context.Context, identity string) ([]model.Match, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
SELECT user_a, user_b, created_at
FROM matches
WHERE user_a = $1 OR user_b = $1
ORDER BY created_at, user_a, user_b
`, identity)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return collectMatches(rows)
}

func (r *MatchRepo) CountForUser(ctx context.Context, identity string) (int, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.QueryRow(ctx, `
SELECT COUNT(*) FROM matches WHERE user_a = $1 OR user_b = $1
`, identity).Scan(&count); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

// ListAll feeds store snapshots.
func (r *MatchRepo) ListAll(ctx context.Context) ([]model.Match, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT user_a, user_b, created_at FROM matches ORDER BY created_at, user_a, user_b`)
	if err != nil {
		return nil, fmt.Errorf("list all matches: %w", err)
	}
	return collectMatches(rows)
}

func collectMatches(rows pgx.Rows) ([]model.Match, error) {
	defer rows.Close()

	items := make([]model.Match, 0)
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.UserA, &m.UserB, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate matches: %w", rows.Err())
	}
	return items, nil
}
