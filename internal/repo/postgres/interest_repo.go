package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo"
)

type InterestRepo struct {
	pool *pgxpool.Pool
}

func NewInterestRepo(pool *pgxpool.Pool) *InterestRepo {
	return &InterestRepo{pool: pool}
}

// Replace overwrites the live event for (actor, target); no history is kept.
func (r *InterestRepo) Replace(ctx context.Context, ev model.InterestEvent) error {
	if ev.Actor == "" || ev.Target == "" {
		return fmt.Errorf("invalid interest payload")
	}
	q, err := conn(ctx, r.pool)
	if err != nil {
		return err
	}

	if _, err := q.Exec(ctx, `
INSERT INTO interests (
	actor,
	target,
	action,
	created_at
) VALUES ($1, $2, $3, COALESCE($4, NOW()))
ON CONFLICT (actor, target) DO UPDATE SET
	action = EXCLUDED.action,
	created_at = EXCLUDED.created_at
`, ev.Actor, ev.Target, string(ev.Action), nullableTime(ev)); err != nil {
		return fmt.Errorf("replace interest: %w", err)
	}

	return nil
}

func (r *InterestRepo) Get(ctx context.Context, actor, target string) (model.InterestEvent, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return model.InterestEvent{}, err
	}

	var (
		ev     model.InterestEvent
		action string
	)
	err = q.QueryRow(ctx, `
SELECT actor, target, action, created_at
FROM interests
WHERE actor = $1 AND target = $2
`, actor, target).Scan(&ev.Actor, &ev.Target, &action, &ev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.InterestEvent{}, fmt.Errorf("interest %s->%s: %w", actor, target, repo.ErrNotFound)
		}
		return model.InterestEvent{}, fmt.Errorf("get interest: %w", err)
	}
	ev.Action = enums.Action(action)
	return ev, nil
}

func (r *InterestRepo) SeenTargets(ctx context.Context, actor string) ([]string, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT target FROM interests WHERE actor = $1 ORDER BY target`, actor)
	if err != nil {
		return nil, fmt.Errorf("list seen targets: %w", err)
	}
	defer rows.Close()

	items := make([]string, 0)
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("scan seen target: %w", err)
		}
		items = append(items, target)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate seen targets: %w", rows.Err())
	}
	return items, nil
}

func (r *InterestRepo) CountPositiveReceived(ctx context.Context, target string) (int, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return 0, err
	}

	var count int
	if err := q.QueryRow(ctx, `
SELECT COUNT(*)
FROM interests
WHERE target = $1 AND action IN ('like', 'super-like')
`, target).Scan(&count); err != nil {
		return 0, fmt.Errorf("count received interests: %w", err)
	}
	return count, nil
}

// ListAll feeds store snapshots.
func (r *InterestRepo) ListAll(ctx context.Context) ([]model.InterestEvent, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT actor, target, action, created_at FROM interests ORDER BY created_at, actor, target`)
	if err != nil {
		return nil, fmt.Errorf("list interests: %w", err)
	}
	defer rows.Close()

	items := make([]model.InterestEvent, 0)
	for rows.Next() {
		var (
			ev     model.InterestEvent
			action string
		)
		if err := rows.Scan(&ev.Actor, &ev.Target, &action, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		ev.Action = enums.Action(action)
		items = append(items, ev)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate interests: %w", rows.Err())
	}
	return items, nil
}

func nullableTime(ev model.InterestEvent) any {
	if ev.CreatedAt.IsZero() {
		return nil
	}
	return ev.CreatedAt.UTC()
}
