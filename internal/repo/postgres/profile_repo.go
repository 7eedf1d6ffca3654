package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo"
)

const profileColumns = `identity, name, age, city, gender, bio, photo, media, music, interests, updated_at`

type ProfileRepo struct {
	pool *pgxpool.Pool
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) Upsert(ctx context.Context, p model.Profile) error {
	if p.Identity == "" {
		return fmt.Errorf("profile identity is required")
	}
	q, err := conn(ctx, r.pool)
	if err != nil {
		return err
	}

	media, err := json.Marshal(nonNilMedia(p.Media))
	if err != nil {
		return fmt.Errorf("encode profile media: %w", err)
	}
	var music []byte
	if p.Music != nil {
		music, err = json.Marshal(p.Music)
		if err != nil {
			return fmt.Errorf("encode profile music: %w", err)
		}
	}
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}

	if _, err := q.Exec(ctx, `
INSERT INTO profiles (
	identity,
	name,
	age,
	city,
	gender,
	bio,
	photo,
	media,
	music,
	interests,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10, $11)
ON CONFLICT (identity) DO UPDATE SET
	name = EXCLUDED.name,
	age = EXCLUDED.age,
	city = EXCLUDED.city,
	gender = EXCLUDED.gender,
	bio = EXCLUDED.bio,
	photo = EXCLUDED.photo,
	media = EXCLUDED.media,
	music = EXCLUDED.music,
	interests = EXCLUDED.interests,
	updated_at = EXCLUDED.updated_at
`,
		p.Identity,
		p.Name,
		p.Age,
		p.City,
		string(p.Gender),
		p.Bio,
		p.Photo,
		string(media),
		nullableJSON(music),
		interests,
		p.UpdatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func (r *ProfileRepo) Get(ctx context.Context, identity string) (model.Profile, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return model.Profile{}, err
	}

	p, err := scanProfile(q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE identity = $1`, identity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, fmt.Errorf("profile %q: %w", identity, repo.ErrNotFound)
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// GetMany returns the profiles that exist, in the order of identities.
func (r *ProfileRepo) GetMany(ctx context.Context, identities []string) ([]model.Profile, error) {
	if len(identities) == 0 {
		return []model.Profile{}, nil
	}
	q, err := conn(ctx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE identity = ANY($1)`, identities)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	found, err := collectProfiles(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Profile, len(found))
	for _, p := range found {
		byID[p.Identity] = p
	}
	out := make([]model.Profile, 0, len(found))
	for _, id := range identities {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProfileRepo) ListByGender(ctx context.Context, gender enums.Gender) ([]model.Profile, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE gender = $1 ORDER BY identity`, string(gender))
	if err != nil {
		return nil, fmt.Errorf("list profiles by gender: %w", err)
	}
	return collectProfiles(rows)
}

// ListAll feeds store snapshots.
func (r *ProfileRepo) ListAll(ctx context.Context) ([]model.Profile, error) {
	q, err := conn(ctx, r.pool)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY identity`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return collectProfiles(rows)
}

func collectProfiles(rows pgx.Rows) ([]model.Profile, error) {
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		items = append(items, p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate profiles: %w", rows.Err())
	}
	return items, nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p      model.Profile
		gender string
		media  []byte
		music  []byte
	)
	if err := row.Scan(
		&p.Identity,
		&p.Name,
		&p.Age,
		&p.City,
		&gender,
		&p.Bio,
		&p.Photo,
		&media,
		&music,
		&p.Interests,
		&p.UpdatedAt,
	); err != nil {
		return model.Profile{}, err
	}

	p.Gender = enums.Gender(gender)
	if len(media) > 0 {
		if err := json.Unmarshal(media, &p.Media); err != nil {
			return model.Profile{}, fmt.Errorf("decode profile media: %w", err)
		}
	}
	if len(music) > 0 {
		var m model.Music
		if err := json.Unmarshal(music, &m); err != nil {
			return model.Profile{}, fmt.Errorf("decode profile music: %w", err)
		}
		p.Music = &m
	}
	if len(p.Interests) == 0 {
		p.Interests = nil
	}
	return p, nil
}

func nonNilMedia(items []model.MediaItem) []model.MediaItem {
	if items == nil {
		return []model.MediaItem{}
	}
	return items
}

func nullableJSON(data []byte) *string {
	if len(data) == 0 {
		return nil
	}
	s := string(data)
	return &s
}
