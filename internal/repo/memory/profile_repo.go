package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo"
)

type ProfileRepo struct {
	db *DB
}

func (r *ProfileRepo) Upsert(_ context.Context, p model.Profile) error {
	if p.Identity == "" {
		return fmt.Errorf("profile identity is required")
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.profiles[p.Identity] = cloneProfile(p)
	return nil
}

func (r *ProfileRepo) Get(_ context.Context, identity string) (model.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.profiles[identity]
	if !ok {
		return model.Profile{}, fmt.Errorf("profile %q: %w", identity, repo.ErrNotFound)
	}
	return cloneProfile(p), nil
}

// GetMany returns the profiles that exist, in the order of identities.
func (r *ProfileRepo) GetMany(_ context.Context, identities []string) ([]model.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Profile, 0, len(identities))
	for _, id := range identities {
		if p, ok := r.db.profiles[id]; ok {
			out = append(out, cloneProfile(p))
		}
	}
	return out, nil
}

func (r *ProfileRepo) ListByGender(_ context.Context, gender enums.Gender) ([]model.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Profile, 0)
	for _, p := range r.db.profiles {
		if p.Gender == gender {
			out = append(out, cloneProfile(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out, nil
}

func cloneProfile(p model.Profile) model.Profile {
	out := p
	if p.Media != nil {
		out.Media = append([]model.MediaItem(nil), p.Media...)
	}
	if p.Interests != nil {
		out.Interests = append([]string(nil), p.Interests...)
	}
	if p.Music != nil {
		music := *p.Music
		out.Music = &music
	}
	return out
}

func (r *ProfileRepo) ListAll(_ context.Context) ([]model.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Profile, 0, len(r.db.profiles))
	for _, p := range r.db.profiles {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identity < out[j].Identity })
	return out, nil
}
