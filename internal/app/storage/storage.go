// Package storage opens the configured backend and exposes its repos behind one set of interfaces.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ivankudzin/spark/internal/config"
	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo/memory"
	pgrepo "github.com/ivankudzin/spark/internal/repo/postgres"
)

type ProfileRepo interface {
	Upsert(ctx context.Context, p model.Profile) error
	Get(ctx context.Context, identity string) (model.Profile, error)
	GetMany(ctx context.Context, identities []string) ([]model.Profile, error)
	ListByGender(ctx context.Context, gender enums.Gender) ([]model.Profile, error)
	ListAll(ctx context.Context) ([]model.Profile, error)
}

type InterestRepo interface {
	Replace(ctx context.Context, ev model.InterestEvent) error
	Get(ctx context.Context, actor, target string) (model.InterestEvent, error)
	SeenTargets(ctx context.Context, actor string) ([]string, error)
	CountPositiveReceived(ctx context.Context, target string) (int, error)
	ListAll(ctx context.Context) ([]model.InterestEvent, error)
}

type MatchRepo interface {
	AppendIfAbsent(ctx context.Context, m model.Match) (bool, error)
	Exists(ctx context.Context, a, b string) (bool, error)
	ListForUser(ctx context.Context, identity string) ([]model.Match, error)
	CountForUser(ctx context.Context, identity string) (int, error)
	ListAll(ctx context.Context) ([]model.Match, error)
}

type Transactor interface {
	WithinPairTx(ctx context.Context, a, b string, fn func(context.Context) error) error
	WithinSnapshotTx(ctx context.Context, fn func(context.Context) error) error
}

type Stores struct {
	Backend    string
	Profiles   ProfileRepo
	Interests  InterestRepo
	Matches    MatchRepo
	Transactor Transactor

	ping  func(context.Context) error
	close func()
}

// Open builds the repos for cfg.Store.Backend. For postgres it also applies migrations when
// cfg.Postgres.Migrate is set.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*Stores, error) {
	if log == nil {
		log = zap.NewNop()
	}

	switch cfg.Store.Backend {
	case config.StoreMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return NewMemory(memory.NewDB()), nil

	case config.StorePostgres:
		pool, err := pgrepo.NewPool(ctx, pgrepo.PoolOptions{
			DSN:             cfg.Postgres.DSN,
			MaxConns:        int32(cfg.Postgres.MaxConns),
			MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		if cfg.Postgres.Migrate {
			if err := pgrepo.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
			log.Info("postgres migrations applied")
		}
		return &Stores{
			Backend:    config.StorePostgres,
			Profiles:   pgrepo.NewProfileRepo(pool),
			Interests:  pgrepo.NewInterestRepo(pool),
			Matches:    pgrepo.NewMatchRepo(pool),
			Transactor: pgrepo.NewTxManager(pool),
			ping:       pool.Ping,
			close:      pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}

func NewMemory(db *memory.DB) *Stores {
	return &Stores{
		Backend:    config.StoreMemory,
		Profiles:   db.Profiles(),
		Interests:  db.Interests(),
		Matches:    db.Matches(),
		Transactor: db,
	}
}

func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}
