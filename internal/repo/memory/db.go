// Package memory is a process-local backend. All repos built from one DB share state,
// and WithinPairTx serializes every mutating sequence behind a single lock.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ivankudzin/spark/internal/domain/model"
)

type pair struct {
	actor  string
	target string
}

type DB struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	profiles     map[string]model.Profile
	interests    map[pair]model.InterestEvent
	matches      map[string]model.Match
	matchesOrder []string

	now func() time.Time
}

func NewDB() *DB {
	return &DB{
		profiles:  make(map[string]model.Profile),
		interests: make(map[pair]model.InterestEvent),
		matches:   make(map[string]model.Match),
		now:       time.Now,
	}
}

func (db *DB) Profiles() *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (db *DB) Interests() *InterestRepo {
	return &InterestRepo{db: db}
}

func (db *DB) Matches() *MatchRepo {
	return &MatchRepo{db: db}
}

// WithinPairTx runs fn while holding the store-wide transaction lock. The pair is accepted
// for interface parity with the postgres backend, which locks per pair.
func (db *DB) WithinPairTx(ctx context.Context, _, _ string, fn func(context.Context) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// WithinSnapshotTx holds the transaction lock for the duration of fn, so no interest or match
// write can land between the reads fn makes.
func (db *DB) WithinSnapshotTx(ctx context.Context, fn func(context.Context) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
