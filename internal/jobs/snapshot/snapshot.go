// Package snapshot exports the whole store as one JSON document.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudzin/spark/internal/domain/model"
)

const defaultPrefix = "snapshots"

type ProfileSource interface {
	ListAll(ctx context.Context) ([]model.Profile, error)
}

type InterestSource interface {
	ListAll(ctx context.Context) ([]model.InterestEvent, error)
}

type MatchSource interface {
	ListAll(ctx context.Context) ([]model.Match, error)
}

// ReadTransactor runs fn so that all reads made with its ctx see one consistent state.
type ReadTransactor interface {
	WithinSnapshotTx(ctx context.Context, fn func(context.Context) error) error
}

type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// Document keeps the users/likes/matches layout of the legacy data file, so an export can be
// inspected with the same tooling.
type Document struct {
	ExportedAt time.Time                `json:"exported_at"`
	Users      map[string]model.Profile `json:"users"`
	Likes      []model.InterestEvent    `json:"likes"`
	Matches    []model.Match            `json:"matches"`
}

type Job struct {
	profiles  ProfileSource
	interests InterestSource
	matches   MatchSource
	reader    ReadTransactor
	store     ObjectStore
	prefix    string
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
}

type Dependencies struct {
	Profiles  ProfileSource
	Interests InterestSource
	Matches   MatchSource
	Reader    ReadTransactor
	Store     ObjectStore
}

func New(deps Dependencies, prefix string, logger *zap.Logger) *Job {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = defaultPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		profiles:  deps.Profiles,
		interests: deps.Interests,
		matches:   deps.Matches,
		reader:    deps.Reader,
		store:     deps.Store,
		prefix:    prefix,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
		logger:    logger,
	}
}

// Run builds the document and uploads it. It returns the object key.
func (j *Job) Run(ctx context.Context) (string, error) {
	if j.profiles == nil || j.interests == nil || j.matches == nil || j.reader == nil || j.store == nil {
		return "", fmt.Errorf("snapshot dependencies are not configured")
	}

	var doc Document
	if err := j.reader.WithinSnapshotTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = j.build(txCtx)
		return err
	}); err != nil {
		return "", err
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := path.Join(j.prefix, doc.ExportedAt.Format("20060102T150405Z")+"-"+j.newID()+".json")
	if err := j.store.PutObject(ctx, key, body, "application/json"); err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	j.logger.Info("store snapshot exported",
		zap.String("object_key", key),
		zap.Int("users", len(doc.Users)),
		zap.Int("likes", len(doc.Likes)),
		zap.Int("matches", len(doc.Matches)),
		zap.Int("bytes", len(body)),
	)
	return key, nil
}

func (j *Job) build(ctx context.Context) (Document, error) {
	profiles, err := j.profiles.ListAll(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("list profiles: %w", err)
	}
	interests, err := j.interests.ListAll(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("list interests: %w", err)
	}
	matches, err := j.matches.ListAll(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("list matches: %w", err)
	}

	users := make(map[string]model.Profile, len(profiles))
	for _, p := range profiles {
		users[p.Identity] = p
	}

	return Document{
		ExportedAt: j.now().UTC(),
		Users:      users,
		Likes:      interests,
		Matches:    matches,
	}, nil
}
