package cleanup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	s3infra "github.com/ivankudzin/spark/internal/infra/s3"
)

type ObjectStore interface {
	ListObjects(ctx context.Context, prefix string) ([]s3infra.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

// Job prunes exported snapshots older than the retention window.
type Job struct {
	store     ObjectStore
	prefix    string
	retention time.Duration
	keepLast  int
	now       func() time.Time
	logger    *zap.Logger
}

func NewSnapshotCleanupJob(store ObjectStore, prefix string, retention time.Duration, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = "snapshots"
	}

	return &Job{
		store:     store,
		prefix:    prefix + "/",
		retention: retention,
		keepLast:  1,
		now:       time.Now,
		logger:    logger,
	}
}

// Run returns the number of deleted objects. The newest snapshot always survives.
func (j *Job) Run(ctx context.Context) (int, error) {
	if j.store == nil || j.retention <= 0 {
		return 0, nil
	}

	objects, err := j.store.ListObjects(ctx, j.prefix)
	if err != nil {
		return 0, fmt.Errorf("list snapshots: %w", err)
	}
	if len(objects) <= j.keepLast {
		return 0, nil
	}

	newest := objects[0]
	for _, obj := range objects[1:] {
		if obj.LastModified.After(newest.LastModified) {
			newest = obj
		}
	}

	cutoff := j.now().Add(-j.retention)
	deleted := 0
	for _, obj := range objects {
		if obj.Key == newest.Key || !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := j.store.Delete(ctx, obj.Key); err != nil {
			j.logger.Warn("failed to delete snapshot object", zap.Error(err), zap.String("object_key", obj.Key))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		j.logger.Info("cleanup stale snapshots completed", zap.Int("deleted", deleted))
	}
	return deleted, nil
}
