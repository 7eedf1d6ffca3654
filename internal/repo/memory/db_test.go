package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo"
)

func TestProfileUpsertOverwritesInPlace(t *testing.T) {
	ctx := context.Background()
	profiles := NewDB().Profiles()

	if err := profiles.Upsert(ctx, model.Profile{Identity: "1", Name: "Anna", Gender: enums.GenderFemale}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := profiles.Upsert(ctx, model.Profile{Identity: "1", Name: "Anya", Gender: enums.GenderFemale}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := profiles.Get(ctx, "1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Name != "Anya" {
		t.Fatalf("expected overwritten name, got %q", got.Name)
	}

	all, err := profiles.ListByGender(ctx, enums.GenderFemale)
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one profile after two upserts, got %d", len(all))
	}
}

func TestProfileGetMissingReturnsNotFound(t *testing.T) {
	_, err := NewDB().Profiles().Get(context.Background(), "404")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected repo.ErrNotFound, got %v", err)
	}
}

func TestInterestReplaceKeepsOneEventPerPair(t *testing.T) {
	ctx := context.Background()
	interests := NewDB().Interests()

	if err := interests.Replace(ctx, model.InterestEvent{Actor: "a", Target: "b", Action: enums.ActionPass}); err != nil {
		t.Fatalf("replace pass: %v", err)
	}
	if err := interests.Replace(ctx, model.InterestEvent{Actor: "a", Target: "b", Action: enums.ActionLike}); err != nil {
		t.Fatalf("replace like: %v", err)
	}

	ev, err := interests.Get(ctx, "a", "b")
	if err != nil {
		t.Fatalf("get interest: %v", err)
	}
	if ev.Action != enums.ActionLike {
		t.Fatalf("expected live like, got %q", ev.Action)
	}

	seen, err := interests.SeenTargets(ctx, "a")
	if err != nil {
		t.Fatalf("seen targets: %v", err)
	}
	if len(seen) != 1 || seen[0] != "b" {
		t.Fatalf("unexpected seen targets: %v", seen)
	}

	count, err := interests.CountPositiveReceived(ctx, "b")
	if err != nil {
		t.Fatalf("count received: %v", err)
	}
	if count != 1 {
		t.Fatalf("unexpected positive count: %d", count)
	}
}

func TestMatchAppendIfAbsentIsSymmetric(t *testing.T) {
	ctx := context.Background()
	matches := NewDB().Matches()

	created, err := matches.AppendIfAbsent(ctx, model.Match{UserA: "b", UserB: "a"})
	if err != nil || !created {
		t.Fatalf("first append: created=%v err=%v", created, err)
	}
	created, err = matches.AppendIfAbsent(ctx, model.Match{UserA: "a", UserB: "b"})
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if created {
		t.Fatalf("reversed pair must not create a second match")
	}

	for _, id := range []string{"a", "b"} {
		n, err := matches.CountForUser(ctx, id)
		if err != nil {
			t.Fatalf("count for %s: %v", id, err)
		}
		if n != 1 {
			t.Fatalf("expected one match for %s, got %d", id, n)
		}
	}
}

func TestWithinPairTxSerializes(t *testing.T) {
	db := NewDB()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = db.WithinPairTx(ctx, "a", "b", func(context.Context) error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("expected serialized execution, saw %d concurrent", maxSeen)
	}
}

func TestWithinSnapshotTxBlocksPairWrites(t *testing.T) {
	db := NewDB()
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	snapshotDone := make(chan error, 1)
	go func() {
		snapshotDone <- db.WithinSnapshotTx(ctx, func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	wrote := make(chan struct{})
	go func() {
		_ = db.WithinPairTx(ctx, "a", "b", func(txCtx context.Context) error {
			close(wrote)
			return nil
		})
	}()

	select {
	case <-wrote:
		t.Fatalf("pair transaction ran while a snapshot was reading")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	if err := <-snapshotDone; err != nil {
		t.Fatalf("snapshot tx: %v", err)
	}
	select {
	case <-wrote:
	case <-time.After(time.Second):
		t.Fatalf("pair transaction did not run after the snapshot finished")
	}
}
