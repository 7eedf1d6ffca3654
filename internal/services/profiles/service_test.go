package profiles

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/repo/memory"
	redrepo "github.com/ivankudzin/spark/internal/repo/redis"
)

type countingStore struct {
	ProfileStore
	gets int
}

func (s *countingStore) Get(ctx context.Context, id string) (model.Profile, error) {
	s.gets++
	return s.ProfileStore.Get(ctx, id)
}

func TestUpsertDerivesPhotoFromPrimaryMedia(t *testing.T) {
	svc := NewService(memory.NewDB().Profiles())

	saved, err := svc.Upsert(context.Background(), model.Profile{
		Identity: "100",
		Name:     "Lena",
		Gender:   enums.GenderFemale,
		Media: []model.MediaItem{
			{Kind: enums.MediaKindImage, Content: "first"},
			{Kind: enums.MediaKindImage, Content: "second", IsPrimary: true},
		},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved.Photo != "second" {
		t.Fatalf("expected primary media as photo, got %q", saved.Photo)
	}

	got, err := svc.Get(context.Background(), "100")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Photo != "second" {
		t.Fatalf("stored photo mismatch: %q", got.Photo)
	}
}

func TestUpsertNormalizesIdentityAndOverwrites(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewDB().Profiles())

	if _, err := svc.Upsert(ctx, model.Profile{Identity: "0123", Name: "Old", Gender: "MALE"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := svc.Upsert(ctx, model.Profile{Identity: " 123 ", Name: "New", Gender: enums.GenderMale}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := svc.Get(ctx, "123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Identity != "123" || got.Name != "New" || got.Gender != enums.GenderMale {
		t.Fatalf("unexpected profile after overwrite: %+v", got)
	}
}

func TestUpsertRequiresIdentity(t *testing.T) {
	svc := NewService(memory.NewDB().Profiles())
	if _, err := svc.Upsert(context.Background(), model.Profile{Name: "Nobody"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpsertDeduplicatesInterestTags(t *testing.T) {
	svc := NewService(memory.NewDB().Profiles())
	saved, err := svc.Upsert(context.Background(), model.Profile{
		Identity:  "5",
		Interests: []string{"music", " Music ", "", "travel"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if len(saved.Interests) != 2 || saved.Interests[0] != "music" || saved.Interests[1] != "travel" {
		t.Fatalf("unexpected interests: %#v", saved.Interests)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	svc := NewService(memory.NewDB().Profiles())
	if _, err := svc.Get(context.Background(), "404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReadsThroughCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	store := &countingStore{ProfileStore: memory.NewDB().Profiles()}
	svc := NewService(store)
	svc.AttachCache(redrepo.NewProfileCacheRepo(client, time.Minute))

	if _, err := svc.Upsert(ctx, model.Profile{Identity: "8", Name: "Ira", Gender: enums.GenderFemale}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := svc.Get(ctx, "8")
		if err != nil {
			t.Fatalf("get #%d: %v", i+1, err)
		}
		if got.Name != "Ira" {
			t.Fatalf("unexpected cached profile: %+v", got)
		}
	}
	if store.gets != 0 {
		t.Fatalf("expected all reads served from cache, store hit %d times", store.gets)
	}

	mr.FlushAll()
	if _, err := svc.Get(ctx, "8"); err != nil {
		t.Fatalf("get after flush: %v", err)
	}
	if store.gets != 1 {
		t.Fatalf("expected one store read after cache flush, got %d", store.gets)
	}
}

// pausingStore hands the first Get result to the test and waits before returning it.
type pausingStore struct {
	ProfileStore
	once   sync.Once
	loaded chan model.Profile
	resume chan struct{}
}

func (s *pausingStore) Get(ctx context.Context, id string) (model.Profile, error) {
	p, err := s.ProfileStore.Get(ctx, id)
	s.once.Do(func() {
		s.loaded <- p
		<-s.resume
	})
	return p, err
}

func TestSlowReadDoesNotOverwriteNewerCachedProfile(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	backing := memory.NewDB().Profiles()
	if err := backing.Upsert(ctx, model.Profile{Identity: "11", Name: "old", Gender: enums.GenderMale}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	store := &pausingStore{
		ProfileStore: backing,
		loaded:       make(chan model.Profile, 1),
		resume:       make(chan struct{}),
	}
	svc := NewService(store)
	svc.AttachCache(redrepo.NewProfileCacheRepo(client, time.Minute))

	readDone := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, "11")
		readDone <- err
	}()

	if p := <-store.loaded; p.Name != "old" {
		t.Fatalf("reader loaded %q, want old", p.Name)
	}
	if _, err := svc.Upsert(ctx, model.Profile{Identity: "11", Name: "new", Gender: enums.GenderMale}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	close(store.resume)
	if err := <-readDone; err != nil {
		t.Fatalf("slow get: %v", err)
	}

	got, err := svc.Get(ctx, "11")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "new" {
		t.Fatalf("expected updated profile after concurrent read, got %q", got.Name)
	}
}

func TestGetFallsBackWhenCacheIsDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	svc := NewService(memory.NewDB().Profiles())
	svc.AttachCache(redrepo.NewProfileCacheRepo(client, time.Minute))
	mr.Close()

	if _, err := svc.Upsert(ctx, model.Profile{Identity: "9", Name: "Oleg"}); err != nil {
		t.Fatalf("upsert with cache down: %v", err)
	}
	got, err := svc.Get(ctx, "9")
	if err != nil {
		t.Fatalf("get with cache down: %v", err)
	}
	if got.Name != "Oleg" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}
