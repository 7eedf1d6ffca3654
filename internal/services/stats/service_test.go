package stats

import (
	"context"
	"testing"
	"time"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
	"github.com/ivankudzin/spark/internal/domain/rules"
	"github.com/ivankudzin/spark/internal/repo/memory"
)

func TestStatsCountsPositiveInterestsAndMatches(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	events := []model.InterestEvent{
		{Actor: "b", Target: "a", Action: enums.ActionLike},
		{Actor: "c", Target: "a", Action: enums.ActionSuperLike},
		{Actor: "d", Target: "a", Action: enums.ActionPass},
		{Actor: "a", Target: "b", Action: enums.ActionLike},
	}
	for _, ev := range events {
		if err := db.Interests().Replace(ctx, ev); err != nil {
			t.Fatalf("replace: %v", err)
		}
	}
	if _, err := db.Matches().AppendIfAbsent(ctx, model.NewMatch("a", "b", time.Now())); err != nil {
		t.Fatalf("append match: %v", err)
	}

	svc := NewService(db.Interests(), db.Matches())
	svc.jitter = func() int { return 4 }

	got, err := svc.Get(ctx, "a")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got.LikesReceived != 2 || got.Matches != 1 || got.Views != 2*rules.ViewsPerLike+4 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}

func TestStatsViewsStayInRange(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	if err := db.Interests().Replace(ctx, model.InterestEvent{Actor: "b", Target: "a", Action: enums.ActionLike}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	svc := NewService(db.Interests(), db.Matches())

	for i := 0; i < 200; i++ {
		got, err := svc.Get(ctx, "a")
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if got.Views < rules.ViewsPerLike || got.Views > rules.ViewsPerLike+rules.ViewsJitterMax {
			t.Fatalf("views out of range: %d", got.Views)
		}
	}
}

func TestStatsUnknownUserIsZero(t *testing.T) {
	db := memory.NewDB()
	svc := NewService(db.Interests(), db.Matches())
	svc.jitter = func() int { return 0 }

	got, err := svc.Get(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got != (model.Stats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}
