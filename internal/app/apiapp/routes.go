package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	feedsvc "github.com/ivankudzin/spark/internal/services/feed"
	interestssvc "github.com/ivankudzin/spark/internal/services/interests"
	matchessvc "github.com/ivankudzin/spark/internal/services/matches"
	profilesvc "github.com/ivankudzin/spark/internal/services/profiles"
	statssvc "github.com/ivankudzin/spark/internal/services/stats"
	"github.com/ivankudzin/spark/internal/transport/http/handlers"
)

type Dependencies struct {
	ProfileService  *profilesvc.Service
	FeedService     *feedsvc.Service
	InterestService *interestssvc.Service
	MatchService    *matchessvc.Service
	StatsService    *statssvc.Service
	HealthChecks    map[string]handlers.Pinger
	Logger          *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	likeHandler := handlers.NewLikeHandler(deps.InterestService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	statsHandler := handlers.NewStatsHandler(deps.StatsService)

	r.Get("/", healthHandler.Status)
	r.Get("/healthz", healthHandler.Health)

	r.Post("/profile", profileHandler.Upsert)
	r.Get("/profile/{id}", profileHandler.Get)
	r.Get("/feed/{id}", feedHandler.Handle)
	r.Post("/like", likeHandler.Handle)
	r.Get("/matches/{id}", matchesHandler.Handle)
	r.Get("/stats/{id}", statsHandler.Handle)
}
