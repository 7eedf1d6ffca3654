package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	statssvc "github.com/ivankudzin/spark/internal/services/stats"
	"github.com/ivankudzin/spark/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/spark/internal/transport/http/errors"
)

type StatsHandler struct {
	service *statssvc.Service
}

func NewStatsHandler(service *statssvc.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "STATS_SERVICE_UNAVAILABLE", "stats service is unavailable")
		return
	}

	stats, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to load stats")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.StatsResponse{
		Likes:   stats.LikesReceived,
		Matches: stats.Matches,
		Views:   stats.Views,
	})
}
