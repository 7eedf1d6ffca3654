package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	matchessvc "github.com/ivankudzin/spark/internal/services/matches"
	httperrors "github.com/ivankudzin/spark/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to load matches")
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponses(items))
}
