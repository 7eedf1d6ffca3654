package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	feedsvc "github.com/ivankudzin/spark/internal/services/feed"
	httperrors "github.com/ivankudzin/spark/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	limit, err := parseOptionalInt(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "limit must be an integer")
		return
	}

	items, err := h.service.Feed(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeServiceError(w, err, "failed to build feed")
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponses(items))
}
