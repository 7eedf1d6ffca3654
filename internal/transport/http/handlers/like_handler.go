package handlers

import (
	"net/http"

	"github.com/ivankudzin/spark/internal/domain/enums"
	interestssvc "github.com/ivankudzin/spark/internal/services/interests"
	"github.com/ivankudzin/spark/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/spark/internal/transport/http/errors"
)

type LikeHandler struct {
	service *interestssvc.Service
}

func NewLikeHandler(service *interestssvc.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

func (h *LikeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "INTEREST_SERVICE_UNAVAILABLE", "interest service is unavailable")
		return
	}

	var req dto.LikeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.FromID == "" || req.ToID == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "from_id and to_id are required")
		return
	}

	action, err := enums.ParseAction(req.Action)
	if err != nil {
		writeServiceError(w, interestssvc.ErrInvalidAction, "")
		return
	}

	result, err := h.service.Record(r.Context(), req.FromID.String(), req.ToID.String(), action)
	if err != nil {
		writeServiceError(w, err, "failed to record action")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikeResponse{Matched: result.Matched})
}
