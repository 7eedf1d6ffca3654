package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ivankudzin/spark/internal/domain/enums"
	"github.com/ivankudzin/spark/internal/domain/model"
	profilessvc "github.com/ivankudzin/spark/internal/services/profiles"
	"github.com/ivankudzin/spark/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/spark/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilessvc.Service
}

func NewProfileHandler(service *profilessvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	profile, msg := profileFromRequest(req)
	if msg != "" {
		writeBadRequest(w, "VALIDATION_ERROR", msg)
		return
	}

	saved, err := h.service.Upsert(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err, "failed to save profile")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileSavedResponse{OK: true, User: toProfileResponse(saved)})
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to load profile")
		return
	}

	httperrors.Write(w, http.StatusOK, toProfileResponse(profile))
}

// profileFromRequest checks the fields a profile must carry and returns a message on failure.
func profileFromRequest(req dto.ProfileRequest) (model.Profile, string) {
	if req.TgID == "" {
		return model.Profile{}, "tg_id is required"
	}
	if strings.TrimSpace(req.Name) == "" {
		return model.Profile{}, "name is required"
	}
	if req.Age <= 0 || req.Age > 120 {
		return model.Profile{}, "age must be between 1 and 120"
	}
	if strings.TrimSpace(req.City) == "" {
		return model.Profile{}, "city is required"
	}
	gender, err := enums.ParseGender(req.Gender)
	if err != nil {
		return model.Profile{}, "gender must be male or female"
	}

	media := make([]model.MediaItem, 0, len(req.Media))
	for _, item := range req.Media {
		if strings.TrimSpace(item.Data) == "" {
			continue
		}
		media = append(media, model.MediaItem{
			Kind:      enums.ParseMediaKind(item.Type),
			Content:   item.Data,
			IsPrimary: item.IsMain,
		})
	}

	var music *model.Music
	if req.Music != nil && (req.Music.URL != "" || req.Music.Title != "") {
		music = &model.Music{
			URL:    req.Music.URL,
			Title:  req.Music.Title,
			Artist: req.Music.Artist,
			Source: req.Music.Source,
		}
	}

	return model.Profile{
		Identity:  req.TgID.String(),
		Name:      req.Name,
		Age:       req.Age,
		City:      req.City,
		Gender:    gender,
		Bio:       strings.TrimSpace(req.Bio),
		Photo:     req.Photo,
		Media:     media,
		Music:     music,
		Interests: req.Interests,
	}, ""
}
