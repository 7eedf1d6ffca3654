package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ivankudzin/spark/internal/domain/model"
	feedsvc "github.com/ivankudzin/spark/internal/services/feed"
	interestssvc "github.com/ivankudzin/spark/internal/services/interests"
	matchessvc "github.com/ivankudzin/spark/internal/services/matches"
	profilessvc "github.com/ivankudzin/spark/internal/services/profiles"
	ratesvc "github.com/ivankudzin/spark/internal/services/rate"
	statssvc "github.com/ivankudzin/spark/internal/services/stats"
	"github.com/ivankudzin/spark/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/spark/internal/transport/http/errors"
)

// Profiles carry base64 media inline, so bodies can be large.
const maxBodyBytes = 16 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// writeServiceError maps service sentinels onto API errors. fallback is the message for
// unexpected failures.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var tooFast *ratesvc.TooFastError
	switch {
	case errors.As(err, &tooFast):
		w.Header().Set("Retry-After", strconv.FormatInt(tooFast.RetryAfterSec, 10))
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "TOO_FAST",
			Message:       "too many actions, slow down",
			RetryAfterSec: tooFast.RetryAfterSec,
		})
	case errors.Is(err, feedsvc.ErrNotRegistered), errors.Is(err, interestssvc.ErrNotRegistered):
		writeNotFound(w, "NOT_REGISTERED", "register a profile first")
	case errors.Is(err, profilessvc.ErrNotFound), errors.Is(err, interestssvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "user not found")
	case errors.Is(err, interestssvc.ErrInvalidAction):
		writeBadRequest(w, "INVALID_ACTION", "action must be one of like, pass, super-like")
	case errors.Is(err, profilessvc.ErrValidation),
		errors.Is(err, interestssvc.ErrValidation),
		errors.Is(err, feedsvc.ErrValidation),
		errors.Is(err, matchessvc.ErrValidation),
		errors.Is(err, statssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	default:
		writeInternal(w, "INTERNAL_ERROR", fallback)
	}
}

// parseOptionalInt treats an absent parameter as zero and anything non-integer as an error.
func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func toProfileResponse(p model.Profile) dto.ProfileResponse {
	media := make([]dto.MediaItem, 0, len(p.Media))
	for _, item := range p.Media {
		media = append(media, dto.MediaItem{
			Type:   string(item.Kind),
			Data:   item.Content,
			IsMain: item.IsPrimary,
		})
	}

	var music *dto.Music
	if p.Music != nil {
		music = &dto.Music{
			URL:    p.Music.URL,
			Title:  p.Music.Title,
			Artist: p.Music.Artist,
			Source: p.Music.Source,
		}
	}

	return dto.ProfileResponse{
		TgID:      p.Identity,
		Name:      p.Name,
		Age:       p.Age,
		City:      p.City,
		Gender:    string(p.Gender),
		Bio:       p.Bio,
		Photo:     p.Photo,
		Media:     media,
		Music:     music,
		Interests: p.Interests,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProfileResponses(items []model.Profile) []dto.ProfileResponse {
	out := make([]dto.ProfileResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toProfileResponse(p))
	}
	return out
}
