package dto

import (
	"time"

	"github.com/ivankudzin/spark/internal/domain/identity"
)

type MediaItem struct {
	Type   string `json:"type"`
	Data   string `json:"data"`
	IsMain bool   `json:"is_main"`
}

type Music struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Source string `json:"source"`
}

type ProfileRequest struct {
	TgID      identity.ID `json:"tg_id"`
	Name      string      `json:"name"`
	Age       int         `json:"age"`
	City      string      `json:"city"`
	Gender    string      `json:"gender"`
	Bio       string      `json:"bio"`
	Photo     string      `json:"photo"`
	Media     []MediaItem `json:"media"`
	Music     *Music      `json:"music"`
	Interests []string    `json:"interests"`
}

type ProfileResponse struct {
	TgID      string      `json:"tg_id"`
	Name      string      `json:"name"`
	Age       int         `json:"age"`
	City      string      `json:"city"`
	Gender    string      `json:"gender"`
	Bio       string      `json:"bio"`
	Photo     string      `json:"photo"`
	Media     []MediaItem `json:"media"`
	Music     *Music      `json:"music,omitempty"`
	Interests []string    `json:"interests,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type ProfileSavedResponse struct {
	OK   bool            `json:"ok"`
	User ProfileResponse `json:"user"`
}
