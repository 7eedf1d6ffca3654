package model

import (
	"time"

	"github.com/ivankudzin/spark/internal/domain/enums"
)

type Profile struct {
	Identity  string       `json:"tg_id"`
	Name      string       `json:"name"`
	Age       int          `json:"age"`
	City      string       `json:"city"`
	Gender    enums.Gender `json:"gender"`
	Bio       string       `json:"bio"`
	Photo     string       `json:"photo"`
	Media     []MediaItem  `json:"media"`
	Music     *Music       `json:"music,omitempty"`
	Interests []string     `json:"interests,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type MediaItem struct {
	Kind      enums.MediaKind `json:"type"`
	Content   string          `json:"data"`
	IsPrimary bool            `json:"is_main"`
}

type Music struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Source string `json:"source"`
}
