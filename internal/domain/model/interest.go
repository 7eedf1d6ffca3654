package model

import (
	"time"

	"github.com/ivankudzin/spark/internal/domain/enums"
)

// InterestEvent is the live decision of Actor about Target. There is at most one per ordered pair.
type InterestEvent struct {
	Actor     string       `json:"from_id"`
	Target    string       `json:"to_id"`
	Action    enums.Action `json:"action"`
	CreatedAt time.Time    `json:"created_at"`
}
