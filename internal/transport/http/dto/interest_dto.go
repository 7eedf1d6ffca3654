package dto

import "github.com/ivankudzin/spark/internal/domain/identity"

type LikeRequest struct {
	FromID identity.ID `json:"from_id"`
	ToID   identity.ID `json:"to_id"`
	Action string      `json:"action"`
}

type LikeResponse struct {
	Matched bool `json:"matched"`
}
