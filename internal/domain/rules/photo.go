package rules

import (
	"strings"

	"github.com/ivankudzin/spark/internal/domain/model"
)

// PrimaryPhoto picks the representative image: an explicit photo wins, then the media item
// flagged primary, then the first media item.
func PrimaryPhoto(explicit string, media []model.MediaItem) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	for _, item := range media {
		if item.IsPrimary {
			return item.Content
		}
	}
	if len(media) > 0 {
		return media[0].Content
	}
	return ""
}
