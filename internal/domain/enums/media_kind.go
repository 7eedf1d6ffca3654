package enums

import "strings"

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// ParseMediaKind maps client tags onto the closed set. Unknown tags fall back to image,
// which is what clients send for plain photos.
func ParseMediaKind(raw string) MediaKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "video":
		return MediaKindVideo
	default:
		return MediaKindImage
	}
}
