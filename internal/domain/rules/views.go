package rules

const (
	ViewsPerLike   = 3
	ViewsJitterMax = 5
)

// Views derives the displayed view count from received likes. jitter is clamped to [0, ViewsJitterMax].
func Views(likesReceived, jitter int) int {
	if likesReceived < 0 {
		likesReceived = 0
	}
	if jitter < 0 {
		jitter = 0
	}
	if jitter > ViewsJitterMax {
		jitter = ViewsJitterMax
	}
	return likesReceived*ViewsPerLike + jitter
}
