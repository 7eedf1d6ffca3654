package model

import "time"

// Match is an unordered pair stored in canonical order: UserA < UserB.
type Match struct {
	UserA     string    `json:"user1"`
	UserB     string    `json:"user2"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMatch(a, b string, at time.Time) Match {
	userA, userB := OrderPair(a, b)
	return Match{UserA: userA, UserB: userB, CreatedAt: at}
}

func (m Match) Involves(identity string) bool {
	return m.UserA == identity || m.UserB == identity
}

// Other returns the counterpart of identity, or "" when identity is not part of the match.
func (m Match) Other(identity string) string {
	switch identity {
	case m.UserA:
		return m.UserB
	case m.UserB:
		return m.UserA
	default:
		return ""
	}
}

func OrderPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// PairKey is the same string for {a, b} and {b, a}.
func PairKey(a, b string) string {
	userA, userB := OrderPair(a, b)
	return userA + "|" + userB
}
