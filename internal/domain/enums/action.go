package enums

import (
	"errors"
	"strings"
)

var ErrUnknownAction = errors.New("unknown interest action")

type Action string

const (
	ActionLike      Action = "like"
	ActionPass      Action = "pass"
	ActionSuperLike Action = "super-like"
)

func (a Action) IsPositive() bool {
	return a == ActionLike || a == ActionSuperLike
}

func (a Action) Valid() bool {
	switch a {
	case ActionLike, ActionPass, ActionSuperLike:
		return true
	default:
		return false
	}
}

// ParseAction accepts the canonical names plus the aliases older clients send
// ("nope", "super", "superlike", "super_like"). Matching is case-insensitive.
func ParseAction(raw string) (Action, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case "like":
		return ActionLike, nil
	case "pass", "nope", "dislike":
		return ActionPass, nil
	case "super-like", "super_like", "superlike", "super":
		return ActionSuperLike, nil
	default:
		return "", ErrUnknownAction
	}
}
