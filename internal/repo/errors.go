// Package repo holds what the storage backends share.
package repo

import "errors"

// ErrNotFound is returned (possibly wrapped) by every backend when a keyed lookup misses.
var ErrNotFound = errors.New("record not found")
