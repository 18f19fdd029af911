package cart

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no persisted cart exists for the owner.
	ErrNotFound = errors.New("cart record not found")

	// ErrCorruptRecord indicates the persisted cart could not be decoded.
	ErrCorruptRecord = errors.New("corrupt cart record")
)

// Store persists cart contents keyed by owner. Implementations must treat a
// missing record and a corrupt record as distinct conditions so callers can
// recover appropriately.
type Store interface {
	Load(ctx context.Context, owner string) ([]LineItem, error)
	Save(ctx context.Context, owner string, items []LineItem) error
}
