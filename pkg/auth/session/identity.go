package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrNoIdentity is returned when no persisted identity record exists for a user.
var ErrNoIdentity = errors.New("no identity record")

// ErrCorruptIdentity is returned when a stored identity record cannot be decoded.
var ErrCorruptIdentity = errors.New("corrupt identity record")

// Identity is the persisted record of a signed-in user. It outlives the
// access token so a returning client can restore its session display data
// without re-authenticating from scratch.
type Identity struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// SaveIdentity persists the identity record for the refresh-session lifetime.
func (m *Manager) SaveIdentity(ctx context.Context, identity Identity) error {
	if identity.UserID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}
	return m.store.Set(ctx, m.keyer.IdentityKey(identity.UserID.String()), string(raw), m.ttl)
}

// LoadIdentity fetches the persisted identity record, returning ErrNoIdentity
// when none exists and ErrCorruptIdentity when the stored value is unreadable.
func (m *Manager) LoadIdentity(ctx context.Context, userID uuid.UUID) (*Identity, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	raw, err := m.store.Get(ctx, m.keyer.IdentityKey(userID.String()))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrNoIdentity
		}
		return nil, err
	}
	var identity Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIdentity, err)
	}
	return &identity, nil
}

// ClearIdentity removes the persisted identity record on logout.
func (m *Manager) ClearIdentity(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return fmt.Errorf("user id is required")
	}
	return m.store.Del(ctx, m.keyer.IdentityKey(userID.String()))
}
