package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[key]; exists {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func (m *mockStore) IdentityKey(userID string) string {
	return fmt.Sprintf("identity:%s", userID)
}

func newTestManager(store *mockStore) *Manager {
	return &Manager{
		store: store,
		keyer: store,
		ttl:   time.Hour,
	}
}

func TestManagerGenerateAndRotate(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)

	ctx := context.Background()
	accessID := "access-123"
	token, err := manager.Generate(ctx, accessID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stored := store.data[store.AccessSessionKey(accessID)]; stored != token {
		t.Fatalf("expected stored token %q, got %q", token, stored)
	}

	if _, _, err := manager.Rotate(ctx, accessID, "wrong"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token error, got %v", err)
	}

	newAccessID, newToken, err := manager.Rotate(ctx, accessID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, exists := store.data[store.AccessSessionKey(accessID)]; exists {
		t.Fatalf("old access key left behind")
	}
	if stored := store.data[store.AccessSessionKey(newAccessID)]; stored != newToken {
		t.Fatalf("expected new token stored, got %q", stored)
	}
}

func TestGenerateRejectsExistingAccessID(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)

	ctx := context.Background()
	accessID := "access-dup"
	if _, err := manager.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	original := store.data[store.AccessSessionKey(accessID)]
	if _, err := manager.Generate(ctx, accessID); err == nil {
		t.Fatal("expected error generating session for an access id already in use")
	}
	if stored := store.data[store.AccessSessionKey(accessID)]; stored != original {
		t.Fatalf("existing session token overwritten: %q != %q", stored, original)
	}
}

func TestManagerRevokeAndHasSession(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)

	ctx := context.Background()
	accessID := "access-456"
	if _, err := manager.Generate(ctx, accessID); err != nil {
		t.Fatalf("generate: %v", err)
	}

	active, err := manager.HasSession(ctx, accessID)
	if err != nil || !active {
		t.Fatalf("expected active session, got active=%v err=%v", active, err)
	}

	if err := manager.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	active, err = manager.HasSession(ctx, accessID)
	if err != nil || active {
		t.Fatalf("expected revoked session, got active=%v err=%v", active, err)
	}
}

func TestIdentityLifecycle(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)

	ctx := context.Background()
	userID := uuid.New()

	if _, err := manager.LoadIdentity(ctx, userID); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}

	identity := Identity{
		UserID:     userID,
		Email:      "alice@example.com",
		FirstName:  "Alice",
		LastName:   "Smith",
		LoggedInAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := manager.SaveIdentity(ctx, identity); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	loaded, err := manager.LoadIdentity(ctx, userID)
	if err != nil {
		t.Fatalf("load identity: %v", err)
	}
	if loaded.Email != identity.Email || loaded.FirstName != identity.FirstName {
		t.Fatalf("identity mismatch: %+v", loaded)
	}

	if err := manager.ClearIdentity(ctx, userID); err != nil {
		t.Fatalf("clear identity: %v", err)
	}
	if _, err := manager.LoadIdentity(ctx, userID); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity after clear, got %v", err)
	}
}

func TestLoadIdentityCorruptRecord(t *testing.T) {
	store := newMockStore()
	manager := newTestManager(store)

	userID := uuid.New()
	store.data[store.IdentityKey(userID.String())] = "{not-json"

	if _, err := manager.LoadIdentity(context.Background(), userID); !errors.Is(err, ErrCorruptIdentity) {
		t.Fatalf("expected ErrCorruptIdentity, got %v", err)
	}
}
