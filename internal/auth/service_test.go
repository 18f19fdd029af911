package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopmicro/storefront-backend/internal/users"
	pkgAuth "github.com/shopmicro/storefront-backend/pkg/auth"
	"github.com/shopmicro/storefront-backend/pkg/auth/session"
	"github.com/shopmicro/storefront-backend/pkg/config"
	"github.com/shopmicro/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/shopmicro/storefront-backend/pkg/security"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	byEmail    map[string]*models.User
	lastLogins map[uuid.UUID]time.Time
	created    []users.CreateUserDTO
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail:    make(map[string]*models.User),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	s.created = append(s.created, dto)
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins[id] = at
	return nil
}

type stubSessionManager struct {
	refreshTokens map[string]string
	identities    map[uuid.UUID]session.Identity
	revoked       []string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{
		refreshTokens: make(map[string]string),
		identities:    make(map[uuid.UUID]session.Identity),
	}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.refreshTokens[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.refreshTokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.refreshTokens, oldAccessID)
	newAccessID := session.NewAccessID()
	newToken := "refresh-" + newAccessID
	s.refreshTokens[newAccessID] = newToken
	return newAccessID, newToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.refreshTokens, accessID)
	return nil
}

func (s *stubSessionManager) SaveIdentity(ctx context.Context, identity session.Identity) error {
	s.identities[identity.UserID] = identity
	return nil
}

func (s *stubSessionManager) LoadIdentity(ctx context.Context, userID uuid.UUID) (*session.Identity, error) {
	identity, ok := s.identities[userID]
	if !ok {
		return nil, session.ErrNoIdentity
	}
	return &identity, nil
}

func (s *stubSessionManager) ClearIdentity(ctx context.Context, userID uuid.UUID) error {
	delete(s.identities, userID)
	return nil
}

type stubHistory struct {
	dropped []uuid.UUID
}

func (s *stubHistory) DropForUser(userID uuid.UUID) {
	s.dropped = append(s.dropped, userID)
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopmicro-test",
		ExpirationMinutes: 30,
	}, config.PasswordConfig{}
}

func newTestService(t *testing.T) (Service, *stubUserRepo, *stubSessionManager, *stubHistory) {
	t.Helper()
	repo := newStubUserRepo()
	sessions := newStubSessionManager()
	history := &stubHistory{}
	jwtCfg, passwordCfg := testConfigs()

	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		History:        history,
		JWTConfig:      jwtCfg,
		PasswordConfig: passwordCfg,
	})
	require.NoError(t, err)
	return svc, repo, sessions, history
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string) *models.User {
	t.Helper()
	_, passwordCfg := testConfigs()
	hash, err := security.HashPassword(password, passwordCfg)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Alice",
		LastName:     "Smith",
		IsActive:     true,
	}
	repo.byEmail[email] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, repo, sessions, _ := newTestService(t)
	user := seedUser(t, repo, "alice@example.com", "correct horse battery")

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Alice@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, user.ID, resp.User.ID)

	jwtCfg, _ := testConfigs()
	claims, err := pkgAuth.ParseAccessToken(jwtCfg, resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)

	require.Contains(t, repo.lastLogins, user.ID)
	require.Contains(t, sessions.identities, user.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seedUser(t, repo, "alice@example.com", "correct horse battery")

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestRegisterAndLogin(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Bob",
		LastName:  "Jones",
		Email:     "Bob@Example.com",
		Password:  "a long password",
	})
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", dto.Email)
	require.Len(t, repo.created, 1)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "bob@example.com",
		Password: "a long password",
	})
	require.NoError(t, err)
	require.Equal(t, dto.ID, resp.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seedUser(t, repo, "alice@example.com", "password123")

	_, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Password:  "password123",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seedUser(t, repo, "alice@example.com", "correct horse battery")

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the old pair is dead after rotation
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
}

func TestLogoutTearsDownSessionButNotCart(t *testing.T) {
	svc, repo, sessions, history := newTestService(t)
	user := seedUser(t, repo, "alice@example.com", "correct horse battery")

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	jwtCfg, _ := testConfigs()
	claims, err := pkgAuth.ParseAccessToken(jwtCfg, login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID, claims.ID))
	require.Contains(t, sessions.revoked, claims.ID)
	require.NotContains(t, sessions.identities, user.ID)
	require.Equal(t, []uuid.UUID{user.ID}, history.dropped)
}

func TestRestoreSession(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	user := seedUser(t, repo, "alice@example.com", "correct horse battery")

	_, err := svc.RestoreSession(context.Background(), user.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	identity, err := svc.RestoreSession(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", identity.Email)
	require.Equal(t, "Alice", identity.FirstName)
}
