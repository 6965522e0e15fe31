package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huntboard/huntboard/internal/platform/httpx"
	"github.com/huntboard/huntboard/internal/token"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	users  map[int64]*User
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]*User), nextID: 1}
}

func (m *mockRepository) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockRepository) CreateUser(ctx context.Context, user *User) (int64, error) {
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return 0, httpx.ErrDuplicate
		}
	}
	id := m.nextID
	m.nextID++
	stored := *user
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.users[id] = &stored
	return id, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (m *mockRepository) FindByVerificationToken(ctx context.Context, tok string, now time.Time) (*User, error) {
	for _, u := range m.users {
		if u.VerificationToken != nil && *u.VerificationToken == tok &&
			u.VerificationExpiry != nil && u.VerificationExpiry.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (m *mockRepository) FindByResetToken(ctx context.Context, tok string, now time.Time) (*User, error) {
	for _, u := range m.users {
		if u.ResetToken != nil && *u.ResetToken == tok &&
			u.ResetExpiry != nil && u.ResetExpiry.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, httpx.ErrNotFound
}

func (m *mockRepository) MarkVerified(ctx context.Context, id int64) error {
	u, ok := m.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.IsVerified = true
	u.VerificationToken = nil
	u.VerificationExpiry = nil
	return nil
}

func (m *mockRepository) SetVerificationToken(ctx context.Context, id int64, tok string, expires time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.VerificationToken = &tok
	u.VerificationExpiry = &expires
	return nil
}

func (m *mockRepository) SetResetToken(ctx context.Context, id int64, tok string, expires time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.ResetToken = &tok
	u.ResetExpiry = &expires
	return nil
}

func (m *mockRepository) ResetPassword(ctx context.Context, id int64, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetExpiry = nil
	return nil
}

var _ Repository = (*mockRepository)(nil)

// ============================================================================
// MOCK MAILER
// ============================================================================

type mockMailer struct {
	verificationLinks map[string]string
	resetLinks        map[string]string
}

func newMockMailer() *mockMailer {
	return &mockMailer{
		verificationLinks: make(map[string]string),
		resetLinks:        make(map[string]string),
	}
}

func (m *mockMailer) SendVerification(ctx context.Context, to, link string) error {
	m.verificationLinks[to] = link
	return nil
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	m.resetLinks[to] = link
	return nil
}

// ============================================================================
// HELPERS
// ============================================================================

func newTestService(t *testing.T) (*Service, *mockRepository, *mockMailer, *token.Service) {
	t.Helper()
	repo := newMockRepository()
	mailer := newMockMailer()
	tokens := token.NewService("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, repo, tokens, mailer, ServiceConfig{
		BaseURL:         "http://localhost:8080",
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        time.Hour,
		BcryptCost:      4,
	})
	return svc, repo, mailer, tokens
}

func registerVerifiedUser(t *testing.T, svc *Service, repo *mockRepository, email, password string) *User {
	t.Helper()
	user, err := svc.Register(context.Background(), "someone", email, password)
	require.NoError(t, err)
	require.NoError(t, repo.MarkVerified(context.Background(), user.ID))
	user.IsVerified = true
	return user
}

// ============================================================================
// REGISTRATION
// ============================================================================

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	svc, repo, mailer, _ := newTestService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.VerificationToken)
	assert.Contains(t, mailer.verificationLinks["alice@example.com"], *user.VerificationToken)

	stored := repo.users[user.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.True(t, CheckPassword(stored.PasswordHash, "secret123"))
}

func TestRegisterSecondUserGetsUserRole(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	user, err := svc.Register(context.Background(), "bob", "bob@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, user.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice2", "alice@example.com", "secret456")
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "secret456")
	require.ErrorIs(t, err, httpx.ErrDuplicate)
	assert.Contains(t, err.Error(), "username already taken")
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "", "alice@example.com", "secret123")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Register(context.Background(), "alice", "", "secret123")
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Register(context.Background(), "alice", "alice@example.com", "")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

// ============================================================================
// EMAIL VERIFICATION
// ============================================================================

func TestVerifyEmail(t *testing.T) {
	svc, repo, _, tokens := newTestService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	verified, session, err := svc.VerifyEmail(context.Background(), *user.VerificationToken)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.True(t, repo.users[user.ID].IsVerified)
	assert.Nil(t, repo.users[user.ID].VerificationToken)

	identity, err := tokens.Verify(session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
}

func TestVerifyEmailUnknownToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, _, err := svc.VerifyEmail(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	repo.users[user.ID].VerificationExpiry = &expired

	_, _, err = svc.VerifyEmail(context.Background(), *user.VerificationToken)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestResendVerification(t *testing.T) {
	svc, repo, mailer, _ := newTestService(t)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	firstToken := *user.VerificationToken

	require.NoError(t, svc.ResendVerification(context.Background(), "alice@example.com"))
	assert.NotEqual(t, firstToken, *repo.users[user.ID].VerificationToken)
	assert.Contains(t, mailer.verificationLinks["alice@example.com"], *repo.users[user.ID].VerificationToken)
}

func TestResendVerificationUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.ResendVerification(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestResendVerificationAlreadyVerified(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	registerVerifiedUser(t, svc, repo, "alice@example.com", "secret123")

	err := svc.ResendVerification(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

// ============================================================================
// PASSWORD RESET
// ============================================================================

func TestRequestPasswordReset(t *testing.T) {
	svc, repo, mailer, _ := newTestService(t)
	user := registerVerifiedUser(t, svc, repo, "alice@example.com", "secret123")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))

	stored := repo.users[user.ID]
	require.NotNil(t, stored.ResetToken)
	assert.Contains(t, mailer.resetLinks["alice@example.com"], *stored.ResetToken)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	user := registerVerifiedUser(t, svc, repo, "alice@example.com", "secret123")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))
	resetToken := *repo.users[user.ID].ResetToken

	require.NoError(t, svc.ResetPassword(context.Background(), resetToken, "newsecret"))
	assert.True(t, CheckPassword(repo.users[user.ID].PasswordHash, "newsecret"))
	assert.Nil(t, repo.users[user.ID].ResetToken)

	err := svc.ResetPassword(context.Background(), resetToken, "another")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	user := registerVerifiedUser(t, svc, repo, "alice@example.com", "secret123")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "alice@example.com"))
	expired := time.Now().Add(-time.Minute)
	repo.users[user.ID].ResetExpiry = &expired

	err := svc.ResetPassword(context.Background(), *repo.users[user.ID].ResetToken, "newsecret")
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

// ============================================================================
// LOGIN
// ============================================================================

func TestLogin(t *testing.T) {
	svc, repo, _, tokens := newTestService(t)
	user := registerVerifiedUser(t, svc, repo, "alice@example.com", "secret123")

	loggedIn, session, err := svc.Login(context.Background(), "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	identity, err := tokens.Verify(session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, user.Role, identity.Role)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	registerVerifiedUser(t, svc, repo, "alice@example.com", "secret123")

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestLoginGenericCredentialError(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	registerVerifiedUser(t, svc, repo, "alice@example.com", "secret123")

	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "secret123")
	_, _, wrongErr := svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginUnverifiedAccount(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "secret123")
	assert.ErrorIs(t, err, httpx.ErrForbidden)
}
