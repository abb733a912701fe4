package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wandero/tourbook/internal/config"
	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/server"
)

func newTestAuthService(expiry time.Duration) *AuthService {
	return newTestAuthServiceWithStore(expiry, nil)
}

func newTestAuthServiceWithStore(expiry time.Duration, store userCredentialStore) *AuthService {
	cfg := &config.Config{}
	cfg.Auth.SecretKey = "test-secret-key"
	cfg.Auth.TokenExpiry = expiry

	log := zerolog.Nop()
	return NewAuthService(&server.Server{Config: cfg, Logger: &log}, store)
}

func TestGenerateAndVerifyToken(t *testing.T) {
	auth := newTestAuthService(time.Hour)
	userID := uuid.New()

	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	gotID, issuedAt, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.WithinDuration(t, time.Now(), issuedAt, 5*time.Second)
}

func TestVerifyToken_Expired(t *testing.T) {
	auth := newTestAuthService(-time.Minute)

	token, err := auth.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, _, err = auth.VerifyToken(token)
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 401, httpErr.Status)
}

func TestVerifyToken_Tampered(t *testing.T) {
	auth := newTestAuthService(time.Hour)

	token, err := auth.GenerateToken(uuid.New())
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, _, err = auth.VerifyToken(tampered)
	require.Error(t, err)
}

func TestVerifyToken_WrongKey(t *testing.T) {
	auth := newTestAuthService(time.Hour)
	token, err := auth.GenerateToken(uuid.New())
	require.NoError(t, err)

	other := newTestAuthService(time.Hour)
	other.server.Config.Auth.SecretKey = "different-secret"

	_, _, err = other.VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyToken_Garbage(t *testing.T) {
	auth := newTestAuthService(time.Hour)

	_, _, err := auth.VerifyToken("not-a-token")
	require.Error(t, err)
}

// fakeUserStore is an in-memory userCredentialStore around one account.
type fakeUserStore struct {
	user      *model.User
	resetHash string
	resetExp  time.Time
	cleared   bool
}

func (f *fakeUserStore) Create(_ context.Context, values map[string]any) (*model.User, error) {
	return f.user, nil
}

func (f *fakeUserStore) FindByIDWithCredentials(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) FindByEmailWithCredentials(_ context.Context, email string) (*model.User, error) {
	if f.user != nil && strings.EqualFold(f.user.Email, email) {
		return f.user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) FindByResetToken(_ context.Context, tokenHash string) (*model.User, error) {
	if f.user != nil && f.resetHash == tokenHash && !time.Now().After(f.resetExp) {
		return f.user, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) SetResetToken(_ context.Context, id uuid.UUID, tokenHash string, expires time.Time) error {
	f.resetHash, f.resetExp = tokenHash, expires
	return nil
}

func (f *fakeUserStore) ClearResetToken(_ context.Context, id uuid.UUID) error {
	f.resetHash = ""
	f.cleared = true
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.user.PasswordHash = passwordHash
	return nil
}

func newAccount(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		ID:           uuid.New(),
		Name:         "Mia Park",
		Email:        "mia@example.com",
		Role:         model.RoleUser,
		PasswordHash: string(hash),
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	store := &fakeUserStore{user: newAccount(t, "correct-password")}
	auth := newTestAuthServiceWithStore(time.Hour, store)

	_, _, err := auth.Login(context.Background(), "mia@example.com", "wrong-password")
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 401, httpErr.Status)
	assert.Equal(t, "Incorrect email or password", httpErr.Message)
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := &fakeUserStore{user: newAccount(t, "correct-password")}
	auth := newTestAuthServiceWithStore(time.Hour, store)

	_, _, err := auth.Login(context.Background(), "nobody@example.com", "correct-password")
	require.Error(t, err)

	// Unknown account and wrong password read identically.
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 401, httpErr.Status)
	assert.Equal(t, "Incorrect email or password", httpErr.Message)
}

func TestLogin_CorrectPassword(t *testing.T) {
	user := newAccount(t, "correct-password")
	store := &fakeUserStore{user: user}
	auth := newTestAuthServiceWithStore(time.Hour, store)

	got, token, err := auth.Login(context.Background(), "mia@example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	gotID, _, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	user := newAccount(t, "old-password")
	raw, hash, err := newResetToken()
	require.NoError(t, err)

	store := &fakeUserStore{
		user:      user,
		resetHash: hash,
		resetExp:  time.Now().Add(-time.Minute),
	}
	auth := newTestAuthServiceWithStore(time.Hour, store)

	_, _, err = auth.ResetPassword(context.Background(), raw, "new-password-123")
	require.Error(t, err)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Status)
	assert.Equal(t, "INVALID_RESET_TOKEN", httpErr.Code)
}

func TestResetPassword_ValidToken(t *testing.T) {
	user := newAccount(t, "old-password")
	raw, hash, err := newResetToken()
	require.NoError(t, err)

	store := &fakeUserStore{
		user:      user,
		resetHash: hash,
		resetExp:  time.Now().Add(resetTokenTTL),
	}
	auth := newTestAuthServiceWithStore(time.Hour, store)

	got, token, err := auth.ResetPassword(context.Background(), raw, "new-password-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)

	// The new password is stored hashed and the token is single use.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-password-123")))
	assert.True(t, store.cleared)

	_, _, err = auth.ResetPassword(context.Background(), raw, "another-password")
	require.Error(t, err)
}

func TestNewResetToken(t *testing.T) {
	raw, hash, err := newResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, raw, hash)

	// Hashing is deterministic so lookups by hash work.
	assert.Equal(t, hash, hashResetToken(raw))

	// Tokens are unique.
	raw2, _, err := newResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ada", firstName("Ada Lovelace"))
	assert.Equal(t, "Ada", firstName("Ada"))
	assert.Equal(t, "", firstName(""))
}
