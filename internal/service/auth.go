package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/lib/job"
	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/server"
)

const (
	// bcryptCost trades hash time against brute-force resistance.
	bcryptCost = 11

	// resetTokenTTL is the validity window of a password reset token.
	resetTokenTTL = 10 * time.Minute
)

// userCredentialStore is the slice of the user repository the auth
// service needs, mirroring the Querier pattern in the store layer.
type userCredentialStore interface {
	Create(ctx context.Context, values map[string]any) (*model.User, error)
	FindByIDWithCredentials(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmailWithCredentials(ctx context.Context, email string) (*model.User, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error)
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// AuthService implements account credentials: signup, login, token
// minting and verification, and the password reset flow. Tokens are
// HS256 JWTs carrying the user id as subject.
type AuthService struct {
	server *server.Server
	users  userCredentialStore
}

// NewAuthService constructs the auth service.
func NewAuthService(s *server.Server, users userCredentialStore) *AuthService {
	return &AuthService{
		server: s,
		users:  users,
	}
}

// SignupInput is the validated signup payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// GenerateToken mints a signed JWT for the user.
func (a *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.server.Config.Auth.TokenExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.server.Config.Auth.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// VerifyToken validates signature and expiry and returns the user id and
// issue time. Any failure reads as a generic unauthorized error.
func (a *AuthService) VerifyToken(tokenString string) (uuid.UUID, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.server.Config.Auth.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, time.Time{}, errs.NewUnauthorizedError("Invalid token. Please log in again.")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, time.Time{}, errs.NewUnauthorizedError("Invalid token. Please log in again.")
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	return userID, issuedAt, nil
}

// VerifyUser resolves a token to its account. It fails when the account
// no longer exists (or was deactivated) or when the password changed at
// or after the token was issued.
func (a *AuthService) VerifyUser(ctx context.Context, tokenString string) (*model.User, error) {
	userID, issuedAt, err := a.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := a.users.FindByIDWithCredentials(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NewUnauthorizedError("The user belonging to this token does no longer exist.")
		}
		return nil, err
	}

	if user.PasswordChangedAfter(issuedAt) {
		return nil, errs.NewUnauthorizedError("User recently changed password! Please log in again.")
	}

	return user, nil
}

// Signup registers a new account and returns it with a fresh token. The
// role is always "user"; elevated roles are granted by admins through the
// user management endpoints.
func (a *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to hash password")
	}

	user, err := a.users.Create(ctx, map[string]any{
		"name":          in.Name,
		"email":         in.Email,
		"password_hash": string(hash),
		"role":          model.RoleUser,
	})
	if err != nil {
		return nil, "", err
	}

	a.enqueueWelcomeEmail(user)

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the account with a fresh token.
// Wrong email and wrong password are indistinguishable to the caller.
func (a *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := a.users.FindByEmailWithCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", errs.NewUnauthorizedError("Incorrect email or password")
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", errs.NewUnauthorizedError("Incorrect email or password")
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ForgotPassword issues a single-use reset token and mails a reset link.
// Only the SHA-256 hash of the token is stored; the raw token travels in
// the email alone.
func (a *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.users.FindByEmailWithCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.NewNotFoundError("There is no user with that email address.", "USER_NOT_FOUND")
		}
		return err
	}

	rawToken, tokenHash, err := newResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(resetTokenTTL)
	if err := a.users.SetResetToken(ctx, user.ID, tokenHash, expires); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s",
		strings.TrimRight(a.server.Config.Integration.FrontendBaseURL, "/"), rawToken)

	task, err := job.NewPasswordResetEmailTask(user.Email, firstName(user.Name), resetURL)
	if err == nil {
		_, err = a.server.Job.Client.Enqueue(task)
	}
	if err != nil {
		// The stored token is useless if the email never goes out.
		if clearErr := a.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			a.server.Logger.Error().Err(clearErr).Msg("Failed to clear orphaned reset token")
		}
		a.server.Logger.Error().Err(err).Msg("Failed to enqueue password reset email")
		return errs.NewInternalServerError()
	}

	return nil
}

// ResetPassword consumes a reset token and sets a new password,
// returning the account with a fresh login token.
func (a *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) (*model.User, string, error) {
	tokenHash := hashResetToken(rawToken)

	user, err := a.users.FindByResetToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", errs.NewBadRequestError("Token is invalid or has expired", "INVALID_RESET_TOKEN", nil)
		}
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to hash password")
	}

	if err := a.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, "", err
	}
	if err := a.users.ClearResetToken(ctx, user.ID); err != nil {
		return nil, "", err
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UpdatePassword changes the password of a logged-in user after
// verifying the current one, and returns a fresh token.
func (a *AuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) (*model.User, string, error) {
	user, err := a.users.FindByIDWithCredentials(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return nil, "", errs.NewUnauthorizedError("Your current password is wrong.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to hash password")
	}

	if err := a.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, "", err
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (a *AuthService) enqueueWelcomeEmail(user *model.User) {
	task, err := job.NewWelcomeEmailTask(user.Email, firstName(user.Name))
	if err == nil {
		_, err = a.server.Job.Client.Enqueue(task)
	}
	if err != nil {
		// Signup still succeeds; the welcome email is best effort.
		a.server.Logger.Error().
			Str("email", user.Email).
			Err(err).
			Msg("Failed to enqueue welcome email")
	}
}

// newResetToken returns a raw hex token and its stored SHA-256 hash.
func newResetToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", errors.Wrap(err, "failed to generate reset token")
	}
	raw = hex.EncodeToString(buf)
	return raw, hashResetToken(raw), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// firstName extracts the leading name component for email greetings.
func firstName(fullName string) string {
	if i := strings.IndexByte(fullName, ' '); i > 0 {
		return fullName[:i]
	}
	return fullName
}
