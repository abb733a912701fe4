package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/model"
	"github.com/wandero/tourbook/internal/query"
)

// userColumns is the public column set for users. Credential columns
// (password hash, reset token state) and the active flag are internal and
// only selected by the dedicated credential lookups below.
var userColumns = []string{
	"id", "name", "email", "photo", "role", "created_at",
}

// userCredentialColumns additionally exposes credential state for the
// login/verify/reset paths.
var userCredentialColumns = append(append([]string{}, userColumns...),
	"password_hash", "password_changed_at",
)

// UserRepository provides user persistence. Deactivated users are
// filtered out of every read; deactivation is the delete story for the
// current-user flow.
type UserRepository struct {
	*Store[model.User]
	db  Querier
	log *zerolog.Logger
}

// NewUserRepository constructs the users repository.
func NewUserRepository(db Querier, log *zerolog.Logger) *UserRepository {
	return &UserRepository{
		Store: NewStore[model.User](db, log, "users", userColumns),
		db:    db,
		log:   log,
	}
}

// Features pre-scopes every list query to active accounts.
func (r *UserRepository) Features(params map[string][]string) *query.Features {
	return r.Store.Features(params).Scope(sq.Eq{"active": true})
}

// FindByID returns an active user by identifier, shadowing the generic
// lookup so deactivated accounts read as not found.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	sqlStr, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id, "active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[model.User])
}

// FindByIDWithCredentials returns an active user including credential
// state, for token verification and password updates.
func (r *UserRepository) FindByIDWithCredentials(ctx context.Context, id uuid.UUID) (*model.User, error) {
	sqlStr, args, err := psql.Select(userCredentialColumns...).
		From("users").
		Where(sq.Eq{"id": id, "active": true}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[model.User])
}

// FindByEmailWithCredentials looks an active user up by email
// (case-insensitive) including credential state, for login.
func (r *UserRepository) FindByEmailWithCredentials(ctx context.Context, email string) (*model.User, error) {
	sqlStr, args, err := psql.Select(userCredentialColumns...).
		From("users").
		Where(sq.Eq{"active": true}).
		Where(sq.Expr("lower(email) = lower(?)", email)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[model.User])
}

// FindByResetToken returns the active user holding the given reset-token
// hash with an unexpired window, or pgx.ErrNoRows.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error) {
	sqlStr, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"password_reset_token": tokenHash, "active": true}).
		Where(sq.Expr("password_reset_expires >= now()")).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[model.User])
}

// SetResetToken stores the hashed reset token and its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expires time.Time) error {
	sqlStr, args, err := psql.Update("users").
		Set("password_reset_token", tokenHash).
		Set("password_reset_expires", expires).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}

// ClearResetToken discards any stored reset token, making it single-use.
func (r *UserRepository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	sqlStr, args, err := psql.Update("users").
		Set("password_reset_token", nil).
		Set("password_reset_expires", nil).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sqlStr, args...)
	return err
}

// UpdatePassword stores a new password hash and stamps the credential
// change. The stamp is backdated one second so a token minted in the same
// request is not immediately invalidated by its own change timestamp.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	sqlStr, args, err := psql.Update("users").
		Set("password_hash", passwordHash).
		Set("password_changed_at", sq.Expr("now() - interval '1 second'")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Deactivate soft-deletes the account; subsequent reads treat it as gone.
func (r *UserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	sqlStr, args, err := psql.Update("users").
		Set("active", false).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
