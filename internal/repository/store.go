package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/wandero/tourbook/internal/query"
)

// psql renders with $N placeholders for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store implements the uniform capability set for one resource table.
//
// T is the row struct; its `db` tags drive generic scanning via pgx's
// struct mapping. columns is the resource's public column set, which is
// also the default projection and the list-query whitelist. Every
// operation is a single round trip; no multi-statement transactions are
// coordinated at this layer.
type Store[T any] struct {
	db      Querier
	log     *zerolog.Logger
	table   string
	columns []string
}

// NewStore constructs a Store for a table with its public column set.
func NewStore[T any](db Querier, log *zerolog.Logger, table string, columns []string) *Store[T] {
	return &Store[T]{
		db:      db,
		log:     log,
		table:   table,
		columns: columns,
	}
}

// Columns reports the public column set.
func (s *Store[T]) Columns() []string {
	return s.columns
}

// Features starts a list-query builder scoped to this resource.
func (s *Store[T]) Features(params map[string][]string) *query.Features {
	return query.New(s.table, s.columns, params)
}

// FindByID returns the row with the given identifier, or pgx.ErrNoRows.
func (s *Store[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	sqlStr, args, err := psql.Select(s.columns...).
		From(s.table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
}

// FindMany executes the shaped list query.
//
// When the client asked for an explicit page, the matching row count is
// checked and a page beyond the available rows is logged as an overrun;
// the result is simply an empty page, not an error.
func (s *Store[T]) FindMany(ctx context.Context, f *query.Features) ([]*T, error) {
	sqlStr, args, err := f.Build()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}

	docs, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, err
	}

	if f.HasExplicitPage() && len(docs) == 0 {
		total, countErr := s.Count(ctx, f)
		if countErr == nil && f.Offset() >= uint64(total) {
			s.log.Warn().
				Str("table", s.table).
				Uint64("page", f.Page()).
				Int64("total", total).
				Msg("requested page is beyond the available results")
		}
	}

	return docs, nil
}

// Count returns the number of rows matching the filter portion of f.
func (s *Store[T]) Count(ctx context.Context, f *query.Features) (int64, error) {
	sqlStr, args, err := f.BuildCount()
	if err != nil {
		return 0, err
	}

	var total int64
	if err := s.db.QueryRow(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Create inserts a row from a column/value map and returns the stored row
// including server-assigned columns.
func (s *Store[T]) Create(ctx context.Context, values map[string]any) (*T, error) {
	sqlStr, args, err := psql.Insert(s.table).
		SetMap(values).
		Suffix("RETURNING " + joinColumns(s.columns)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
}

// UpdateByID applies a partial update and returns the updated row, or
// pgx.ErrNoRows when no row matches. An empty value map degrades to a
// plain read.
func (s *Store[T]) UpdateByID(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error) {
	if len(values) == 0 {
		return s.FindByID(ctx, id)
	}

	sqlStr, args, err := psql.Update(s.table).
		SetMap(values).
		Set("row_version", sq.Expr("row_version + 1")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(s.columns)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}

	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
}

// DeleteByID removes the row, returning pgx.ErrNoRows when nothing
// matched so callers surface NotFound instead of silent success.
func (s *Store[T]) DeleteByID(ctx context.Context, id uuid.UUID) error {
	sqlStr, args, err := psql.Delete(s.table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func joinColumns(columns []string) string {
	out := ""
	for i, col := range columns {
		if i > 0 {
			out += ", "
		}
		out += col
	}
	return out
}
