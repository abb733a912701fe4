// Package repository handles all interactions with the resource store.
//
// A generic Store provides the uniform capability set every resource type
// supports (find-by-id, find-many, create, update-by-id, delete-by-id),
// rendered with squirrel and executed through pgx. Per-resource
// repositories embed a Store and add the queries that are specific to one
// resource (credential lookups, aggregate stats, rating recomputation).
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the repositories depend on.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
