package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/query"
	"github.com/wandero/tourbook/internal/server"
)

// Resource is the capability set a repository exposes to the CRUD
// factory. All repositories satisfy it through the generic store;
// repositories that scope their reads (users) shadow the relevant
// methods.
type Resource[T any] interface {
	Columns() []string
	Features(params map[string][]string) *query.Features
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindMany(ctx context.Context, f *query.Features) ([]*T, error)
	Create(ctx context.Context, values map[string]any) (*T, error)
	UpdateByID(ctx context.Context, id uuid.UUID, values map[string]any) (*T, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// CRUDHandler produces the standard five endpoints for one resource.
// Listing supports the full query surface (filter, sort, projection,
// pagination) and writes accept only whitelisted columns; everything
// else about a resource stays in its own handler.
type CRUDHandler[T any] struct {
	Handler
	resource Resource[T]

	// name is the singular resource name used in messages ("tour").
	name string

	// scopeParam/scopeColumn bind a parent route param to a column for
	// nested routes, e.g. :tourId to tour_id.
	scopeParam  string
	scopeColumn string

	// prepare derives stored fields from a write payload (e.g. slug).
	prepare func(map[string]any) map[string]any

	// writeDefaults fills payload fields from the request context before
	// a create (e.g. the review author).
	writeDefaults func(c echo.Context, values map[string]any) error

	// writable is the creatable/updatable column whitelist.
	writable map[string]bool
}

// CRUDOption configures a CRUDHandler.
type CRUDOption[T any] func(*CRUDHandler[T])

// WithScope binds the parent route param to a column for nested routes.
func WithScope[T any](param, column string) CRUDOption[T] {
	return func(h *CRUDHandler[T]) {
		h.scopeParam = param
		h.scopeColumn = column
	}
}

// WithPrepareWrite installs a payload derivation hook run on every write.
func WithPrepareWrite[T any](fn func(map[string]any) map[string]any) CRUDOption[T] {
	return func(h *CRUDHandler[T]) {
		h.prepare = fn
	}
}

// WithWriteDefaults installs a hook that fills payload fields from the
// request context before a create.
func WithWriteDefaults[T any](fn func(c echo.Context, values map[string]any) error) CRUDOption[T] {
	return func(h *CRUDHandler[T]) {
		h.writeDefaults = fn
	}
}

// WithImmutableColumns removes columns from the write whitelist on top
// of the always-immutable id and created_at.
func WithImmutableColumns[T any](cols ...string) CRUDOption[T] {
	return func(h *CRUDHandler[T]) {
		for _, col := range cols {
			delete(h.writable, col)
		}
	}
}

// NewCRUDHandler constructs the factory for one resource.
func NewCRUDHandler[T any](s *server.Server, resource Resource[T], name string, opts ...CRUDOption[T]) *CRUDHandler[T] {
	h := &CRUDHandler[T]{
		Handler:  NewHandler(s),
		resource: resource,
		name:     name,
		writable: make(map[string]bool),
	}

	for _, col := range resource.Columns() {
		h.writable[col] = true
	}
	delete(h.writable, "id")
	delete(h.writable, "created_at")

	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ParseIDParam reads a UUID route param or fails with a 400.
func ParseIDParam(c echo.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("Invalid ID format", "INVALID_ID", nil)
	}
	return id, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// notFound is the uniform missing-resource error.
func (h *CRUDHandler[T]) notFound() error {
	return errs.NewNotFoundError(fmt.Sprintf("No %s found with that ID", h.name), "")
}

// bindWritableBody binds the JSON body and drops everything outside the
// write whitelist. Unknown and immutable fields are ignored, not errors:
// clients may echo back full resources on update.
func (h *CRUDHandler[T]) bindWritableBody(c echo.Context) (map[string]any, error) {
	body := map[string]any{}
	if err := c.Bind(&body); err != nil {
		return nil, errs.NewBadRequestError("Request body could not be parsed", "MALFORMED_BODY", nil)
	}

	values := make(map[string]any, len(body))
	for key, val := range body {
		if h.writable[key] {
			values[key] = normalizeValue(val)
		}
	}
	return values, nil
}

// normalizeValue rewrites JSON-decoded values into shapes the pg driver
// encodes cleanly; []any of strings becomes []string for array columns.
func normalizeValue(v any) any {
	if slice, ok := v.([]any); ok {
		strs := make([]string, len(slice))
		for i, el := range slice {
			s, ok := el.(string)
			if !ok {
				return v
			}
			strs[i] = s
		}
		return strs
	}
	return v
}

// GetAll lists the resource with the full query surface. On nested
// routes the listing is scoped to the parent.
func (h *CRUDHandler[T]) GetAll() echo.HandlerFunc {
	return func(c echo.Context) error {
		f := h.resource.Features(c.QueryParams())

		if h.scopeParam != "" {
			if raw := c.Param(h.scopeParam); raw != "" {
				parentID, err := uuid.Parse(raw)
				if err != nil {
					return errs.NewBadRequestError("Invalid ID format", "INVALID_ID", nil)
				}
				f = f.Scope(sq.Eq{h.scopeColumn: parentID})
			}
		}

		items, err := h.resource.FindMany(c.Request().Context(), f)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, SuccessList(items, len(items)))
	}
}

// GetOne returns a single resource by id.
func (h *CRUDHandler[T]) GetOne() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := ParseIDParam(c, "id")
		if err != nil {
			return err
		}

		item, err := h.resource.FindByID(c.Request().Context(), id)
		if err != nil {
			if isNoRows(err) {
				return h.notFound()
			}
			return err
		}

		return c.JSON(http.StatusOK, Success(item))
	}
}

// Create inserts a resource from the whitelisted body.
func (h *CRUDHandler[T]) Create() echo.HandlerFunc {
	return func(c echo.Context) error {
		values, err := h.bindWritableBody(c)
		if err != nil {
			return err
		}

		if h.writeDefaults != nil {
			if err := h.writeDefaults(c, values); err != nil {
				return err
			}
		}
		if h.prepare != nil {
			values = h.prepare(values)
		}

		item, err := h.resource.Create(c.Request().Context(), values)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusCreated, Success(item))
	}
}

// Update applies a partial update from the whitelisted body.
func (h *CRUDHandler[T]) Update() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := ParseIDParam(c, "id")
		if err != nil {
			return err
		}

		values, err := h.bindWritableBody(c)
		if err != nil {
			return err
		}
		if h.prepare != nil {
			values = h.prepare(values)
		}

		item, err := h.resource.UpdateByID(c.Request().Context(), id, values)
		if err != nil {
			if isNoRows(err) {
				return h.notFound()
			}
			return err
		}

		return c.JSON(http.StatusOK, Success(item))
	}
}

// Delete removes a resource, answering 204 on success.
func (h *CRUDHandler[T]) Delete() echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := ParseIDParam(c, "id")
		if err != nil {
			return err
		}

		if err := h.resource.DeleteByID(c.Request().Context(), id); err != nil {
			if isNoRows(err) {
				return h.notFound()
			}
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}
