// Package query turns raw list-query parameters (filter, sort, field
// selection, pagination) into a bounded SQL read against a resource table.
//
// Features is a chainable builder: each step mutates and returns the same
// instance, so callers compose the steps they need in any order and render
// the final SELECT once. Field names are checked against the resource's
// public column set, so a request can never reach into internal columns or
// inject SQL through identifiers.
package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/wandero/tourbook/internal/errs"
)

// Control keys are pagination/shaping parameters, never filters.
const (
	keyPage   = "page"
	keySort   = "sort"
	keyLimit  = "limit"
	keyFields = "fields"
)

// Defaults when the request does not specify them.
const (
	DefaultLimit = 100
	DefaultPage  = 1

	// defaultSortColumn orders unsorted lists by creation time, ascending.
	defaultSortColumn = "created_at"
)

// filterKeyRe matches "field" or "field[op]" where op is one of the
// recognized comparison operators.
var filterKeyRe = regexp.MustCompile(`^([a-z][a-z0-9_]*)(?:\[([a-z]+)\])?$`)

// comparison operator keywords rewritten into SQL comparisons. Anything
// else appearing in brackets is rejected rather than passed through.
var comparisonOps = map[string]bool{
	"gte": true,
	"gt":  true,
	"lte": true,
	"lt":  true,
}

// psql renders with $N placeholders for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Features shapes one collection read. Construct with New, chain the
// steps, then Build (and BuildCount for the overrun check).
type Features struct {
	table   string
	allowed map[string]bool
	columns []string
	params  url.Values

	selectCols []string
	where      []sq.Sqlizer
	orderBy    []string
	limit      uint64
	page       uint64

	explicitPage bool
	err          error
}

// New creates a Features for a resource table.
//
// columns is the ordered public column set used as the default projection;
// it doubles as the whitelist for filterable/sortable/selectable fields.
// Internal columns (credential state, row versioning) are simply not
// listed, which keeps projections purely inclusive.
func New(table string, columns []string, params url.Values) *Features {
	allowed := make(map[string]bool, len(columns))
	for _, col := range columns {
		allowed[col] = true
	}
	return &Features{
		table:      table,
		allowed:    allowed,
		columns:    columns,
		params:     params,
		selectCols: columns,
		limit:      DefaultLimit,
		page:       DefaultPage,
	}
}

// fail records the first error; later steps become no-ops so a chain can
// always run to completion before the caller checks Err.
func (f *Features) fail(err error) *Features {
	if f.err == nil {
		f.err = err
	}
	return f
}

// Filter strips the control keys and converts every remaining parameter
// into an equality or comparison constraint.
//
// "price[gte]=500" becomes price >= 500; a bare "difficulty=easy" becomes
// an equality. Repeated bare keys collapse into an IN. Unknown fields and
// unrecognized bracket operators are rejected with a 400.
func (f *Features) Filter() *Features {
	if f.err != nil {
		return f
	}

	for key, values := range f.params {
		switch key {
		case keyPage, keySort, keyLimit, keyFields:
			continue
		}
		if len(values) == 0 {
			continue
		}

		m := filterKeyRe.FindStringSubmatch(key)
		if m == nil {
			return f.fail(errs.NewBadRequestError(
				fmt.Sprintf("Invalid filter parameter %q", key), "", nil))
		}
		field, op := m[1], m[2]

		if !f.allowed[field] {
			return f.fail(errs.NewBadRequestError(
				fmt.Sprintf("Unknown filter field %q", field), "", nil))
		}

		if op == "" {
			if len(values) == 1 {
				f.where = append(f.where, sq.Eq{field: values[0]})
			} else {
				f.where = append(f.where, sq.Eq{field: values})
			}
			continue
		}

		if !comparisonOps[op] {
			return f.fail(errs.NewBadRequestError(
				fmt.Sprintf("Unsupported filter operator %q", op), "", nil))
		}

		// A repeated comparison key keeps only the last value, matching
		// the behavior of an overwritten object key upstream.
		value := values[len(values)-1]
		switch op {
		case "gte":
			f.where = append(f.where, sq.GtOrEq{field: value})
		case "gt":
			f.where = append(f.where, sq.Gt{field: value})
		case "lte":
			f.where = append(f.where, sq.LtOrEq{field: value})
		case "lt":
			f.where = append(f.where, sq.Lt{field: value})
		}
	}

	return f
}

// Sort applies the comma-separated sort expression, each field
// optionally prefixed with "-" for descending. Without a sort parameter
// the list orders by creation time, ascending.
func (f *Features) Sort() *Features {
	if f.err != nil {
		return f
	}

	raw := f.params.Get(keySort)
	if raw == "" {
		f.orderBy = []string{defaultSortColumn + " ASC"}
		return f
	}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		dir := "ASC"
		field := part
		if strings.HasPrefix(part, "-") {
			dir = "DESC"
			field = part[1:]
		}

		if !f.allowed[field] {
			return f.fail(errs.NewBadRequestError(
				fmt.Sprintf("Unknown sort field %q", field), "", nil))
		}

		f.orderBy = append(f.orderBy, field+" "+dir)
	}

	return f
}

// SelectFields restricts the projection to the comma-separated field list.
// The identifier column is always kept so responses stay addressable.
// Without a fields parameter the default public column set is selected,
// which already excludes internal columns.
func (f *Features) SelectFields() *Features {
	if f.err != nil {
		return f
	}

	raw := f.params.Get(keyFields)
	if raw == "" {
		return f
	}

	cols := []string{"id"}
	seen := map[string]bool{"id": true}
	for _, part := range strings.Split(raw, ",") {
		field := strings.TrimSpace(part)
		if field == "" || seen[field] {
			continue
		}
		if !f.allowed[field] {
			return f.fail(errs.NewBadRequestError(
				fmt.Sprintf("Unknown field %q in field selection", field), "", nil))
		}
		cols = append(cols, field)
		seen[field] = true
	}

	f.selectCols = cols
	return f
}

// Paginate computes skip/limit from the page and limit parameters.
// limit defaults to 100, page to 1; skip = (page-1) * limit.
func (f *Features) Paginate() *Features {
	if f.err != nil {
		return f
	}

	if raw := f.params.Get(keyLimit); raw != "" {
		n, err := parsePositive(raw)
		if err != nil {
			return f.fail(errs.NewBadRequestError("Invalid limit parameter", "", nil))
		}
		f.limit = n
	}

	if raw := f.params.Get(keyPage); raw != "" {
		n, err := parsePositive(raw)
		if err != nil {
			return f.fail(errs.NewBadRequestError("Invalid page parameter", "", nil))
		}
		f.page = n
		f.explicitPage = true
	}

	// (page-1)*limit must not wrap around uint64 or exceed what the
	// store's OFFSET can hold; a wrapped skip would alias a real page.
	if f.page-1 > math.MaxInt64/f.limit {
		return f.fail(errs.NewBadRequestError("Invalid page parameter", "", nil))
	}

	return f
}

func parsePositive(raw string) (uint64, error) {
	var n uint64
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}

// Scope adds a fixed constraint outside the request parameters, used for
// nested-route parent scoping (e.g. reviews of one tour).
func (f *Features) Scope(cond sq.Sqlizer) *Features {
	if cond != nil {
		f.where = append(f.where, cond)
	}
	return f
}

// Err reports the first error recorded by any step.
func (f *Features) Err() error {
	return f.err
}

// Offset is the number of rows skipped: (page-1) * limit.
func (f *Features) Offset() uint64 {
	return (f.page - 1) * f.limit
}

// Limit is the effective page size.
func (f *Features) Limit() uint64 {
	return f.limit
}

// Page is the effective page number.
func (f *Features) Page() uint64 {
	return f.page
}

// HasExplicitPage reports whether the client asked for a specific page,
// which is what triggers the soft overrun check.
func (f *Features) HasExplicitPage() bool {
	return f.explicitPage
}

// Columns is the effective projection after SelectFields.
func (f *Features) Columns() []string {
	return f.selectCols
}

// Build renders the shaped SELECT with $N placeholders.
func (f *Features) Build() (string, []any, error) {
	if f.err != nil {
		return "", nil, f.err
	}

	b := psql.Select(f.selectCols...).From(f.table)
	for _, cond := range f.where {
		b = b.Where(cond)
	}
	for _, ord := range f.orderBy {
		b = b.OrderBy(ord)
	}
	b = b.Limit(f.limit).Offset(f.Offset())

	return b.ToSql()
}

// BuildCount renders a COUNT over the same filter, without projection,
// ordering, or pagination. Used for no_of_results bookkeeping and the
// page-overrun log.
func (f *Features) BuildCount() (string, []any, error) {
	if f.err != nil {
		return "", nil, f.err
	}

	b := psql.Select("COUNT(*)").From(f.table)
	for _, cond := range f.where {
		b = b.Where(cond)
	}

	return b.ToSql()
}
