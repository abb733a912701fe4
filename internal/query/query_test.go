package query

import (
	"net/url"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tourColumns = []string{
	"id", "name", "slug", "duration", "difficulty",
	"ratings_average", "price", "created_at",
}

func buildFeatures(t *testing.T, rawQuery string) *Features {
	t.Helper()
	params, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	return New("tours", tourColumns, params).
		Filter().
		Sort().
		SelectFields().
		Paginate()
}

func TestDefaults_NoPageNoLimit(t *testing.T) {
	f := buildFeatures(t, "")
	require.NoError(t, f.Err())

	assert.EqualValues(t, DefaultPage, f.Page())
	assert.EqualValues(t, DefaultLimit, f.Limit())
	assert.EqualValues(t, 0, f.Offset())
	assert.False(t, f.HasExplicitPage())

	sqlStr, _, err := f.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "ORDER BY created_at ASC")
	assert.Contains(t, sqlStr, "LIMIT 100")
	assert.Contains(t, sqlStr, "OFFSET 0")
}

func TestSort_MixedDirections(t *testing.T) {
	f := buildFeatures(t, "sort=price,-ratings_average")
	require.NoError(t, f.Err())

	sqlStr, _, err := f.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "ORDER BY price ASC, ratings_average DESC")
}

func TestFilter_ComparisonRewrite(t *testing.T) {
	f := buildFeatures(t, "price[gte]=500")
	require.NoError(t, f.Err())

	sqlStr, args, err := f.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "price >= $1")
	assert.NotContains(t, sqlStr, "gte")
	require.Len(t, args, 1)
	assert.Equal(t, "500", args[0])
}

func TestFilter_Equality(t *testing.T) {
	f := buildFeatures(t, "difficulty=easy")
	require.NoError(t, f.Err())

	sqlStr, args, err := f.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "difficulty = $1")
	assert.Equal(t, []any{"easy"}, args)
}

func TestFilter_UnknownOperatorRejected(t *testing.T) {
	f := buildFeatures(t, "price[regex]=500")
	err := f.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported filter operator")

	_, _, buildErr := f.Build()
	assert.Equal(t, err, buildErr)
}

func TestFilter_UnknownFieldRejected(t *testing.T) {
	f := buildFeatures(t, "password_hash=x")
	require.Error(t, f.Err())
}

func TestFilter_ControlKeysStripped(t *testing.T) {
	f := buildFeatures(t, "page=2&sort=price&limit=10&fields=name,price")
	require.NoError(t, f.Err())

	sqlStr, args, err := f.Build()
	require.NoError(t, err)
	assert.NotContains(t, sqlStr, "WHERE")
	assert.Empty(t, args)
}

func TestSelectFields_InclusiveProjectionKeepsID(t *testing.T) {
	f := buildFeatures(t, "fields=name,price")
	require.NoError(t, f.Err())

	assert.Equal(t, []string{"id", "name", "price"}, f.Columns())

	sqlStr, _, err := f.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "SELECT id, name, price FROM tours")
}

func TestSelectFields_DefaultProjectionIsPublicColumns(t *testing.T) {
	f := buildFeatures(t, "")
	require.NoError(t, f.Err())
	assert.Equal(t, tourColumns, f.Columns())
}

func TestPaginate_SkipComputation(t *testing.T) {
	f := buildFeatures(t, "page=3&limit=20")
	require.NoError(t, f.Err())

	assert.EqualValues(t, 40, f.Offset())
	assert.True(t, f.HasExplicitPage())

	sqlStr, _, err := f.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "LIMIT 20")
	assert.Contains(t, sqlStr, "OFFSET 40")
}

func TestPaginate_InvalidValuesRejected(t *testing.T) {
	for _, raw := range []string{"page=zero", "limit=-5", "page=0"} {
		params, err := url.ParseQuery(raw)
		require.NoError(t, err)
		f := New("tours", tourColumns, params).Paginate()
		assert.Error(t, f.Err(), raw)
	}
}

func TestPaginate_HugePageRejected(t *testing.T) {
	// A skip that wraps uint64 must never alias a small real offset.
	for _, raw := range []string{
		"page=184467440737095518&limit=100",
		"page=9223372036854775807&limit=2",
	} {
		params, err := url.ParseQuery(raw)
		require.NoError(t, err)
		f := New("tours", tourColumns, params).Paginate()
		require.Error(t, f.Err(), raw)
	}

	// The largest representable skip still passes.
	params, err := url.ParseQuery("page=9223372036854775807&limit=1")
	require.NoError(t, err)
	f := New("tours", tourColumns, params).Paginate()
	require.NoError(t, f.Err())
	assert.EqualValues(t, uint64(9223372036854775806), f.Offset())
}

func TestScope_ParentFilter(t *testing.T) {
	f := buildFeatures(t, "")
	require.NoError(t, f.Err())

	f.Scope(sq.Eq{"tour_id": "abc"})

	sqlStr, args, err := f.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "tour_id = $1")
	assert.Equal(t, []any{"abc"}, args)
}

func TestBuildCount_IgnoresPaginationAndProjection(t *testing.T) {
	f := buildFeatures(t, "difficulty=easy&page=9&limit=2&fields=name&sort=-price")
	require.NoError(t, f.Err())

	sqlStr, args, err := f.BuildCount()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "SELECT COUNT(*) FROM tours")
	assert.Contains(t, sqlStr, "difficulty = $1")
	assert.NotContains(t, sqlStr, "LIMIT")
	assert.NotContains(t, sqlStr, "ORDER BY")
	assert.Equal(t, []any{"easy"}, args)
}

func TestScenario_EasyToursByDescendingPrice(t *testing.T) {
	f := buildFeatures(t, "difficulty=easy&sort=-price&limit=2&page=1")
	require.NoError(t, f.Err())

	sqlStr, args, err := f.Build()
	require.NoError(t, err)
	assert.Contains(t, sqlStr, "difficulty = $1")
	assert.Contains(t, sqlStr, "ORDER BY price DESC")
	assert.Contains(t, sqlStr, "LIMIT 2")
	assert.Contains(t, sqlStr, "OFFSET 0")
	assert.Equal(t, []any{"easy"}, args)
}
