package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/query"
)

type thing struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

// fakeThings implements Resource[thing] in memory.
type fakeThings struct {
	items map[uuid.UUID]*thing

	lastCreate map[string]any
	lastUpdate map[string]any
}

func newFakeThings() *fakeThings {
	return &fakeThings{items: map[uuid.UUID]*thing{}}
}

func (f *fakeThings) Columns() []string { return []string{"id", "name", "created_at"} }

func (f *fakeThings) Features(params map[string][]string) *query.Features {
	return query.New("things", f.Columns(), params)
}

func (f *fakeThings) FindByID(_ context.Context, id uuid.UUID) (*thing, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return item, nil
}

func (f *fakeThings) FindMany(_ context.Context, _ *query.Features) ([]*thing, error) {
	out := make([]*thing, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeThings) Create(_ context.Context, values map[string]any) (*thing, error) {
	f.lastCreate = values
	item := &thing{ID: uuid.New()}
	if name, ok := values["name"].(string); ok {
		item.Name = name
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeThings) UpdateByID(_ context.Context, id uuid.UUID, values map[string]any) (*thing, error) {
	f.lastUpdate = values
	item, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if name, ok := values["name"].(string); ok {
		item.Name = name
	}
	return item, nil
}

func (f *fakeThings) DeleteByID(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func newThingsHandler(f *fakeThings, opts ...CRUDOption[thing]) *CRUDHandler[thing] {
	return NewCRUDHandler[thing](nil, f, "thing", opts...)
}

func doRequest(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	for name, value := range params {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}

	return rec, h(c)
}

func TestCRUDGetOne(t *testing.T) {
	f := newFakeThings()
	item := &thing{ID: uuid.New(), Name: "alpha"}
	f.items[item.ID] = item

	h := newThingsHandler(f)

	rec, err := doRequest(t, h.GetOne(), http.MethodGet, "/", "", map[string]string{"id": item.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status string `json:"status"`
		Data   thing  `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, "alpha", envelope.Data.Name)
}

func TestCRUDGetOne_NotFound(t *testing.T) {
	h := newThingsHandler(newFakeThings())

	_, err := doRequest(t, h.GetOne(), http.MethodGet, "/", "", map[string]string{"id": uuid.NewString()})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "No thing found with that ID", httpErr.Message)
}

func TestCRUDGetOne_InvalidID(t *testing.T) {
	h := newThingsHandler(newFakeThings())

	_, err := doRequest(t, h.GetOne(), http.MethodGet, "/", "", map[string]string{"id": "not-a-uuid"})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestCRUDGetAll_Envelope(t *testing.T) {
	f := newFakeThings()
	for range 3 {
		item := &thing{ID: uuid.New()}
		f.items[item.ID] = item
	}

	h := newThingsHandler(f)

	rec, err := doRequest(t, h.GetAll(), http.MethodGet, "/?limit=10", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Status      string  `json:"status"`
		NoOfResults int     `json:"no_of_results"`
		Data        []thing `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, 3, envelope.NoOfResults)
	assert.Len(t, envelope.Data, 3)
}

func TestCRUDCreate_WhitelistsColumns(t *testing.T) {
	f := newFakeThings()
	h := newThingsHandler(f)

	body := `{"name":"beta","id":"` + uuid.NewString() + `","created_at":"2026-01-01T00:00:00Z","bogus":1}`
	rec, err := doRequest(t, h.Create(), http.MethodPost, "/", body, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Only whitelisted columns reach the store.
	assert.Equal(t, map[string]any{"name": "beta"}, f.lastCreate)
}

func TestCRUDCreate_ImmutableOption(t *testing.T) {
	f := newFakeThings()
	h := newThingsHandler(f, WithImmutableColumns[thing]("name"))

	rec, err := doRequest(t, h.Create(), http.MethodPost, "/", `{"name":"beta"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, f.lastCreate)
}

func TestCRUDCreate_PrepareWrite(t *testing.T) {
	f := newFakeThings()
	h := newThingsHandler(f, WithPrepareWrite[thing](func(values map[string]any) map[string]any {
		values["name"] = "derived"
		return values
	}))

	_, err := doRequest(t, h.Create(), http.MethodPost, "/", `{"name":"original"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "derived", f.lastCreate["name"])
}

func TestCRUDCreate_WriteDefaults(t *testing.T) {
	f := newFakeThings()
	h := newThingsHandler(f, WithWriteDefaults[thing](func(c echo.Context, values map[string]any) error {
		if _, ok := values["name"]; !ok {
			values["name"] = "fallback"
		}
		return nil
	}))

	_, err := doRequest(t, h.Create(), http.MethodPost, "/", `{}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "fallback", f.lastCreate["name"])

	_, err = doRequest(t, h.Create(), http.MethodPost, "/", `{"name":"explicit"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, "explicit", f.lastCreate["name"])
}

func TestCRUDUpdate(t *testing.T) {
	f := newFakeThings()
	item := &thing{ID: uuid.New(), Name: "before"}
	f.items[item.ID] = item

	h := newThingsHandler(f)

	rec, err := doRequest(t, h.Update(), http.MethodPatch, "/", `{"name":"after"}`,
		map[string]string{"id": item.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "after", item.Name)
}

func TestCRUDDelete(t *testing.T) {
	f := newFakeThings()
	item := &thing{ID: uuid.New()}
	f.items[item.ID] = item

	h := newThingsHandler(f)

	rec, err := doRequest(t, h.Delete(), http.MethodDelete, "/", "",
		map[string]string{"id": item.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.items)
}

func TestCRUDDelete_NotFound(t *testing.T) {
	h := newThingsHandler(newFakeThings())

	_, err := doRequest(t, h.Delete(), http.MethodDelete, "/", "",
		map[string]string{"id": uuid.NewString()})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalizeValue([]any{"a", "b"}))
	assert.Equal(t, []any{"a", 1.0}, normalizeValue([]any{"a", 1.0}))
	assert.Equal(t, "plain", normalizeValue("plain"))
	assert.Equal(t, 1.5, normalizeValue(1.5))
}
