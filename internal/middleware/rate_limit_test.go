package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandero/tourbook/internal/errs"
	"github.com/wandero/tourbook/internal/server"
)

func newTestLimiter(t *testing.T) (*RateLimitMiddleware, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRateLimitMiddleware(&server.Server{Redis: client}), mr
}

func limitedRequest(t *testing.T, mw echo.HandlerFunc, ip string) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = ip + ":54321"
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return mw(c)
}

func TestLimit_BlocksBeyondBudget(t *testing.T) {
	rl, _ := newTestLimiter(t)
	mw := rl.Limit("login", 3, time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, limitedRequest(t, mw, "10.0.0.1"), "request %d within budget", i+1)
	}

	err := limitedRequest(t, mw, "10.0.0.1")
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Status)
}

func TestLimit_WindowResets(t *testing.T) {
	rl, mr := newTestLimiter(t)
	mw := rl.Limit("login", 1, time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, limitedRequest(t, mw, "10.0.0.1"))
	require.Error(t, limitedRequest(t, mw, "10.0.0.1"))

	mr.FastForward(time.Minute + time.Second)
	require.NoError(t, limitedRequest(t, mw, "10.0.0.1"))
}

func TestLimit_BudgetIsPerClient(t *testing.T) {
	rl, _ := newTestLimiter(t)
	mw := rl.Limit("login", 1, time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, limitedRequest(t, mw, "10.0.0.1"))
	require.Error(t, limitedRequest(t, mw, "10.0.0.1"))
	require.NoError(t, limitedRequest(t, mw, "10.0.0.2"))
}

func TestLimit_FailsOpenWithoutRedis(t *testing.T) {
	rl, mr := newTestLimiter(t)
	mw := rl.Limit("login", 1, time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	mr.Close()

	// An unreachable counter store lets traffic through.
	require.NoError(t, limitedRequest(t, mw, "10.0.0.1"))
	require.NoError(t, limitedRequest(t, mw, "10.0.0.1"))
}
