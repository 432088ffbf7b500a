//go:build !integration

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travelDiscovery/pkg/logger"
	"travelDiscovery/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := AuthMiddleware(testSecret)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	id := uuid.New()
	token, err := utils.GenerateJWT(testSecret, id.String(), "user", time.Hour)
	require.NoError(t, err)

	rec, c, called := runAuth(t, "Bearer "+token)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, c.Get("user_id"))
	assert.Equal(t, "user", c.Get("role"))
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	good, err := utils.GenerateJWT(testSecret, uuid.NewString(), "user", time.Hour)
	require.NoError(t, err)
	wrongSecret, err := utils.GenerateJWT("other", uuid.NewString(), "user", time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateJWT(testSecret, uuid.NewString(), "user", -time.Minute)
	require.NoError(t, err)
	numericID, err := utils.GenerateJWT(testSecret, "42", "user", time.Hour)
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.Claims{UserID: uuid.NewString()})
	noExpToken, err := noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"bad signature", "Bearer " + wrongSecret, http.StatusUnauthorized},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusForbidden},
		{"no expiry", "Bearer " + noExpToken, http.StatusForbidden},
		{"non uuid user id", "Bearer " + numericID, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := runAuth(t, tt.header)
			assert.False(t, called)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		role   any
		status int
	}{
		{"admin", http.StatusOK},
		{"ADMIN", http.StatusOK},
		{"user", http.StatusForbidden},
		{nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if tt.role != nil {
			c.Set("role", tt.role)
		}

		h := AdminOnly()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
		require.NoError(t, h(c))
		assert.Equal(t, tt.status, rec.Code, "role %v", tt.role)
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		seen = logger.TraceIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", seen)
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/boom", func(c echo.Context) error { return errors.New("kaput") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_SERVER_ERROR"`)
	assert.NotContains(t, rec.Body.String(), "kaput")
}
