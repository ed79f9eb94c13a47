package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "admin-secret"

func serveAdmin(t *testing.T, authorization string) (int, string) {
	t.Helper()

	e := echo.New()
	var subject string
	e.POST("/api/discounts", func(c echo.Context) error {
		subject, _ = c.Get(UserIDContextKey).(string)
		return c.NoContent(http.StatusCreated)
	}, AuthMiddleware(testSecret))

	req := httptest.NewRequest(http.MethodPost, "/api/discounts", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, subject
}

func TestAuthMiddlewareAcceptsAdminToken(t *testing.T) {
	token, err := NewAdminToken(testSecret, "ops@shop.test", time.Hour)
	require.NoError(t, err)

	code, subject := serveAdmin(t, "Bearer "+token)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "ops@shop.test", subject)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	wrongKey, err := NewAdminToken("other-secret", "ops", time.Hour)
	require.NoError(t, err)
	expired, err := NewAdminToken(testSecret, "ops", -time.Minute)
	require.NoError(t, err)
	customer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AdminClaims{
		Role:             "customer",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "buyer"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		code          int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"not a bearer", "Basic b3BzOm9wcw==", http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"not an admin", "Bearer " + customer, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, subject := serveAdmin(t, tt.authorization)
			assert.Equal(t, tt.code, code)
			assert.Empty(t, subject)
		})
	}
}
