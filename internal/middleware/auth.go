package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin = "admin"

	tokenContextKey  = "admin_token"
	UserIDContextKey = "user_id"
)

type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware lets through requests carrying a bearer token signed with
// secret whose role is admin. The token subject is stored as user_id.
func AuthMiddleware(secret string) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		ContextKey: tokenContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(AdminClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing admin token").SetInternal(err)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			token, _ := c.Get(tokenContextKey).(*jwt.Token)
			if token == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing admin token")
			}
			claims, ok := token.Claims.(*AdminClaims)
			if !ok || claims.Role != RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}

			c.Set(UserIDContextKey, claims.Subject)
			return next(c)
		})
	}
}

// NewAdminToken signs an HS256 admin token for subject valid for ttl.
func NewAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
