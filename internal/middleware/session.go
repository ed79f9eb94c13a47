package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookie     = "sessionid"
	SessionContextKey = "session_key"

	sessionMaxAge = 14 * 24 * time.Hour
)

// SessionMiddleware gives every visitor an anonymous session key, kept in a
// cookie, and stores it in the echo context under SessionContextKey.
func SessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				key = cookie.Value
			}

			if key == "" {
				key = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    key,
					Path:     "/",
					MaxAge:   int(sessionMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(SessionContextKey, key)
			return next(c)
		}
	}
}

func SessionKey(c echo.Context) string {
	key, _ := c.Get(SessionContextKey).(string)
	return key
}
