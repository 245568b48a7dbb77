package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sohaib59/ecommerce-store/internal/repository"
)

// Context keys set by TokenAuth and read by handlers and the permission
// guard.
const (
	CtxUserID  = "user_id"
	CtxIsAdmin = "is_admin"
)

// TokenAuth returns an Echo middleware that resolves an opaque bearer
// token from the Authorization header to a user record. The token is a
// stored credential, not a signed claim: lookup hits the auth_tokens
// table so that logout invalidates it immediately. Inactive users are
// rejected even when their token row still exists.
func TokenAuth(tokens *repository.TokenRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := tokens.GetUser(ctx, raw)
			if err != nil {
				if errors.Is(err, repository.ErrTokenNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "auth lookup failed"})
			}
			if !u.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, u.ID)
			c.Set(CtxIsAdmin, u.IsAdmin)
			return next(c)
		}
	}
}
