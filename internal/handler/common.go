package handler // handler defines HTTP handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Sohaib59/ecommerce-store/internal/middleware"
)

// dbTimeout bounds every database call issued from a handler.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the incoming request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// currentPrincipal extracts the authenticated caller set by TokenAuth.
func currentPrincipal(c echo.Context) (middleware.Principal, error) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.Principal{}, errors.New("no principal in context")
	}
	return p, nil
}
