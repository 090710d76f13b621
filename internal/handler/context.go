package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskvault/internal/auth"
)

// userIDFromContext resolves the authenticated user id attached by the JWT
// middleware. Handlers behind the secured group can rely on it being present.
func userIDFromContext(c echo.Context) (uuid.UUID, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	userID, err := claims.ParseUserID()
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return userID, nil
}
