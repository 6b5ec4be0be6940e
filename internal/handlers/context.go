package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/mehrab-dev/blogstack/backend/internal/models"
)

// getClaimsFromContext returns the JWT claims stored by the auth middleware,
// or nil for an unauthenticated request
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil
	}
	return claims
}

// getUserIDFromContext returns the authenticated user's ID, 0 if none
func getUserIDFromContext(c echo.Context) uint {
	if claims := getClaimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return 0
}
