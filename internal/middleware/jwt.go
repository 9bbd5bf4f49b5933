package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/moviehub/catalog/internal/utils"
)

// Context keys under which JWTAuth stores the verified identity. Handlers
// read these with c.Get(); the values are typed (uint64 / string), never
// raw JWT claim values.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer auth token and
// injects the token's identity claims into the request context. The
// provided secret must match the one used when issuing tokens. This
// middleware wraps protected routes so that handlers can access the
// authenticated user via c.Get(CtxUserID), c.Get(CtxEmail) and
// c.Get(CtxRole). On any failure the request short-circuits with 401 and
// the handler never runs.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// ParseAuthToken verifies the HMAC signature and the expiry and
			// refuses tokens signed with a different algorithm. Every
			// failure mode collapses to the same response.
			claims, err := utils.ParseAuthToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id from the context, or 0 when
// JWTAuth has not run on this route.
func UserID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxUserID).(uint64); ok {
		return v
	}
	return 0
}

// Role returns the authenticated user's role from the context, or "" when
// JWTAuth has not run on this route.
func Role(c echo.Context) string {
	if v, ok := c.Get(CtxRole).(string); ok {
		return v
	}
	return ""
}
