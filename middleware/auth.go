package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"storefront-backend/apperrors"
	"storefront-backend/config"
	"storefront-backend/models"
	"storefront-backend/utils"
)

// Context keys populated by the auth gate.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

func bearerToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Auth is the auth gate: it requires a valid bearer token and populates
// the request identity. Token verification is the sole source of
// identity; no server-side session exists.
func Auth(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return apperrors.Respond(c, apperrors.Authf("missing or malformed authorization header"))
			}

			claims, err := utils.ValidateJWT(cfg, token)
			if err != nil {
				return apperrors.Respond(c, apperrors.Authf("invalid or expired token"))
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

// AdminOnly is the admin gate, composed after Auth.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if role != models.RoleAdmin {
				return apperrors.Respond(c, apperrors.Forbiddenf("admin access required"))
			}
			return next(c)
		}
	}
}

// OptionalAuth populates identity when a valid token is present and
// never rejects the request. Cart routes use it so identity can also
// come from the request itself.
func OptionalAuth(cfg *config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if claims, err := utils.ValidateJWT(cfg, token); err == nil {
					c.Set(ContextUserID, claims.UserID)
					c.Set(ContextRole, claims.Role)
				}
			}
			return next(c)
		}
	}
}
