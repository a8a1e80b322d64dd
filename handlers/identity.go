package handlers

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/apperrors"
	"storefront-backend/middleware"
)

// resolveUserID is the single place caller identity is decided.
// Precedence is fixed: the authenticated token identity wins, then the
// explicit id supplied by the caller (body or query). The explicit
// fallback is a deliberate trusted-internal mode for the cart routes;
// routes behind the auth gate always have a token identity.
func resolveUserID(c echo.Context, explicit string) (primitive.ObjectID, error) {
	if tokenID, ok := c.Get(middleware.ContextUserID).(string); ok && tokenID != "" {
		id, err := primitive.ObjectIDFromHex(tokenID)
		if err != nil {
			return primitive.NilObjectID, apperrors.Authf("invalid token identity")
		}
		return id, nil
	}

	if explicit != "" {
		id, err := primitive.ObjectIDFromHex(explicit)
		if err != nil {
			return primitive.NilObjectID, apperrors.Validationf("invalid user id")
		}
		return id, nil
	}

	return primitive.NilObjectID, apperrors.Validationf("userId is required")
}

// requesterRole returns the role set by the auth gate, empty when the
// request is unauthenticated.
func requesterRole(c echo.Context) string {
	role, _ := c.Get(middleware.ContextRole).(string)
	return role
}
