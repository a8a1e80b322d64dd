package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront-backend/apperrors"
	"storefront-backend/middleware"
)

func newContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestResolveUserIDTokenWins(t *testing.T) {
	tokenID := primitive.NewObjectID()
	explicitID := primitive.NewObjectID()

	c := newContext()
	c.Set(middleware.ContextUserID, tokenID.Hex())

	got, err := resolveUserID(c, explicitID.Hex())
	if err != nil {
		t.Fatalf("resolveUserID: %v", err)
	}
	if got != tokenID {
		t.Errorf("resolved %s, want the token identity %s", got.Hex(), tokenID.Hex())
	}
}

func TestResolveUserIDExplicitFallback(t *testing.T) {
	explicitID := primitive.NewObjectID()

	got, err := resolveUserID(newContext(), explicitID.Hex())
	if err != nil {
		t.Fatalf("resolveUserID: %v", err)
	}
	if got != explicitID {
		t.Errorf("resolved %s, want %s", got.Hex(), explicitID.Hex())
	}
}

func TestResolveUserIDMissing(t *testing.T) {
	_, err := resolveUserID(newContext(), "")
	if err == nil {
		t.Fatal("expected error with no identity at all")
	}
	var e *apperrors.Error
	if !errors.As(err, &e) || e.Kind != apperrors.KindValidation {
		t.Errorf("error = %v, want validation", err)
	}
}

func TestResolveUserIDBadExplicit(t *testing.T) {
	_, err := resolveUserID(newContext(), "zzz")
	if err == nil {
		t.Fatal("expected error for malformed explicit id")
	}
	var e *apperrors.Error
	if !errors.As(err, &e) || e.Kind != apperrors.KindValidation {
		t.Errorf("error = %v, want validation", err)
	}
}
