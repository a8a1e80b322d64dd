package utils

import (
	"testing"
	"time"

	"storefront-backend/config"
	"storefront-backend/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
}

func TestGenerateAndValidateJWT(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateJWT(cfg, "64f000000000000000000001", models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ValidateJWT(cfg, token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "64f000000000000000000001" {
		t.Errorf("UserID = %q, want the subject id", claims.UserID)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleAdmin)
	}

	expiry := time.Unix(claims.ExpiresAt, 0)
	if d := time.Until(expiry); d < 55*time.Minute || d > 65*time.Minute {
		t.Errorf("token expiry %v from now, want about 1h", d)
	}
}

func TestValidateJWTRejectsTampered(t *testing.T) {
	cfg := testConfig()

	token, err := GenerateJWT(cfg, "64f000000000000000000001", models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ValidateJWT(cfg, token+"x"); err == nil {
		t.Error("tampered token accepted")
	}
	if _, err := ValidateJWT(cfg, "not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}

	other := &config.Config{JWTSecret: "other-secret", TokenTTL: time.Hour}
	if _, err := ValidateJWT(other, token); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret", TokenTTL: -time.Minute}

	token, err := GenerateJWT(cfg, "64f000000000000000000001", models.RoleUser)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ValidateJWT(cfg, token); err == nil {
		t.Error("expired token accepted")
	}
}
