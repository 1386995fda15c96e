package auth_test

import (
	"testing"
	"time"

	"github.com/camachodev/puntoventa-backend/pkg/auth"
	"github.com/camachodev/puntoventa-backend/pkg/config"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "puntoventa-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	profileID := uuid.New()
	orgID := uuid.New()

	signed, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		ProfileID:      profileID,
		OrganizationID: orgID,
		Role:           enums.UserRoleSeller,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	claims, err := auth.ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken returned error: %v", err)
	}
	if claims.ProfileID != profileID {
		t.Fatalf("expected profile id %s, got %s", profileID, claims.ProfileID)
	}
	if claims.OrganizationID != orgID {
		t.Fatalf("expected organization id %s, got %s", orgID, claims.OrganizationID)
	}
	if claims.Role != enums.UserRoleSeller {
		t.Fatalf("expected role seller, got %q", claims.Role)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintAccessTokenRejectsInvalidRole(t *testing.T) {
	_, err := auth.MintAccessToken(testJWTConfig(), time.Now(), auth.AccessTokenPayload{
		ProfileID:      uuid.New(),
		OrganizationID: uuid.New(),
		Role:           enums.UserRole("superuser"),
	})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := auth.MintAccessToken(cfg, time.Now().Add(-time.Hour), auth.AccessTokenPayload{
		ProfileID:      uuid.New(),
		OrganizationID: uuid.New(),
		Role:           enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	if _, err := auth.ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed, err := auth.MintAccessToken(testJWTConfig(), time.Now(), auth.AccessTokenPayload{
		ProfileID:      uuid.New(),
		OrganizationID: uuid.New(),
		Role:           enums.UserRoleManager,
	})
	if err != nil {
		t.Fatalf("MintAccessToken returned error: %v", err)
	}

	other := testJWTConfig()
	other.Secret = "different-secret"
	if _, err := auth.ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}
