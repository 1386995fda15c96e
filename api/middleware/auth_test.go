package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/camachodev/puntoventa-backend/pkg/auth"
	"github.com/camachodev/puntoventa-backend/pkg/config"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "puntoventa-test",
		ExpirationMinutes: 15,
	}
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(testJWTConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 but got %d", w.Code)
	}
}

func TestAuthSeedsIdentityContext(t *testing.T) {
	cfg := testJWTConfig()
	profileID := uuid.New()
	orgID := uuid.New()

	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		ProfileID:      profileID,
		OrganizationID: orgID,
		Role:           enums.UserRoleSeller,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	var seenProfile, seenOrg, seenRole string
	handler := Auth(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenProfile = ProfileIDFromContext(r.Context())
		seenOrg = OrganizationIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	if seenProfile != profileID.String() {
		t.Fatalf("unexpected profile id %q", seenProfile)
	}
	if seenOrg != orgID.String() {
		t.Fatalf("unexpected organization id %q", seenOrg)
	}
	if seenRole != string(enums.UserRoleSeller) {
		t.Fatalf("unexpected role %q", seenRole)
	}
}
