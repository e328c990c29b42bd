package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"finsight/internal/shared/auth"
)

func TestAuthMissingToken(t *testing.T) {
	jwt := auth.NewJWT("test-secret")
	handler := Auth(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthInvalidToken(t *testing.T) {
	jwt := auth.NewJWT("test-secret")
	handler := Auth(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthBearerToken(t *testing.T) {
	jwt := auth.NewJWT("test-secret")
	token, err := jwt.Generate(42, "ada@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotID int64
	var gotEmail string
	handler := Auth(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
		gotEmail, _ = r.Context().Value(EmailKey).(string)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != 42 {
		t.Errorf("expected user ID 42, got %d", gotID)
	}
	if gotEmail != "ada@example.com" {
		t.Errorf("expected email ada@example.com, got %q", gotEmail)
	}
}

func TestAuthCookieToken(t *testing.T) {
	jwt := auth.NewJWT("test-secret")
	token, err := jwt.Generate(7, "grace@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var gotID int64
	handler := Auth(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != 7 {
		t.Errorf("expected user ID 7, got %d", gotID)
	}
}

func TestAuthMalformedHeader(t *testing.T) {
	jwt := auth.NewJWT("test-secret")
	handler := Auth(jwt)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
