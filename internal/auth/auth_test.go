package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-oidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NoOpLogger for testing
type NoOpLogger struct{}

func (l *NoOpLogger) Debug(msg string, args ...any) {}
func (l *NoOpLogger) Info(msg string, args ...any)  {}
func (l *NoOpLogger) Error(msg string, args ...any) {}

// MockKeySet satisfies oidc.KeySet to bypass signature verification
type MockKeySet struct{}

func (m *MockKeySet) VerifySignature(ctx context.Context, jwtToken string) ([]byte, error) {
	parts := strings.Split(jwtToken, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed jwt")
	}
	return base64.RawURLEncoding.DecodeString(parts[1])
}

const (
	testIssuer   = "https://test-issuer.com"
	testClientID = "test-client"
)

func fakeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	headerBytes, err := json.Marshal(map[string]interface{}{
		"alg": "RS256",
		"typ": "JWT",
		"kid": "test-key",
	})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(headerBytes) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "." +
		base64.RawURLEncoding.EncodeToString([]byte("fakesignature"))
}

func testAuth() *Auth {
	verifier := oidc.NewVerifier(testIssuer, &MockKeySet{}, &oidc.Config{ClientID: testClientID})
	return NewWithVerifier(verifier, &NoOpLogger{})
}

func validClaims() map[string]interface{} {
	return map[string]interface{}{
		"iss":   testIssuer,
		"aud":   testClientID,
		"sub":   "operator-1",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Add(-1 * time.Minute).Unix(),
		"email": "ops@example.com",
	}
}

func serve(a *Auth, header string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/download", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	a.RequireAuth(next).ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_BearerToken_RecordsSubject(t *testing.T) {
	var subject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = Subject(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := serve(testAuth(), "Bearer "+fakeToken(t, validClaims()), next)

	if rec.Code != http.StatusOK {
		t.Logf("Response Body: %s", rec.Body.String())
	}
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@example.com", subject)
}

func TestRequireAuth_FallsBackToSubClaim(t *testing.T) {
	claims := validClaims()
	delete(claims, "email")

	var subject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = Subject(r.Context())
	})

	rec := serve(testAuth(), "Bearer "+fakeToken(t, claims), next)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "operator-1", subject)
}

func TestRequireAuth_Rejects(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	wrongAudience := validClaims()
	wrongAudience["aud"] = "someone-else"

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"expired", "Bearer " + fakeToken(t, expired)},
		{"wrong audience", "Bearer " + fakeToken(t, wrongAudience)},
		{"garbage", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

			rec := serve(testAuth(), tt.header, next)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestRequireAuth_DisabledWithoutIssuer(t *testing.T) {
	a, err := New(context.Background(), "", "", &NoOpLogger{})
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	var subject string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = Subject(r.Context())
	})

	rec := serve(a, "", next)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, AnonymousSubject, subject)
}
