package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc"
)

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type contextKey string

const subjectKey contextKey = "auth.subject"

// AnonymousSubject is recorded for requests when authentication is disabled.
const AnonymousSubject = "anonymous"

// Auth verifies bearer tokens issued by an OpenID Connect provider. A zero
// Auth (no verifier) lets every request through as AnonymousSubject.
type Auth struct {
	verifier *oidc.IDTokenVerifier
	logger   Logger
}

// New creates an Auth for issuer. An empty issuer disables authentication.
// Otherwise the provider's discovery document is fetched to build a token
// verifier; clientID, when set, must appear in the token audience.
func New(ctx context.Context, issuer, clientID string, logger Logger) (*Auth, error) {
	if issuer == "" {
		return &Auth{logger: logger}, nil
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID:          clientID,
		SkipClientIDCheck: clientID == "",
	})
	return NewWithVerifier(verifier, logger), nil
}

// NewWithVerifier creates an Auth around an existing verifier.
func NewWithVerifier(verifier *oidc.IDTokenVerifier, logger Logger) *Auth {
	return &Auth{verifier: verifier, logger: logger}
}

// Enabled reports whether requests must carry a valid token.
func (a *Auth) Enabled() bool {
	return a.verifier != nil
}

// RequireAuth is middleware that ensures a valid "Authorization: Bearer"
// token is present and stores its subject in the request context.
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), AnonymousSubject)))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		token, err := a.verifier.Verify(r.Context(), strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			if a.logger != nil {
				a.logger.Debug("rejected bearer token", "error", err)
			}
			http.Error(w, "invalid token: "+err.Error(), http.StatusUnauthorized)
			return
		}

		var claims struct {
			Email string `json:"email"`
		}
		if err := token.Claims(&claims); err != nil {
			http.Error(w, "failed to parse token claims", http.StatusUnauthorized)
			return
		}
		subject := claims.Email
		if subject == "" {
			subject = token.Subject
		}

		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
	})
}

// WithSubject returns a context carrying the authenticated subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// Subject returns the authenticated subject, or "" if none was recorded.
func Subject(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}
