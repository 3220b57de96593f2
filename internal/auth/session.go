// ABOUTME: Session credential minting and verification using HS256 JWTs
// ABOUTME: Extracts credentials from bearer headers or session cookies

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionDuration is the validity window for issued session credentials.
	SessionDuration = 7 * 24 * time.Hour

	// SessionCookieName is the cookie a browser session carries the
	// credential in. The bearer header takes precedence when both are set.
	SessionCookieName = "telegate_session"
)

var (
	// ErrUnauthenticated is the uniform failure for any missing, malformed,
	// expired, or tampered credential. Verification deliberately does not
	// report which check failed.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials is returned by login checks on a username or
	// password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMissingSecret is a startup-time configuration failure.
	ErrMissingSecret = errors.New("signing secret not configured")
)

// Claims are the application claims embedded in a session credential.
type Claims struct {
	Role    string
	Subject string
}

// Sessions mints and verifies signed session credentials. It holds only the
// shared signing secret and is safe for concurrent use.
type Sessions struct {
	secret []byte
}

// NewSessions creates a session authenticator with the given signing secret.
// An empty secret is a deployment misconfiguration and fails immediately.
func NewSessions(secret []byte) (*Sessions, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	return &Sessions{secret: secret}, nil
}

// Issue produces a signed credential embedding the claims, expiring
// SessionDuration from now.
func (s *Sessions) Issue(c Claims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  c.Subject,
		"role": c.Role,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  now.Add(SessionDuration).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session credential: %w", err)
	}
	return signed, nil
}

// Verify validates a credential and returns its claims. Every failure mode
// collapses to ErrUnauthenticated so callers cannot be used as an oracle
// for token validity specifics.
func (s *Sessions) Verify(credential string) (Claims, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrUnauthenticated
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrUnauthenticated
	}

	sub, _ := mc["sub"].(string)
	role, _ := mc["role"].(string)
	if sub == "" || role == "" {
		return Claims{}, ErrUnauthenticated
	}
	return Claims{Role: role, Subject: sub}, nil
}

// AuthenticateRequest extracts a candidate credential from the request and
// verifies it. Extraction failure and verification failure are
// indistinguishable to the caller.
func (s *Sessions) AuthenticateRequest(r *http.Request) (Claims, error) {
	credential, ok := CredentialFromRequest(r)
	if !ok {
		return Claims{}, ErrUnauthenticated
	}
	return s.Verify(credential)
}

// CredentialFromRequest pulls a candidate credential from the Authorization
// bearer header or, failing that, the session cookie. It is a total
// extraction: ok is false when neither location holds a non-empty value.
func CredentialFromRequest(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimPrefix(header, "Bearer "); token != "" {
			return token, true
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}
