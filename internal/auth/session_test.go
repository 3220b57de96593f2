// ABOUTME: Unit tests for session credential issue/verify and request extraction
// ABOUTME: Covers expiry, tampering, header/cookie precedence, and uniform failures

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-for-session-signing")

func testSessions(t *testing.T) *Sessions {
	t.Helper()
	s, err := NewSessions(testSecret)
	require.NoError(t, err)
	return s
}

// expiredCredential mints a structurally valid credential that expired an
// hour ago, signed with the given secret.
func expiredCredential(t *testing.T, secret []byte) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"iat":  now.Add(-2 * time.Hour).Unix(),
		"exp":  now.Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestNewSessions_MissingSecret(t *testing.T) {
	_, err := NewSessions(nil)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestSessions_IssueAndVerify(t *testing.T) {
	s := testSessions(t)

	credential, err := s.Issue(Claims{Role: "admin", Subject: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	claims, err := s.Verify(credential)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin", claims.Subject)
}

func TestSessions_Verify_Failures(t *testing.T) {
	s := testSessions(t)

	valid, err := s.Issue(Claims{Role: "admin", Subject: "admin"})
	require.NoError(t, err)

	otherSecret, err := NewSessions([]byte("a-different-secret"))
	require.NoError(t, err)
	foreign, err := otherSecret.Issue(Claims{Role: "admin", Subject: "admin"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		credential string
	}{
		{"empty", ""},
		{"garbage", "not-a-credential"},
		{"malformed", "header.payload.signature"},
		{"wrong secret", foreign},
		{"expired", expiredCredential(t, testSecret)},
		{"tampered payload", tamper(valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.credential)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

// tamper flips a byte in the payload segment so the signature no longer
// matches.
func tamper(credential string) string {
	parts := strings.SplitN(credential, ".", 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	return parts[0] + "." + string(payload) + "." + parts[2]
}

func TestCredentialFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
		wantOK bool
	}{
		{"neither", "", "", "", false},
		{"bearer header", "Bearer tok-h", "", "tok-h", true},
		{"cookie only", "", "tok-c", "tok-c", true},
		{"header wins over cookie", "Bearer tok-h", "tok-c", "tok-h", true},
		{"non-bearer header falls back to cookie", "Basic abc", "tok-c", "tok-c", true},
		{"empty bearer falls back to cookie", "Bearer ", "tok-c", "tok-c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}

			got, ok := CredentialFromRequest(r)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessions_AuthenticateRequest(t *testing.T) {
	s := testSessions(t)

	credential, err := s.Issue(Claims{Role: "admin", Subject: "admin"})
	require.NoError(t, err)

	t.Run("valid cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: credential})

		claims, err := s.AuthenticateRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Subject)
	})

	t.Run("missing credential", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := s.AuthenticateRequest(r)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("invalid header beats valid cookie", func(t *testing.T) {
		// Header takes precedence, so a bad bearer token fails even when a
		// valid cookie is present.
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer garbage")
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: credential})

		_, err := s.AuthenticateRequest(r)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}
