// ABOUTME: Unit tests for admin login credential checking
// ABOUTME: Covers plaintext and bcrypt comparison paths

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminCredentials_Check_Plaintext(t *testing.T) {
	creds := AdminCredentials{Username: "admin", Password: "hunter2"}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"correct pair", "admin", "hunter2", false},
		{"wrong password", "admin", "wrong", true},
		{"wrong username", "root", "hunter2", true},
		{"both wrong", "root", "wrong", true},
		{"empty pair", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := creds.Check(tt.username, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdminCredentials_Check_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	creds := AdminCredentials{Username: "admin", PasswordHash: string(hash)}

	assert.NoError(t, creds.Check("admin", "hunter2"))
	assert.ErrorIs(t, creds.Check("admin", "wrong"), ErrInvalidCredentials)
}

func TestAdminCredentials_Check_HashWinsOverPlaintext(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("real-password"), bcrypt.MinCost)
	require.NoError(t, err)

	creds := AdminCredentials{
		Username:     "admin",
		Password:     "stale-plaintext",
		PasswordHash: string(hash),
	}

	assert.NoError(t, creds.Check("admin", "real-password"))
	assert.ErrorIs(t, creds.Check("admin", "stale-plaintext"), ErrInvalidCredentials)
}
