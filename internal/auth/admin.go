// ABOUTME: Admin login credential checking for the session login endpoint
// ABOUTME: Supports bcrypt password hashes with a plaintext fallback

package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials holds the configured admin login pair. Exactly one of
// Password or PasswordHash is consulted; the bcrypt hash wins when both are
// set.
type AdminCredentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Check compares a supplied login pair against the configured credentials.
// Both fields must match exactly. Comparison is constant-time to keep login
// timing from leaking which field mismatched.
func (a AdminCredentials) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1

	var passOK bool
	if a.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	}

	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
