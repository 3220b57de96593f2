// Package auth issues and verifies the signed session credentials that
// gate every administrative operation, and checks admin login credentials.
// The authenticator is stateless: a credential is valid until it expires,
// and logout is a client-side cookie discard.
package auth
