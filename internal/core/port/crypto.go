package port

import "time"

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// TokenManager issues and parses access tokens for the identity boundary.
// Token format and validation details stay behind this interface.
type TokenManager interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
	// Parse validates the token and returns the authenticated user id.
	Parse(token string) (userID string, err error)
}
