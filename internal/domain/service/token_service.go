package service

import "time"

// TokenService mints and validates the opaque session tokens used by the
// guest provider. Remote providers carry their backend's own tokens.
type TokenService interface {
	// GenerateSessionToken creates a signed session token for the user.
	GenerateSessionToken(userID string) (string, error)

	// ValidateSessionToken verifies a token and returns the user ID it was
	// issued for.
	ValidateSessionToken(token string) (string, error)

	// SessionTTL returns how long a freshly minted session stays valid.
	SessionTTL() time.Duration
}
