// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is the opaque identity handle returned by every auth provider.
// IDs are provider-scoped strings: a UUID for the guest provider, the
// backend's native user ID for remote providers.
type User struct {
	ID        string    // Unique identifier within the owning provider.
	Email     string    // Primary contact email, used as the login identifier.
	Name      string    // Display name.
	CreatedAt time.Time // When the account was created, when the backend reports it.
}

// Session is the ephemeral proof of authentication created by Login and
// destroyed by Logout. Callers treat the token as opaque; each provider
// guarantees at most one live session per instance.
type Session struct {
	UserID    string    // The user this session belongs to.
	Token     string    // Opaque session secret (JWT for guest, backend token otherwise).
	ExpiresAt time.Time // When the session stops being valid.
	CreatedAt time.Time // When the session was established.
}
