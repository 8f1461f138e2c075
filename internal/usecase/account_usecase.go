// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"yougotthis/internal/domain/entity"
	"yougotthis/internal/domain/service"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required to establish a session.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// SessionOutput returns the established session after a successful login.
type SessionOutput struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
	Mode      service.Mode
}

// AccountUsecase defines the account-related business operations. Every
// call is routed to whichever backend the resolver currently selects.
type AccountUsecase interface {
	// Register creates an account on the active backend.
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)

	// Login establishes a session, terminating any existing one first.
	Login(ctx context.Context, input *LoginInput) (*SessionOutput, error)

	// Logout ends the current session. It always leaves the caller in the
	// unauthenticated state, even when the backend call fails.
	Logout(ctx context.Context) error

	// CurrentUser reports the authenticated user, or nil when there is
	// none. It never surfaces backend errors.
	CurrentUser(ctx context.Context) (*entity.User, error)

	// GoogleSignInURL builds the OAuth redirect URL for the active
	// backend. Local mode does not support it.
	GoogleSignInURL(ctx context.Context, successURL, failureURL string) (string, error)

	// SetGuestMode toggles the guest override and reports the resulting mode.
	SetGuestMode(ctx context.Context, enabled bool) service.Mode

	// Mode reports which backend currently serves the contracts.
	Mode() service.Mode
}
