// Package service defines the contracts the application layer depends on.
// Concrete implementations live in the infra layer.
package service

import (
	"context"

	"yougotthis/internal/domain/entity"
)

// Mode identifies which backend substrate serves auth and data calls.
type Mode string

const (
	ModeLocal    Mode = "local"
	ModeAppwrite Mode = "appwrite"
	ModeSupabase Mode = "supabase"
)

// CreateAccountInput carries the fields required to register a new account.
type CreateAccountInput struct {
	Email    string
	Password string
	Name     string
}

// LoginInput carries the credentials for establishing a session.
type LoginInput struct {
	Email    string
	Password string
}

// AuthProvider is the uniform authentication contract implemented by the
// guest, Appwrite and Supabase variants.
//
// CurrentUser and Logout are probe/cleanup operations: backend failures are
// swallowed (logged, not surfaced) so callers can use them as soft existence
// checks and unconditional cleanup steps. Mutating operations surface errors.
type AuthProvider interface {
	// CreateAccount registers a new identity. The guest variant treats this
	// as no-op identity creation without credential verification.
	CreateAccount(ctx context.Context, input CreateAccountInput) (*entity.User, error)

	// Login establishes a session. Any existing session is terminated first,
	// so at most one session is live per provider instance. Empty email or
	// password fails with ErrMissingCredentials before any backend call.
	Login(ctx context.Context, input LoginInput) (*entity.Session, error)

	// CurrentUser reports the authenticated identity, or nil when there is
	// none. It never returns an error for backend failures.
	CurrentUser(ctx context.Context) (*entity.User, error)

	// Logout terminates all sessions for the current identity, best effort.
	// The provider is left unauthenticated even when the backend call fails.
	Logout(ctx context.Context) error

	// GoogleAuthURL returns the OAuth2 redirect URL that starts a Google
	// sign-in flow. The guest variant fails with ErrGuestUnsupported.
	GoogleAuthURL(ctx context.Context, successURL, failureURL string) (string, error)
}

// DataProvider is the uniform data-access contract implemented by the guest,
// Appwrite and Supabase variants. All variants normalize return shapes
// identically: the same field names and the same {Documents, Total} list
// envelope, so callers stay backend-agnostic.
type DataProvider interface {
	// UserInformation returns the record stored under the given section for
	// the user, or nil (not an error) when nothing was ever saved there.
	UserInformation(ctx context.Context, section entity.Section, userID string) (entity.Fields, error)

	// CreateProfile upserts the user's profile by identity ID.
	CreateProfile(ctx context.Context, userID string, profile *entity.Profile) (*entity.Profile, error)

	// UpdateProfile merges the given partial fields into the stored profile,
	// leaving unspecified fields untouched.
	UpdateProfile(ctx context.Context, userID string, fields entity.Fields) (*entity.Profile, error)

	// SaveGoals upserts the goal set for the given period.
	SaveGoals(ctx context.Context, userID string, period entity.GoalPeriod, goals *entity.GoalSet) error

	// ResetWeeklyGoals zeroes the accumulated fields of the weekly goal set.
	ResetWeeklyGoals(ctx context.Context, userID string) error

	// AddWorkout appends one workout log entry.
	AddWorkout(ctx context.Context, userID string, entry *entity.WorkoutEntry) (*entity.WorkoutEntry, error)

	// WorkoutHistory returns all workout entries, most recent date first.
	WorkoutHistory(ctx context.Context, userID string) (*entity.WorkoutList, error)

	// AddWeight appends one weight sample stamped with the current time.
	AddWeight(ctx context.Context, userID string, value float64) (*entity.WeightSample, error)

	// WeightHistory returns all weight samples in insertion order.
	WeightHistory(ctx context.Context, userID string) (*entity.WeightList, error)
}
