package local

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yougotthis/config"
	"yougotthis/internal/domain/entity"
	domainerrors "yougotthis/internal/domain/errors"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/infra/auth"
)

func newTestProvider(t *testing.T, dir string) *Provider {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Session = "test-session-secret"

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	provider, err := NewProvider(dir, auth.NewBcryptHasher(), tokens, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Close() })

	return provider
}

func TestLogin_MissingCredentialsFailFast(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())

	tests := []struct {
		name  string
		input service.LoginInput
	}{
		{"missing password", service.LoginInput{Email: "guest@example.com"}},
		{"missing email", service.LoginInput{Password: "secret123"}},
		{"missing both", service.LoginInput{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := provider.Login(context.Background(), tt.input)
			assert.ErrorIs(t, err, domainerrors.ErrMissingCredentials)
		})
	}
}

func TestLogin_FirstLoginCreatesIdentity(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())
	ctx := context.Background()

	session, err := provider.Login(ctx, service.LoginInput{Email: "guest@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.UserID)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	user, err := provider.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, session.UserID, user.ID)
	assert.Equal(t, "guest@example.com", user.Email)
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())
	ctx := context.Background()

	_, err := provider.Login(ctx, service.LoginInput{Email: "guest@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = provider.Login(ctx, service.LoginInput{Email: "guest@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestLogin_ReplacesExistingSession(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())
	ctx := context.Background()

	first, err := provider.Login(ctx, service.LoginInput{Email: "guest@example.com", Password: "secret123"})
	require.NoError(t, err)

	second, err := provider.Login(ctx, service.LoginInput{Email: "guest@example.com", Password: "secret123"})
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)

	provider.sessionMu.Lock()
	live := provider.session
	provider.sessionMu.Unlock()
	assert.Equal(t, second.Token, live.Token)
}

func TestCurrentUser_NilWithoutSession(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())

	user, err := provider.CurrentUser(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestLogout_AlwaysSucceeds(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, provider.Logout(ctx))

	_, err := provider.Login(ctx, service.LoginInput{Email: "guest@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, provider.Logout(ctx))

	user, err := provider.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestGoogleAuthURL_Unsupported(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())

	_, err := provider.GoogleAuthURL(context.Background(), "http://ok", "http://fail")
	assert.ErrorIs(t, err, domainerrors.ErrGuestUnsupported)
}

func TestProfile_RoundTripAndMerge(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())
	ctx := context.Background()
	userID := "user-1"

	fields, err := provider.UserInformation(ctx, entity.SectionProfile, userID)
	require.NoError(t, err)
	assert.Nil(t, fields)

	_, err = provider.CreateProfile(ctx, userID, &entity.Profile{
		Name:         "Riley",
		Age:          31,
		Weight:       70.5,
		Height:       175,
		FitnessGoals: "run a marathon",
	})
	require.NoError(t, err)

	fields, err = provider.UserInformation(ctx, entity.SectionProfile, userID)
	require.NoError(t, err)
	assert.Equal(t, "Riley", fields["name"])

	updated, err := provider.UpdateProfile(ctx, userID, entity.Fields{"weight": 69.0})
	require.NoError(t, err)
	assert.Equal(t, 69.0, updated.Weight)
	assert.Equal(t, "Riley", updated.Name)
	assert.Equal(t, 31, updated.Age)
}

func TestWorkoutHistory_MostRecentFirst(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())
	ctx := context.Background()
	userID := "user-1"

	dates := []string{"2024-01-01", "2024-01-03", "2024-01-02"}
	for _, d := range dates {
		date, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		_, err = provider.AddWorkout(ctx, userID, &entity.WorkoutEntry{
			Date:            date,
			WorkoutType:     "run",
			DurationMinutes: 30,
			CaloriesBurned:  250,
		})
		require.NoError(t, err)
	}

	list, err := provider.WorkoutHistory(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)

	got := make([]string, 0, len(list.Documents))
	for _, entry := range list.Documents {
		got = append(got, entry.Date.Format("2006-01-02"))
	}
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"}, got)
}

func TestResetWeeklyGoals_ZeroesAccumulatedKeepsTargets(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())
	ctx := context.Background()
	userID := "user-1"

	err := provider.SaveGoals(ctx, userID, entity.GoalPeriodWeekly, &entity.GoalSet{
		CaloriesBurned:       1200,
		TargetCalories:       3500,
		StepsTaken:           40000,
		TargetSteps:          70000,
		WorkoutMinutes:       90,
		TargetWorkoutMinutes: 150,
	})
	require.NoError(t, err)

	require.NoError(t, provider.ResetWeeklyGoals(ctx, userID))

	fields, err := provider.UserInformation(ctx, entity.SectionWeeklyGoals, userID)
	require.NoError(t, err)

	goals := &entity.GoalSet{}
	goals.Merge(fields)
	assert.Zero(t, goals.CaloriesBurned)
	assert.Zero(t, goals.StepsTaken)
	assert.Zero(t, goals.WorkoutMinutes)
	assert.Equal(t, 3500, goals.TargetCalories)
	assert.Equal(t, 70000, goals.TargetSteps)
	assert.Equal(t, 150, goals.TargetWorkoutMinutes)
	assert.True(t, goals.WeekStart.Equal(entity.WeekStartOf(time.Now())))
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := newTestProvider(t, dir)
	_, err := first.CreateProfile(ctx, "user-1", &entity.Profile{Name: "Riley"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second := newTestProvider(t, dir)
	fields, err := second.UserInformation(ctx, entity.SectionProfile, "user-1")
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "Riley", fields["name"])
}

func TestGoals_DailyAndWeeklyStoredSeparately(t *testing.T) {
	provider := newTestProvider(t, t.TempDir())
	ctx := context.Background()
	userID := "user-1"

	require.NoError(t, provider.SaveGoals(ctx, userID, entity.GoalPeriodDaily, &entity.GoalSet{TargetSteps: 10000}))
	require.NoError(t, provider.SaveGoals(ctx, userID, entity.GoalPeriodWeekly, &entity.GoalSet{TargetSteps: 70000}))

	daily, err := provider.UserInformation(ctx, entity.SectionDailyGoals, userID)
	require.NoError(t, err)
	weekly, err := provider.UserInformation(ctx, entity.SectionWeeklyGoals, userID)
	require.NoError(t, err)

	dailyGoals := &entity.GoalSet{}
	dailyGoals.Merge(daily)
	weeklyGoals := &entity.GoalSet{}
	weeklyGoals.Merge(weekly)

	assert.Equal(t, 10000, dailyGoals.TargetSteps)
	assert.Equal(t, 70000, weeklyGoals.TargetSteps)
}

// stubTokenService lets tests flip session tokens between valid and
// rejected without waiting out a real expiry.
type stubTokenService struct {
	rejected bool
}

func (s *stubTokenService) GenerateSessionToken(userID string) (string, error) {
	return "token-" + userID, nil
}

func (s *stubTokenService) ValidateSessionToken(token string) (string, error) {
	if s.rejected {
		return "", errors.New("session token expired")
	}

	return strings.TrimPrefix(token, "token-"), nil
}

func (s *stubTokenService) SessionTTL() time.Duration {
	return time.Hour
}

func TestCurrentUser_RejectedTokenEndsSession(t *testing.T) {
	tokens := &stubTokenService{}
	provider, err := NewProvider(t.TempDir(), auth.NewBcryptHasher(), tokens, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Close() })

	ctx := context.Background()
	_, err = provider.Login(ctx, service.LoginInput{Email: "guest@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := provider.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)

	tokens.rejected = true

	user, err = provider.CurrentUser(ctx)
	assert.NoError(t, err)
	assert.Nil(t, user)
}
