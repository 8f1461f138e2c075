package impl

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yougotthis/config"
	"yougotthis/internal/domain/entity"
	"yougotthis/internal/infra/auth"
	"yougotthis/internal/infra/backend"
	"yougotthis/internal/usecase"
)

func newTestWellnessService(t *testing.T) *wellnessService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Session = "test-session-secret"
	cfg.Backend = &config.BackendConfig{
		Local: &config.LocalConfig{Path: t.TempDir()},
	}

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	resolver, err := backend.NewResolver(backend.ResolverParams{
		Config: cfg,
		Logger: slog.Default(),
		Hasher: auth.NewBcryptHasher(),
		Tokens: tokens,
	})
	require.NoError(t, err)

	srv, ok := NewWellnessService(WellnessServiceParams{
		Resolver: resolver,
		Logger:   slog.Default(),
	}).(*wellnessService)
	require.True(t, ok)

	return srv
}

func TestGoals_WeeklyRolloverResetsAccumulated(t *testing.T) {
	srv := newTestWellnessService(t)
	ctx := context.Background()
	userID := "user-1"

	// Save weekly goals as if two weeks in the past.
	srv.now = func() time.Time { return time.Now().AddDate(0, 0, -14) }
	_, err := srv.SaveGoals(ctx, userID, entity.GoalPeriodWeekly, &usecase.SaveGoalsInput{
		CaloriesBurned:       1200,
		TargetCalories:       3500,
		StepsTaken:           40000,
		TargetSteps:          70000,
		WorkoutMinutes:       90,
		TargetWorkoutMinutes: 150,
	})
	require.NoError(t, err)

	srv.now = time.Now
	goals, err := srv.Goals(ctx, userID, entity.GoalPeriodWeekly)
	require.NoError(t, err)
	require.NotNil(t, goals)

	assert.Zero(t, goals.CaloriesBurned)
	assert.Zero(t, goals.StepsTaken)
	assert.Zero(t, goals.WorkoutMinutes)
	assert.Equal(t, 3500, goals.TargetCalories)
	assert.Equal(t, 70000, goals.TargetSteps)
	assert.Equal(t, 150, goals.TargetWorkoutMinutes)
	assert.True(t, goals.WeekStart.Equal(entity.WeekStartOf(time.Now())))
}

func TestGoals_SameWeekKeepsAccumulated(t *testing.T) {
	srv := newTestWellnessService(t)
	ctx := context.Background()
	userID := "user-1"

	_, err := srv.SaveGoals(ctx, userID, entity.GoalPeriodWeekly, &usecase.SaveGoalsInput{
		CaloriesBurned: 800,
		TargetCalories: 3500,
	})
	require.NoError(t, err)

	goals, err := srv.Goals(ctx, userID, entity.GoalPeriodWeekly)
	require.NoError(t, err)
	require.NotNil(t, goals)
	assert.Equal(t, 800, goals.CaloriesBurned)
}

func TestGoals_NilWhenNoneStored(t *testing.T) {
	srv := newTestWellnessService(t)

	goals, err := srv.Goals(context.Background(), "user-1", entity.GoalPeriodDaily)
	assert.NoError(t, err)
	assert.Nil(t, goals)
}

func TestMonthlyAverages_GroupsByCalendarMonth(t *testing.T) {
	history := &entity.WeightList{
		Documents: []*entity.WeightSample{
			{Value: 72, Timestamp: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
			{Value: 70, Timestamp: time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)},
			{Value: 69, Timestamp: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)},
			{Value: 68, Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
		Total: 4,
	}

	averages := monthlyAverages(history)
	require.Len(t, averages, 3)

	assert.Equal(t, "2024-01", averages[0].Month)
	assert.InDelta(t, 71.0, averages[0].Average, 0.001)
	assert.Equal(t, 2, averages[0].Samples)

	assert.Equal(t, "2024-02", averages[1].Month)
	assert.InDelta(t, 69.0, averages[1].Average, 0.001)

	assert.Equal(t, "2024-03", averages[2].Month)
	assert.InDelta(t, 68.0, averages[2].Average, 0.001)
}

func TestMonthlyAverages_EmptyHistory(t *testing.T) {
	averages := monthlyAverages(&entity.WeightList{})
	assert.Empty(t, averages)
}

func TestDashboard_AggregatesLatestEntries(t *testing.T) {
	srv := newTestWellnessService(t)
	ctx := context.Background()
	userID := "user-1"

	_, err := srv.SaveProfile(ctx, userID, &usecase.SaveProfileInput{Name: "Riley", Age: 31})
	require.NoError(t, err)

	_, err = srv.SaveGoals(ctx, userID, entity.GoalPeriodDaily, &usecase.SaveGoalsInput{
		CaloriesBurned: 250,
		TargetCalories: 500,
		StepsTaken:     12000,
		TargetSteps:    10000,
	})
	require.NoError(t, err)

	older := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	for _, date := range []time.Time{older, newer} {
		_, err = srv.AddWorkout(ctx, userID, &usecase.WorkoutInput{
			Date:            date,
			WorkoutType:     "run",
			DurationMinutes: 30,
		})
		require.NoError(t, err)
	}

	_, err = srv.AddWeight(ctx, userID, 70.5)
	require.NoError(t, err)

	summary, err := srv.Dashboard(ctx, userID)
	require.NoError(t, err)

	require.NotNil(t, summary.Profile)
	assert.Equal(t, "Riley", summary.Profile.Name)

	require.NotNil(t, summary.Daily)
	assert.InDelta(t, 50.0, summary.Daily.CaloriesPercent, 0.001)
	// Steps exceed the target and are clamped.
	assert.InDelta(t, 100.0, summary.Daily.StepsPercent, 0.001)

	assert.Nil(t, summary.Weekly)

	require.NotNil(t, summary.LatestWorkout)
	assert.True(t, summary.LatestWorkout.Date.Equal(newer))

	require.NotNil(t, summary.LatestWeight)
	assert.InDelta(t, 70.5, summary.LatestWeight.Value, 0.001)
}

func TestPercent_Clamping(t *testing.T) {
	tests := []struct {
		name   string
		value  int
		target int
		want   float64
	}{
		{"zero target", 100, 0, 0},
		{"negative target", 100, -5, 0},
		{"halfway", 50, 100, 50},
		{"complete", 100, 100, 100},
		{"over target clamps", 150, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percent(tt.value, tt.target), 0.001)
		})
	}
}
