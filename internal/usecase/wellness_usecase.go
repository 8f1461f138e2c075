package usecase

import (
	"context"
	"time"

	"yougotthis/internal/domain/entity"
)

// SaveProfileInput defines the data for a full profile write.
type SaveProfileInput struct {
	Name         string
	Age          int
	Weight       float64
	Height       float64
	FitnessGoals string
}

// WorkoutInput defines the data for one workout log entry.
type WorkoutInput struct {
	Date            time.Time
	WorkoutType     string
	DurationMinutes int
	CaloriesBurned  int
}

// SaveGoalsInput defines the accumulated and target values written to one
// goal period.
type SaveGoalsInput struct {
	CaloriesBurned       int
	TargetCalories       int
	StepsTaken           int
	TargetSteps          int
	WorkoutMinutes       int
	TargetWorkoutMinutes int
}

// WeightAverage is one month's aggregated weight, for charting.
type WeightAverage struct {
	Month   string // formatted as 2006-01
	Average float64
	Samples int
}

// GoalProgress reports one goal set together with completion percentages,
// each clamped to [0, 100].
type GoalProgress struct {
	Goals           *entity.GoalSet
	CaloriesPercent float64
	StepsPercent    float64
	MinutesPercent  float64
}

// DashboardOutput is the aggregate summary the home screen renders.
type DashboardOutput struct {
	Profile       *entity.Profile
	Daily         *GoalProgress
	Weekly        *GoalProgress
	LatestWorkout *entity.WorkoutEntry
	LatestWeight  *entity.WeightSample
}

// WellnessUsecase defines the wellness-tracking business operations.
type WellnessUsecase interface {
	// Profile returns the stored profile, or nil when none exists.
	Profile(ctx context.Context, userID string) (*entity.Profile, error)

	// SaveProfile writes the full profile with upsert semantics.
	SaveProfile(ctx context.Context, userID string, input *SaveProfileInput) (*entity.Profile, error)

	// UpdateProfile merges partial fields into the stored profile.
	UpdateProfile(ctx context.Context, userID string, fields entity.Fields) (*entity.Profile, error)

	// Goals returns the goal set for the period, or nil when none exists.
	// Weekly sets whose stored week start predates the current week are
	// reset before being returned.
	Goals(ctx context.Context, userID string, period entity.GoalPeriod) (*entity.GoalSet, error)

	// SaveGoals writes the goal set for the period with upsert semantics.
	SaveGoals(ctx context.Context, userID string, period entity.GoalPeriod, input *SaveGoalsInput) (*entity.GoalSet, error)

	// AddWorkout appends one workout log entry.
	AddWorkout(ctx context.Context, userID string, input *WorkoutInput) (*entity.WorkoutEntry, error)

	// WorkoutHistory lists the user's workouts, most recent first.
	WorkoutHistory(ctx context.Context, userID string) (*entity.WorkoutList, error)

	// AddWeight appends one weight measurement stamped with the current time.
	AddWeight(ctx context.Context, userID string, value float64) (*entity.WeightSample, error)

	// WeightHistory lists the user's weight measurements, oldest first.
	WeightHistory(ctx context.Context, userID string) (*entity.WeightList, error)

	// MonthlyWeightAverages aggregates the weight history per calendar
	// month, in chronological order.
	MonthlyWeightAverages(ctx context.Context, userID string) ([]*WeightAverage, error)

	// Dashboard assembles the profile, both goal sets with progress
	// percentages, and the most recent workout and weight entries.
	Dashboard(ctx context.Context, userID string) (*DashboardOutput, error)
}
