package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStartOf(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"monday maps to itself",
			time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"wednesday maps back to monday",
			time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"next monday starts a new week",
			time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, WeekStartOf(tt.in).Equal(tt.want))
		})
	}
}

func TestGoalPeriodSection(t *testing.T) {
	assert.Equal(t, SectionDailyGoals, GoalPeriodDaily.Section())
	assert.Equal(t, SectionWeeklyGoals, GoalPeriodWeekly.Section())
}

func TestWorkoutList_SortByDateDesc(t *testing.T) {
	list := &WorkoutList{
		Documents: []*WorkoutEntry{
			{ID: "a", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{ID: "b", Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
			{ID: "c", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
	}

	list.SortByDateDesc()

	got := []string{list.Documents[0].ID, list.Documents[1].ID, list.Documents[2].ID}
	assert.Equal(t, []string{"b", "c", "a"}, got)
}

func TestGoalSet_FieldsMergeRoundTrip(t *testing.T) {
	weekStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	original := &GoalSet{
		CaloriesBurned:       1200,
		TargetCalories:       3500,
		StepsTaken:           40000,
		TargetSteps:          70000,
		WorkoutMinutes:       90,
		TargetWorkoutMinutes: 150,
		WeekStart:            weekStart,
	}

	restored := &GoalSet{}
	restored.Merge(original.Fields())

	assert.Equal(t, original.CaloriesBurned, restored.CaloriesBurned)
	assert.Equal(t, original.TargetSteps, restored.TargetSteps)
	assert.True(t, restored.WeekStart.Equal(weekStart))
}

func TestProfile_MergeLeavesAbsentFieldsUntouched(t *testing.T) {
	profile := &Profile{Name: "Riley", Age: 31, Weight: 70.5}

	profile.Merge(Fields{"weight": 69.0, "fitnessGoals": "run a marathon"})

	assert.Equal(t, "Riley", profile.Name)
	assert.Equal(t, 31, profile.Age)
	assert.Equal(t, 69.0, profile.Weight)
	assert.Equal(t, "run a marathon", profile.FitnessGoals)
}

func TestGoalSet_ResetAccumulatedKeepsTargets(t *testing.T) {
	goals := &GoalSet{
		CaloriesBurned: 500,
		TargetCalories: 2000,
		StepsTaken:     8000,
		TargetSteps:    10000,
	}

	goals.ResetAccumulated()

	assert.Zero(t, goals.CaloriesBurned)
	assert.Zero(t, goals.StepsTaken)
	assert.Equal(t, 2000, goals.TargetCalories)
	assert.Equal(t, 10000, goals.TargetSteps)
}
