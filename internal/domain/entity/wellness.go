package entity

import (
	"sort"
	"time"
)

// Section selects a per-user sub-resource inside a provider's data store.
type Section string

const (
	SectionProfile     Section = "profile"
	SectionDailyGoals  Section = "dailygoals"
	SectionWeeklyGoals Section = "weeklygoals"
)

// GoalPeriod distinguishes the two goal sets a user tracks.
type GoalPeriod string

const (
	GoalPeriodDaily  GoalPeriod = "daily"
	GoalPeriodWeekly GoalPeriod = "weekly"
)

// Section maps a goal period to the data section it is stored under.
func (p GoalPeriod) Section() Section {
	if p == GoalPeriodWeekly {
		return SectionWeeklyGoals
	}

	return SectionDailyGoals
}

// Fields is the normalized record shape shared by all providers. Every
// provider returns the same field names regardless of its native storage
// model, so callers stay backend-agnostic.
type Fields map[string]any

// Profile holds the user's wellness profile, keyed by user ID and
// mutated in place with upsert semantics.
type Profile struct {
	UserID       string
	Name         string
	Age          int
	Weight       float64
	Height       float64
	FitnessGoals string
	UpdatedAt    time.Time
}

// Fields returns the normalized record representation of the profile.
func (p *Profile) Fields() Fields {
	return Fields{
		"name":         p.Name,
		"age":          p.Age,
		"weight":       p.Weight,
		"height":       p.Height,
		"fitnessGoals": p.FitnessGoals,
	}
}

// Merge applies the given partial fields, leaving absent fields untouched.
func (p *Profile) Merge(fields Fields) {
	if v, ok := fields["name"].(string); ok {
		p.Name = v
	}
	if v, ok := toInt(fields["age"]); ok {
		p.Age = v
	}
	if v, ok := toFloat(fields["weight"]); ok {
		p.Weight = v
	}
	if v, ok := toFloat(fields["height"]); ok {
		p.Height = v
	}
	if v, ok := fields["fitnessGoals"].(string); ok {
		p.FitnessGoals = v
	}
}

// WorkoutEntry is one append-only workout log record owned by a user.
type WorkoutEntry struct {
	ID              string
	UserID          string
	Date            time.Time
	WorkoutType     string
	DurationMinutes int
	CaloriesBurned  int
	CreatedAt       time.Time
}

// WorkoutList is the uniform list envelope for workout history queries.
type WorkoutList struct {
	Documents []*WorkoutEntry
	Total     int
}

// SortByDateDesc orders the entries most recent first.
func (l *WorkoutList) SortByDateDesc() {
	sort.SliceStable(l.Documents, func(i, j int) bool {
		return l.Documents[i].Date.After(l.Documents[j].Date)
	})
}

// WeightSample is one append-only weight measurement owned by a user.
type WeightSample struct {
	ID        string
	UserID    string
	Value     float64
	Timestamp time.Time
}

// WeightList is the uniform list envelope for weight history queries.
type WeightList struct {
	Documents []*WeightSample
	Total     int
}

// GoalSet holds the accumulated and target values for one goal period.
// Weekly sets never carry accumulated values past a week boundary.
type GoalSet struct {
	UserID               string
	Period               GoalPeriod
	CaloriesBurned       int
	TargetCalories       int
	StepsTaken           int
	TargetSteps          int
	WorkoutMinutes       int
	TargetWorkoutMinutes int
	WeekStart            time.Time // Start of the ISO week the set accumulates within (weekly only).
	UpdatedAt            time.Time
}

// ResetAccumulated zeroes the accumulated fields while keeping targets.
func (g *GoalSet) ResetAccumulated() {
	g.CaloriesBurned = 0
	g.StepsTaken = 0
	g.WorkoutMinutes = 0
}

// Fields returns the normalized record representation of the goal set.
func (g *GoalSet) Fields() Fields {
	fields := Fields{
		"caloriesBurned":       g.CaloriesBurned,
		"targetCalories":       g.TargetCalories,
		"stepsTaken":           g.StepsTaken,
		"targetSteps":          g.TargetSteps,
		"workoutMinutes":       g.WorkoutMinutes,
		"targetWorkoutMinutes": g.TargetWorkoutMinutes,
	}
	if !g.WeekStart.IsZero() {
		fields["weekStart"] = g.WeekStart.UTC().Format(time.RFC3339)
	}

	return fields
}

// Merge applies the given partial fields, leaving absent fields untouched.
func (g *GoalSet) Merge(fields Fields) {
	if v, ok := toInt(fields["caloriesBurned"]); ok {
		g.CaloriesBurned = v
	}
	if v, ok := toInt(fields["targetCalories"]); ok {
		g.TargetCalories = v
	}
	if v, ok := toInt(fields["stepsTaken"]); ok {
		g.StepsTaken = v
	}
	if v, ok := toInt(fields["targetSteps"]); ok {
		g.TargetSteps = v
	}
	if v, ok := toInt(fields["workoutMinutes"]); ok {
		g.WorkoutMinutes = v
	}
	if v, ok := toInt(fields["targetWorkoutMinutes"]); ok {
		g.TargetWorkoutMinutes = v
	}
	if v, ok := fields["weekStart"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			g.WeekStart = parsed
		}
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// WeekStartOf returns the Monday 00:00 UTC boundary of the week containing t.
// Weekly goal accumulations are scoped to this boundary.
func WeekStartOf(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	return start.AddDate(0, 0, -(weekday - 1))
}
