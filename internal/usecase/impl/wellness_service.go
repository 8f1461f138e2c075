package impl

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.uber.org/fx"

	deliverycontext "yougotthis/internal/delivery/context"
	"yougotthis/internal/domain/entity"
	"yougotthis/internal/infra/backend"
	"yougotthis/internal/usecase"
)

// wellnessService implements the WellnessUsecase interface.
type wellnessService struct {
	resolver *backend.Resolver
	logger   *slog.Logger
	now      func() time.Time
}

// WellnessServiceParams holds dependencies for WellnessService, injected by Fx.
type WellnessServiceParams struct {
	fx.In

	Resolver *backend.Resolver
	Logger   *slog.Logger
}

// NewWellnessService is the constructor for wellnessService.
func NewWellnessService(params WellnessServiceParams) usecase.WellnessUsecase {
	return &wellnessService{
		resolver: params.Resolver,
		logger:   params.Logger,
		now:      time.Now,
	}
}

func (srv *wellnessService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *wellnessService) Profile(ctx context.Context, userID string) (*entity.Profile, error) {
	fields, err := srv.resolver.Data().UserInformation(ctx, entity.SectionProfile, userID)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	profile := &entity.Profile{UserID: userID}
	profile.Merge(fields)

	return profile, nil
}

func (srv *wellnessService) SaveProfile(ctx context.Context, userID string, input *usecase.SaveProfileInput) (*entity.Profile, error) {
	profile := &entity.Profile{
		UserID:       userID,
		Name:         input.Name,
		Age:          input.Age,
		Weight:       input.Weight,
		Height:       input.Height,
		FitnessGoals: input.FitnessGoals,
	}

	return srv.resolver.Data().CreateProfile(ctx, userID, profile)
}

func (srv *wellnessService) UpdateProfile(ctx context.Context, userID string, fields entity.Fields) (*entity.Profile, error) {
	return srv.resolver.Data().UpdateProfile(ctx, userID, fields)
}

// Goals applies the week-rollover rule on read: a weekly set stored under a
// previous week is reset before it is returned, so accumulated values never
// leak across the Monday boundary.
func (srv *wellnessService) Goals(ctx context.Context, userID string, period entity.GoalPeriod) (*entity.GoalSet, error) {
	data := srv.resolver.Data()

	fields, err := data.UserInformation(ctx, period.Section(), userID)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	goals := &entity.GoalSet{UserID: userID, Period: period}
	goals.Merge(fields)

	if period == entity.GoalPeriodWeekly {
		currentWeek := entity.WeekStartOf(srv.now())
		if goals.WeekStart.Before(currentWeek) {
			srv.log(ctx).Info("Weekly goals rolled over",
				slog.String("user_id", userID),
				slog.Time("stored_week", goals.WeekStart),
				slog.Time("current_week", currentWeek),
			)

			if err := data.ResetWeeklyGoals(ctx, userID); err != nil {
				return nil, err
			}
			goals.ResetAccumulated()
			goals.WeekStart = currentWeek
		}
	}

	return goals, nil
}

func (srv *wellnessService) SaveGoals(ctx context.Context, userID string, period entity.GoalPeriod, input *usecase.SaveGoalsInput) (*entity.GoalSet, error) {
	goals := &entity.GoalSet{
		UserID:               userID,
		Period:               period,
		CaloriesBurned:       input.CaloriesBurned,
		TargetCalories:       input.TargetCalories,
		StepsTaken:           input.StepsTaken,
		TargetSteps:          input.TargetSteps,
		WorkoutMinutes:       input.WorkoutMinutes,
		TargetWorkoutMinutes: input.TargetWorkoutMinutes,
	}
	if period == entity.GoalPeriodWeekly {
		goals.WeekStart = entity.WeekStartOf(srv.now())
	}

	if err := srv.resolver.Data().SaveGoals(ctx, userID, period, goals); err != nil {
		return nil, err
	}

	return goals, nil
}

func (srv *wellnessService) AddWorkout(ctx context.Context, userID string, input *usecase.WorkoutInput) (*entity.WorkoutEntry, error) {
	entry := &entity.WorkoutEntry{
		UserID:          userID,
		Date:            input.Date,
		WorkoutType:     input.WorkoutType,
		DurationMinutes: input.DurationMinutes,
		CaloriesBurned:  input.CaloriesBurned,
	}
	if entry.Date.IsZero() {
		entry.Date = srv.now().UTC()
	}

	return srv.resolver.Data().AddWorkout(ctx, userID, entry)
}

func (srv *wellnessService) WorkoutHistory(ctx context.Context, userID string) (*entity.WorkoutList, error) {
	return srv.resolver.Data().WorkoutHistory(ctx, userID)
}

func (srv *wellnessService) AddWeight(ctx context.Context, userID string, value float64) (*entity.WeightSample, error) {
	return srv.resolver.Data().AddWeight(ctx, userID, value)
}

func (srv *wellnessService) WeightHistory(ctx context.Context, userID string) (*entity.WeightList, error) {
	return srv.resolver.Data().WeightHistory(ctx, userID)
}

func (srv *wellnessService) MonthlyWeightAverages(ctx context.Context, userID string) ([]*usecase.WeightAverage, error) {
	history, err := srv.resolver.Data().WeightHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	return monthlyAverages(history), nil
}

// monthlyAverages groups a weight history by calendar month, in
// chronological order.
func monthlyAverages(history *entity.WeightList) []*usecase.WeightAverage {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, sample := range history.Documents {
		month := sample.Timestamp.UTC().Format("2006-01")
		sums[month] += sample.Value
		counts[month]++
	}

	months := make([]string, 0, len(sums))
	for month := range sums {
		months = append(months, month)
	}
	sort.Strings(months)

	averages := make([]*usecase.WeightAverage, 0, len(months))
	for _, month := range months {
		averages = append(averages, &usecase.WeightAverage{
			Month:   month,
			Average: sums[month] / float64(counts[month]),
			Samples: counts[month],
		})
	}

	return averages
}

func (srv *wellnessService) Dashboard(ctx context.Context, userID string) (*usecase.DashboardOutput, error) {
	profile, err := srv.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	daily, err := srv.Goals(ctx, userID, entity.GoalPeriodDaily)
	if err != nil {
		return nil, err
	}
	weekly, err := srv.Goals(ctx, userID, entity.GoalPeriodWeekly)
	if err != nil {
		return nil, err
	}

	workouts, err := srv.WorkoutHistory(ctx, userID)
	if err != nil {
		return nil, err
	}
	weights, err := srv.WeightHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	output := &usecase.DashboardOutput{
		Profile: profile,
		Daily:   goalProgress(daily),
		Weekly:  goalProgress(weekly),
	}
	if len(workouts.Documents) > 0 {
		output.LatestWorkout = workouts.Documents[0]
	}
	if len(weights.Documents) > 0 {
		output.LatestWeight = weights.Documents[len(weights.Documents)-1]
	}

	return output, nil
}

func goalProgress(goals *entity.GoalSet) *usecase.GoalProgress {
	if goals == nil {
		return nil
	}

	return &usecase.GoalProgress{
		Goals:           goals,
		CaloriesPercent: percent(goals.CaloriesBurned, goals.TargetCalories),
		StepsPercent:    percent(goals.StepsTaken, goals.TargetSteps),
		MinutesPercent:  percent(goals.WorkoutMinutes, goals.TargetWorkoutMinutes),
	}
}

func percent(value, target int) float64 {
	if target <= 0 {
		return 0
	}

	p := float64(value) / float64(target) * 100
	if p > 100 {
		return 100
	}

	return p
}
