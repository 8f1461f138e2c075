package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "yougotthis/internal/delivery/context"
	"yougotthis/internal/delivery/http/response"
	"yougotthis/internal/domain/entity"
	"yougotthis/internal/usecase"
)

// WellnessHandler holds dependencies for wellness-tracking handlers.
type WellnessHandler struct {
	uc     usecase.WellnessUsecase
	logger *slog.Logger
}

// NewWellnessHandler is the constructor for WellnessHandler, injected by Fx.
func NewWellnessHandler(uc usecase.WellnessUsecase, logger *slog.Logger) *WellnessHandler {
	return &WellnessHandler{
		uc:     uc,
		logger: logger,
	}
}

// currentUserID reads the user the auth middleware stashed in the context.
func currentUserID(c echo.Context) (string, bool) {
	user, ok := c.Get(deliverycontext.KeyUser).(*entity.User)
	if !ok || user == nil {
		return "", false
	}

	return user.ID, true
}

type profileRequest struct {
	Name         string  `json:"name" validate:"required"`
	Age          int     `json:"age" validate:"gte=0"`
	Weight       float64 `json:"weight" validate:"gte=0"`
	Height       float64 `json:"height" validate:"gte=0"`
	FitnessGoals string  `json:"fitnessGoals"`
}

// GetProfile returns the stored profile.
func (h *WellnessHandler) GetProfile(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	profile, err := h.uc.Profile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}
	if profile == nil {
		return response.NotFound(c, "PROFILE_NOT_FOUND", "No profile stored yet")
	}

	return response.Success(c, http.StatusOK, profile, "")
}

// SaveProfile writes the full profile.
func (h *WellnessHandler) SaveProfile(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.uc.SaveProfile(c.Request().Context(), userID, &usecase.SaveProfileInput{
		Name:         req.Name,
		Age:          req.Age,
		Weight:       req.Weight,
		Height:       req.Height,
		FitnessGoals: req.FitnessGoals,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile saved")
}

// UpdateProfile merges partial fields into the stored profile.
func (h *WellnessHandler) UpdateProfile(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	var fields entity.Fields
	if err := c.Bind(&fields); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile fields")
	}

	profile, err := h.uc.UpdateProfile(c.Request().Context(), userID, fields)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile updated")
}

func parsePeriod(c echo.Context) (entity.GoalPeriod, bool) {
	switch c.Param("period") {
	case string(entity.GoalPeriodDaily):
		return entity.GoalPeriodDaily, true
	case string(entity.GoalPeriodWeekly):
		return entity.GoalPeriodWeekly, true
	default:
		return "", false
	}
}

type goalsRequest struct {
	CaloriesBurned       int `json:"caloriesBurned" validate:"gte=0"`
	TargetCalories       int `json:"targetCalories" validate:"gte=0"`
	StepsTaken           int `json:"stepsTaken" validate:"gte=0"`
	TargetSteps          int `json:"targetSteps" validate:"gte=0"`
	WorkoutMinutes       int `json:"workoutMinutes" validate:"gte=0"`
	TargetWorkoutMinutes int `json:"targetWorkoutMinutes" validate:"gte=0"`
}

// GetGoals returns the goal set of the requested period.
func (h *WellnessHandler) GetGoals(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}
	period, ok := parsePeriod(c)
	if !ok {
		return response.BindingError(c, "INVALID_PERIOD", "Period must be daily or weekly")
	}

	goals, err := h.uc.Goals(c.Request().Context(), userID, period)
	if err != nil {
		return errors.WithStack(err)
	}
	if goals == nil {
		return response.NotFound(c, "GOALS_NOT_FOUND", "No goals stored for this period")
	}

	return response.Success(c, http.StatusOK, goals, "")
}

// SaveGoals writes the goal set of the requested period.
func (h *WellnessHandler) SaveGoals(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}
	period, ok := parsePeriod(c)
	if !ok {
		return response.BindingError(c, "INVALID_PERIOD", "Period must be daily or weekly")
	}

	var req goalsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid goals input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	goals, err := h.uc.SaveGoals(c.Request().Context(), userID, period, &usecase.SaveGoalsInput{
		CaloriesBurned:       req.CaloriesBurned,
		TargetCalories:       req.TargetCalories,
		StepsTaken:           req.StepsTaken,
		TargetSteps:          req.TargetSteps,
		WorkoutMinutes:       req.WorkoutMinutes,
		TargetWorkoutMinutes: req.TargetWorkoutMinutes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, goals, "Goals saved")
}

type workoutRequest struct {
	Date            time.Time `json:"date"`
	WorkoutType     string    `json:"workoutType" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"gte=0"`
	CaloriesBurned  int       `json:"caloriesBurned" validate:"gte=0"`
}

// AddWorkout appends one workout log entry.
func (h *WellnessHandler) AddWorkout(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	var req workoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid workout input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.uc.AddWorkout(c.Request().Context(), userID, &usecase.WorkoutInput{
		Date:            req.Date,
		WorkoutType:     req.WorkoutType,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, entry, "Workout logged")
}

// WorkoutHistory lists workouts most recent first.
func (h *WellnessHandler) WorkoutHistory(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	list, err := h.uc.WorkoutHistory(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, list, "")
}

type weightRequest struct {
	Value float64 `json:"value" validate:"required,gt=0"`
}

// AddWeight appends one weight measurement.
func (h *WellnessHandler) AddWeight(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	var req weightRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid weight input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sample, err := h.uc.AddWeight(c.Request().Context(), userID, req.Value)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, sample, "Weight logged")
}

// WeightHistory lists weight measurements oldest first.
func (h *WellnessHandler) WeightHistory(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	list, err := h.uc.WeightHistory(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, list, "")
}

// MonthlyWeightAverages aggregates weight history per calendar month.
func (h *WellnessHandler) MonthlyWeightAverages(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	averages, err := h.uc.MonthlyWeightAverages(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, averages, "")
}

// Dashboard assembles the home screen summary.
func (h *WellnessHandler) Dashboard(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	summary, err := h.uc.Dashboard(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "")
}
