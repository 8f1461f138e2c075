// Package supabase implements the auth and data contracts against a
// Supabase project: gotrue for email+password and OAuth sign-in, postgrest
// for the row model (upsert-by-id, filtered selects, counted lists).
package supabase

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"yougotthis/config"
	"yougotthis/internal/domain/entity"
	domainerrors "yougotthis/internal/domain/errors"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/errors"
)

// Provider implements the AuthProvider and DataProvider contracts against
// one Supabase project.
type Provider struct {
	client *supabase.Client
	cfg    *config.SupabaseConfig
	logger *slog.Logger

	// authed is the token-bound auth client of the live session, nil when
	// logged out. Guarded so login/logout sequences never stack sessions.
	mu     sync.Mutex
	authed gotrue.Client
}

// NewProvider builds a Supabase-backed provider from configuration.
func NewProvider(cfg *config.SupabaseConfig, logger *slog.Logger) (*Provider, error) {
	client, err := supabase.NewClient(cfg.URL, cfg.AnonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create supabase client")
	}

	applyTableDefaults(cfg)

	return &Provider{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// applyTableDefaults fills in the conventional table names when the
// configuration only carries the project credentials.
func applyTableDefaults(cfg *config.SupabaseConfig) {
	if cfg.ProfileTable == "" {
		cfg.ProfileTable = "profiles"
	}
	if cfg.GoalsTable == "" {
		cfg.GoalsTable = "goals"
	}
	if cfg.WorkoutTable == "" {
		cfg.WorkoutTable = "workouts"
	}
	if cfg.WeightTable == "" {
		cfg.WeightTable = "weights"
	}
}

// Row shapes for the postgrest tables.

type profileRow struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Age          int     `json:"age"`
	Weight       float64 `json:"weight"`
	Height       float64 `json:"height"`
	FitnessGoals string  `json:"fitness_goals"`
}

type goalsRow struct {
	UserID               string `json:"user_id"`
	Period               string `json:"period"`
	CaloriesBurned       int    `json:"calories_burned"`
	TargetCalories       int    `json:"target_calories"`
	StepsTaken           int    `json:"steps_taken"`
	TargetSteps          int    `json:"target_steps"`
	WorkoutMinutes       int    `json:"workout_minutes"`
	TargetWorkoutMinutes int    `json:"target_workout_minutes"`
	WeekStart            string `json:"week_start"`
}

type workoutRow struct {
	ID              string `json:"id,omitempty"`
	UserID          string `json:"user_id"`
	Date            string `json:"date"`
	WorkoutType     string `json:"workout_type"`
	DurationMinutes int    `json:"duration_minutes"`
	CaloriesBurned  int    `json:"calories_burned"`
}

type weightRow struct {
	ID        string  `json:"id,omitempty"`
	UserID    string  `json:"user_id"`
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"`
}

// --- AuthProvider ---

func (p *Provider) CreateAccount(ctx context.Context, input service.CreateAccountInput) (*entity.User, error) {
	resp, err := p.client.Auth.Signup(types.SignupRequest{
		Email:    input.Email,
		Password: input.Password,
		Data:     map[string]any{"name": input.Name},
	})
	if err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to sign up supabase account")
	}

	return &entity.User{
		ID:        resp.ID.String(),
		Email:     resp.Email,
		Name:      input.Name,
		CreatedAt: resp.CreatedAt,
	}, nil
}

func (p *Provider) Login(_ context.Context, input service.LoginInput) (*entity.Session, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingCredentials.WrapMessage("supabase login requires email and password")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Terminate any existing session before establishing a new one.
	if p.authed != nil {
		if err := p.authed.Logout(); err != nil {
			p.logger.Debug("Failed to end existing supabase session", slog.Any("error", err))
		}
		p.resetSessionLocked()
	}

	resp, err := p.client.Auth.Token(types.TokenRequest{
		GrantType: "password",
		Email:     input.Email,
		Password:  input.Password,
	})
	if err != nil {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("supabase rejected the credentials")
	}

	// Bind the session to the whole client so the postgrest row operations
	// run as the signed-in user rather than the anon role.
	p.client.UpdateAuthSession(resp.Session)
	p.authed = p.client.Auth

	now := time.Now().UTC()

	return &entity.Session{
		UserID:    resp.User.ID.String(),
		Token:     resp.AccessToken,
		ExpiresAt: now.Add(time.Duration(resp.ExpiresIn) * time.Second),
		CreatedAt: now,
	}, nil
}

func (p *Provider) CurrentUser(_ context.Context) (*entity.User, error) {
	p.mu.Lock()
	authed := p.authed
	p.mu.Unlock()

	if authed == nil {
		return nil, nil
	}

	resp, err := authed.GetUser()
	if err != nil {
		// Probe operation: backend failures are reported as "no current user".
		p.logger.Debug("Supabase user probe failed", slog.Any("error", err))

		return nil, nil
	}

	name, _ := resp.UserMetadata["name"].(string)

	return &entity.User{
		ID:        resp.ID.String(),
		Email:     resp.Email,
		Name:      name,
		CreatedAt: resp.CreatedAt,
	}, nil
}

func (p *Provider) Logout(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.authed != nil {
		if err := p.authed.Logout(); err != nil {
			// Best effort: the UI must always reach the unauthenticated state.
			p.logger.Warn("Failed to end supabase session", slog.Any("error", err))
		}
	}
	p.resetSessionLocked()

	return nil
}

// resetSessionLocked drops the user session and rebinds the client to the
// anon key. Callers must hold p.mu.
func (p *Provider) resetSessionLocked() {
	p.authed = nil
	p.client.UpdateAuthSession(types.Session{AccessToken: p.cfg.AnonKey})
}

func (p *Provider) GoogleAuthURL(_ context.Context, successURL, _ string) (string, error) {
	resp, err := p.client.Auth.Authorize(types.AuthorizeRequest{
		Provider: types.ProviderGoogle,
	})
	if err != nil {
		return "", domainerrors.NewBackendExecuteError(err, "failed to build supabase authorize URL")
	}

	authURL := resp.AuthorizationURL
	if successURL != "" {
		separator := "?"
		if u, parseErr := url.Parse(authURL); parseErr == nil && u.RawQuery != "" {
			separator = "&"
		}
		authURL += separator + "redirect_to=" + url.QueryEscape(successURL)
	}

	return authURL, nil
}

// --- DataProvider ---

func (p *Provider) UserInformation(ctx context.Context, section entity.Section, userID string) (entity.Fields, error) {
	switch section {
	case entity.SectionDailyGoals, entity.SectionWeeklyGoals:
		row, err := p.findGoals(section, userID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}

		return row.toGoalSet().Fields(), nil

	default:
		row, err := p.findProfile(userID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}

		return row.toProfile().Fields(), nil
	}
}

func (p *Provider) CreateProfile(_ context.Context, userID string, profile *entity.Profile) (*entity.Profile, error) {
	profile.UserID = userID
	row := profileRow{
		UserID:       userID,
		Name:         profile.Name,
		Age:          profile.Age,
		Weight:       profile.Weight,
		Height:       profile.Height,
		FitnessGoals: profile.FitnessGoals,
	}

	var saved []profileRow
	if _, err := p.client.From(p.cfg.ProfileTable).
		Upsert(row, "user_id", "representation", "exact").
		ExecuteTo(&saved); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to upsert supabase profile")
	}
	profile.UpdatedAt = time.Now().UTC()

	return profile, nil
}

func (p *Provider) UpdateProfile(ctx context.Context, userID string, fields entity.Fields) (*entity.Profile, error) {
	row, err := p.findProfile(userID)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{UserID: userID}
	if row != nil {
		profile = row.toProfile()
	}
	profile.Merge(fields)

	return p.CreateProfile(ctx, userID, profile)
}

func (p *Provider) SaveGoals(_ context.Context, userID string, period entity.GoalPeriod, goals *entity.GoalSet) error {
	goals.UserID = userID
	goals.Period = period
	if period == entity.GoalPeriodWeekly && goals.WeekStart.IsZero() {
		goals.WeekStart = entity.WeekStartOf(time.Now())
	}

	row := goalsRow{
		UserID:               userID,
		Period:               string(period),
		CaloriesBurned:       goals.CaloriesBurned,
		TargetCalories:       goals.TargetCalories,
		StepsTaken:           goals.StepsTaken,
		TargetSteps:          goals.TargetSteps,
		WorkoutMinutes:       goals.WorkoutMinutes,
		TargetWorkoutMinutes: goals.TargetWorkoutMinutes,
	}
	if period == entity.GoalPeriodWeekly {
		row.WeekStart = goals.WeekStart.Format(time.RFC3339)
	}

	var saved []goalsRow
	if _, err := p.client.From(p.cfg.GoalsTable).
		Upsert(row, "user_id,period", "representation", "exact").
		ExecuteTo(&saved); err != nil {
		return domainerrors.NewBackendExecuteError(err, "failed to upsert supabase goals")
	}

	return nil
}

func (p *Provider) ResetWeeklyGoals(ctx context.Context, userID string) error {
	row, err := p.findGoals(entity.SectionWeeklyGoals, userID)
	if err != nil {
		return err
	}

	goals := &entity.GoalSet{UserID: userID, Period: entity.GoalPeriodWeekly}
	if row != nil {
		goals = row.toGoalSet()
	}
	goals.ResetAccumulated()
	goals.WeekStart = entity.WeekStartOf(time.Now())

	return p.SaveGoals(ctx, userID, entity.GoalPeriodWeekly, goals)
}

func (p *Provider) AddWorkout(_ context.Context, userID string, entry *entity.WorkoutEntry) (*entity.WorkoutEntry, error) {
	entry.UserID = userID
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	row := workoutRow{
		UserID:          userID,
		Date:            entry.Date.Format(time.RFC3339),
		WorkoutType:     entry.WorkoutType,
		DurationMinutes: entry.DurationMinutes,
		CaloriesBurned:  entry.CaloriesBurned,
	}

	var saved []workoutRow
	if _, err := p.client.From(p.cfg.WorkoutTable).
		Insert(row, false, "", "representation", "exact").
		ExecuteTo(&saved); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to insert supabase workout")
	}
	if len(saved) > 0 {
		entry.ID = saved[0].ID
	}
	entry.CreatedAt = time.Now().UTC()

	return entry, nil
}

func (p *Provider) WorkoutHistory(_ context.Context, userID string) (*entity.WorkoutList, error) {
	var rows []workoutRow
	count, err := p.client.From(p.cfg.WorkoutTable).
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("date", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to list supabase workouts")
	}

	list := &entity.WorkoutList{Total: int(count)}
	for i := range rows {
		list.Documents = append(list.Documents, rows[i].toEntry())
	}
	list.SortByDateDesc()

	return list, nil
}

func (p *Provider) AddWeight(_ context.Context, userID string, value float64) (*entity.WeightSample, error) {
	now := time.Now().UTC()
	row := weightRow{
		UserID:    userID,
		Value:     value,
		Timestamp: now.Format(time.RFC3339),
	}

	var saved []weightRow
	if _, err := p.client.From(p.cfg.WeightTable).
		Insert(row, false, "", "representation", "exact").
		ExecuteTo(&saved); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to insert supabase weight sample")
	}

	sample := &entity.WeightSample{UserID: userID, Value: value, Timestamp: now}
	if len(saved) > 0 {
		sample.ID = saved[0].ID
	}

	return sample, nil
}

func (p *Provider) WeightHistory(_ context.Context, userID string) (*entity.WeightList, error) {
	var rows []weightRow
	count, err := p.client.From(p.cfg.WeightTable).
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("timestamp", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to list supabase weight samples")
	}

	list := &entity.WeightList{Total: int(count)}
	for i := range rows {
		list.Documents = append(list.Documents, &entity.WeightSample{
			ID:        rows[i].ID,
			UserID:    rows[i].UserID,
			Value:     rows[i].Value,
			Timestamp: parseTime(rows[i].Timestamp),
		})
	}

	return list, nil
}

// --- helpers ---

func (p *Provider) findProfile(userID string) (*profileRow, error) {
	var rows []profileRow
	if _, err := p.client.From(p.cfg.ProfileTable).
		Select("*", "exact", false).
		Eq("user_id", userID).
		ExecuteTo(&rows); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to select supabase profile")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

func (p *Provider) findGoals(section entity.Section, userID string) (*goalsRow, error) {
	period := entity.GoalPeriodDaily
	if section == entity.SectionWeeklyGoals {
		period = entity.GoalPeriodWeekly
	}

	var rows []goalsRow
	if _, err := p.client.From(p.cfg.GoalsTable).
		Select("*", "exact", false).
		Eq("user_id", userID).
		Eq("period", string(period)).
		ExecuteTo(&rows); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to select supabase goals")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func (r *profileRow) toProfile() *entity.Profile {
	return &entity.Profile{
		UserID:       r.UserID,
		Name:         r.Name,
		Age:          r.Age,
		Weight:       r.Weight,
		Height:       r.Height,
		FitnessGoals: r.FitnessGoals,
	}
}

func (r *goalsRow) toGoalSet() *entity.GoalSet {
	return &entity.GoalSet{
		UserID:               r.UserID,
		Period:               entity.GoalPeriod(r.Period),
		CaloriesBurned:       r.CaloriesBurned,
		TargetCalories:       r.TargetCalories,
		StepsTaken:           r.StepsTaken,
		TargetSteps:          r.TargetSteps,
		WorkoutMinutes:       r.WorkoutMinutes,
		TargetWorkoutMinutes: r.TargetWorkoutMinutes,
		WeekStart:            parseTime(r.WeekStart),
	}
}

func (r *workoutRow) toEntry() *entity.WorkoutEntry {
	return &entity.WorkoutEntry{
		ID:              r.ID,
		UserID:          r.UserID,
		Date:            parseTime(r.Date),
		WorkoutType:     r.WorkoutType,
		DurationMinutes: r.DurationMinutes,
		CaloriesBurned:  r.CaloriesBurned,
	}
}
