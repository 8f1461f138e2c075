package appwrite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"yougotthis/config"
	"yougotthis/internal/domain/entity"
	domainerrors "yougotthis/internal/domain/errors"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/errors"
)

const listPageSize = 100

// Provider implements the AuthProvider and DataProvider contracts against
// one Appwrite project.
type Provider struct {
	client *client
	cfg    *config.AppwriteConfig
	logger *slog.Logger
}

// NewProvider builds an Appwrite-backed provider from configuration.
func NewProvider(cfg *config.AppwriteConfig, logger *slog.Logger) *Provider {
	return &Provider{
		client: newClient(cfg),
		cfg:    cfg,
		logger: logger,
	}
}

// Wire payloads. Appwrite returns document system fields with a $ prefix
// next to the attribute values.

type accountPayload struct {
	ID        string `json:"$id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"$createdAt"`
}

type sessionPayload struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

type profileDocument struct {
	ID           string  `json:"$id"`
	UserID       string  `json:"userId"`
	Name         string  `json:"name"`
	Age          int     `json:"age"`
	Weight       float64 `json:"weight"`
	Height       float64 `json:"height"`
	FitnessGoals string  `json:"fitnessGoals"`
}

type goalsDocument struct {
	ID                   string `json:"$id"`
	UserID               string `json:"userId"`
	Period               string `json:"period"`
	CaloriesBurned       int    `json:"caloriesBurned"`
	TargetCalories       int    `json:"targetCalories"`
	StepsTaken           int    `json:"stepsTaken"`
	TargetSteps          int    `json:"targetSteps"`
	WorkoutMinutes       int    `json:"workoutMinutes"`
	TargetWorkoutMinutes int    `json:"targetWorkoutMinutes"`
	WeekStart            string `json:"weekStart"`
}

type workoutDocument struct {
	ID              string `json:"$id"`
	UserID          string `json:"userId"`
	Date            string `json:"date"`
	WorkoutType     string `json:"workoutType"`
	DurationMinutes int    `json:"durationMinutes"`
	CaloriesBurned  int    `json:"caloriesBurned"`
	CreatedAt       string `json:"$createdAt"`
}

type weightDocument struct {
	ID        string  `json:"$id"`
	UserID    string  `json:"userId"`
	Value     float64 `json:"value"`
	Timestamp string  `json:"timestamp"`
}

type profileList struct {
	Total     int               `json:"total"`
	Documents []profileDocument `json:"documents"`
}

type goalsList struct {
	Total     int             `json:"total"`
	Documents []goalsDocument `json:"documents"`
}

type workoutDocumentList struct {
	Total     int               `json:"total"`
	Documents []workoutDocument `json:"documents"`
}

type weightDocumentList struct {
	Total     int              `json:"total"`
	Documents []weightDocument `json:"documents"`
}

// --- AuthProvider ---

func (p *Provider) CreateAccount(ctx context.Context, input service.CreateAccountInput) (*entity.User, error) {
	body := map[string]any{
		"userId":   uuid.New().String(),
		"email":    input.Email,
		"password": input.Password,
		"name":     input.Name,
	}

	account := &accountPayload{}
	if err := p.client.do(ctx, http.MethodPost, "/account", nil, body, account); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return nil, domainerrors.ErrAccountAlreadyExists.WrapMessage("appwrite account conflict")
		}

		return nil, domainerrors.NewBackendExecuteError(err, "failed to create appwrite account")
	}

	return account.toUser(), nil
}

func (p *Provider) Login(ctx context.Context, input service.LoginInput) (*entity.Session, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingCredentials.WrapMessage("appwrite login requires email and password")
	}

	// Terminate any existing session before establishing a new one so the
	// backend never accumulates stacked sessions for this client.
	if p.client.currentSession() != "" {
		if err := p.client.do(ctx, http.MethodDelete, "/account/sessions", nil, nil, nil); err != nil {
			p.logger.Debug("Failed to delete existing appwrite sessions", slog.Any("error", err))
		}
		p.client.setSession("")
	}

	session := &sessionPayload{}
	body := map[string]any{"email": input.Email, "password": input.Password}
	if err := p.client.do(ctx, http.MethodPost, "/account/sessions/email", nil, body, session); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("appwrite rejected the credentials")
		}

		return nil, domainerrors.NewBackendExecuteError(err, "failed to create appwrite session")
	}

	p.client.setSession(session.Secret)

	return &entity.Session{
		UserID:    session.UserID,
		Token:     session.Secret,
		ExpiresAt: parseTime(session.Expire),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (p *Provider) CurrentUser(ctx context.Context) (*entity.User, error) {
	if p.client.currentSession() == "" {
		return nil, nil
	}

	account := &accountPayload{}
	if err := p.client.do(ctx, http.MethodGet, "/account", nil, nil, account); err != nil {
		// Probe operation: backend failures are reported as "no current user".
		p.logger.Debug("Appwrite account probe failed", slog.Any("error", err))

		return nil, nil
	}

	return account.toUser(), nil
}

func (p *Provider) Logout(ctx context.Context) error {
	if p.client.currentSession() != "" {
		if err := p.client.do(ctx, http.MethodDelete, "/account/sessions", nil, nil, nil); err != nil {
			// Best effort: the UI must always reach the unauthenticated state.
			p.logger.Warn("Failed to delete appwrite sessions", slog.Any("error", err))
		}
	}
	p.client.setSession("")

	return nil
}

func (p *Provider) GoogleAuthURL(_ context.Context, successURL, failureURL string) (string, error) {
	query := url.Values{}
	query.Set("project", p.cfg.ProjectID)
	query.Set("success", successURL)
	query.Set("failure", failureURL)

	return p.client.endpoint + "/account/sessions/oauth2/google?" + query.Encode(), nil
}

// --- DataProvider ---

func (p *Provider) UserInformation(ctx context.Context, section entity.Section, userID string) (entity.Fields, error) {
	switch section {
	case entity.SectionDailyGoals, entity.SectionWeeklyGoals:
		doc, err := p.findGoals(ctx, section, userID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, nil
		}

		return doc.toGoalSet().Fields(), nil

	default:
		doc, err := p.findProfile(ctx, userID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, nil
		}

		return doc.toProfile().Fields(), nil
	}
}

func (p *Provider) CreateProfile(ctx context.Context, userID string, profile *entity.Profile) (*entity.Profile, error) {
	profile.UserID = userID
	data := map[string]any{
		"userId":       userID,
		"name":         profile.Name,
		"age":          profile.Age,
		"weight":       profile.Weight,
		"height":       profile.Height,
		"fitnessGoals": profile.FitnessGoals,
	}

	if err := p.upsertDocument(ctx, p.cfg.ProfileCollectionID, documentID(userID), data); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to upsert appwrite profile")
	}
	profile.UpdatedAt = time.Now().UTC()

	return profile, nil
}

func (p *Provider) UpdateProfile(ctx context.Context, userID string, fields entity.Fields) (*entity.Profile, error) {
	doc, err := p.findProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{UserID: userID}
	if doc != nil {
		profile = doc.toProfile()
	}
	profile.Merge(fields)

	return p.CreateProfile(ctx, userID, profile)
}

func (p *Provider) SaveGoals(ctx context.Context, userID string, period entity.GoalPeriod, goals *entity.GoalSet) error {
	goals.UserID = userID
	goals.Period = period
	if period == entity.GoalPeriodWeekly && goals.WeekStart.IsZero() {
		goals.WeekStart = entity.WeekStartOf(time.Now())
	}

	data := map[string]any{
		"userId":               userID,
		"period":               string(period),
		"caloriesBurned":       goals.CaloriesBurned,
		"targetCalories":       goals.TargetCalories,
		"stepsTaken":           goals.StepsTaken,
		"targetSteps":          goals.TargetSteps,
		"workoutMinutes":       goals.WorkoutMinutes,
		"targetWorkoutMinutes": goals.TargetWorkoutMinutes,
	}
	if period == entity.GoalPeriodWeekly {
		data["weekStart"] = goals.WeekStart.Format(time.RFC3339)
	}

	if err := p.upsertDocument(ctx, p.cfg.GoalsCollectionID, documentID(userID+"-"+string(period)), data); err != nil {
		return domainerrors.NewBackendExecuteError(err, "failed to upsert appwrite goals")
	}

	return nil
}

func (p *Provider) ResetWeeklyGoals(ctx context.Context, userID string) error {
	doc, err := p.findGoals(ctx, entity.SectionWeeklyGoals, userID)
	if err != nil {
		return err
	}

	goals := &entity.GoalSet{UserID: userID, Period: entity.GoalPeriodWeekly}
	if doc != nil {
		goals = doc.toGoalSet()
	}
	goals.ResetAccumulated()
	goals.WeekStart = entity.WeekStartOf(time.Now())

	return p.SaveGoals(ctx, userID, entity.GoalPeriodWeekly, goals)
}

func (p *Provider) AddWorkout(ctx context.Context, userID string, entry *entity.WorkoutEntry) (*entity.WorkoutEntry, error) {
	entry.UserID = userID
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	body := map[string]any{
		"documentId": "unique()",
		"data": map[string]any{
			"userId":          userID,
			"date":            entry.Date.Format(time.RFC3339),
			"workoutType":     entry.WorkoutType,
			"durationMinutes": entry.DurationMinutes,
			"caloriesBurned":  entry.CaloriesBurned,
		},
	}

	doc := &workoutDocument{}
	if err := p.client.do(ctx, http.MethodPost, p.documentsPath(p.cfg.WorkoutCollectionID), nil, body, doc); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to create appwrite workout")
	}

	entry.ID = doc.ID
	entry.CreatedAt = parseTime(doc.CreatedAt)

	return entry, nil
}

func (p *Provider) WorkoutHistory(ctx context.Context, userID string) (*entity.WorkoutList, error) {
	list := &entity.WorkoutList{}
	for offset := 0; ; offset += listPageSize {
		query := url.Values{}
		query.Add("queries[]", queryEqual("userId", userID))
		query.Add("queries[]", queryOrderDesc("date"))
		query.Add("queries[]", queryLimit(listPageSize))
		query.Add("queries[]", queryOffset(offset))

		payload := &workoutDocumentList{}
		if err := p.client.do(ctx, http.MethodGet, p.documentsPath(p.cfg.WorkoutCollectionID), query, nil, payload); err != nil {
			return nil, domainerrors.NewBackendExecuteError(err, "failed to list appwrite workouts")
		}

		list.Total = payload.Total
		for _, doc := range payload.Documents {
			list.Documents = append(list.Documents, doc.toEntry())
		}
		if len(payload.Documents) < listPageSize || len(list.Documents) >= payload.Total {
			break
		}
	}
	// The backend already orders by date; normalize anyway so every variant
	// returns an identical shape.
	list.SortByDateDesc()

	return list, nil
}

func (p *Provider) AddWeight(ctx context.Context, userID string, value float64) (*entity.WeightSample, error) {
	now := time.Now().UTC()
	body := map[string]any{
		"documentId": "unique()",
		"data": map[string]any{
			"userId":    userID,
			"value":     value,
			"timestamp": now.Format(time.RFC3339),
		},
	}

	doc := &weightDocument{}
	if err := p.client.do(ctx, http.MethodPost, p.documentsPath(p.cfg.WeightCollectionID), nil, body, doc); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to create appwrite weight sample")
	}

	return &entity.WeightSample{ID: doc.ID, UserID: userID, Value: value, Timestamp: now}, nil
}

func (p *Provider) WeightHistory(ctx context.Context, userID string) (*entity.WeightList, error) {
	list := &entity.WeightList{}
	for offset := 0; ; offset += listPageSize {
		query := url.Values{}
		query.Add("queries[]", queryEqual("userId", userID))
		query.Add("queries[]", queryOrderAsc("timestamp"))
		query.Add("queries[]", queryLimit(listPageSize))
		query.Add("queries[]", queryOffset(offset))

		payload := &weightDocumentList{}
		if err := p.client.do(ctx, http.MethodGet, p.documentsPath(p.cfg.WeightCollectionID), query, nil, payload); err != nil {
			return nil, domainerrors.NewBackendExecuteError(err, "failed to list appwrite weight samples")
		}

		list.Total = payload.Total
		for _, doc := range payload.Documents {
			list.Documents = append(list.Documents, &entity.WeightSample{
				ID:        doc.ID,
				UserID:    doc.UserID,
				Value:     doc.Value,
				Timestamp: parseTime(doc.Timestamp),
			})
		}
		if len(payload.Documents) < listPageSize || len(list.Documents) >= payload.Total {
			break
		}
	}

	return list, nil
}

// --- helpers ---

func (p *Provider) documentsPath(collectionID string) string {
	return "/databases/" + p.cfg.DatabaseID + "/collections/" + collectionID + "/documents"
}

func (p *Provider) findProfile(ctx context.Context, userID string) (*profileDocument, error) {
	query := url.Values{}
	query.Add("queries[]", queryEqual("userId", userID))
	query.Add("queries[]", queryLimit(1))

	payload := &profileList{}
	if err := p.client.do(ctx, http.MethodGet, p.documentsPath(p.cfg.ProfileCollectionID), query, nil, payload); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to list appwrite profiles")
	}
	if len(payload.Documents) == 0 {
		return nil, nil
	}

	return &payload.Documents[0], nil
}

func (p *Provider) findGoals(ctx context.Context, section entity.Section, userID string) (*goalsDocument, error) {
	period := entity.GoalPeriodDaily
	if section == entity.SectionWeeklyGoals {
		period = entity.GoalPeriodWeekly
	}

	query := url.Values{}
	query.Add("queries[]", queryEqual("userId", userID))
	query.Add("queries[]", queryEqual("period", string(period)))
	query.Add("queries[]", queryLimit(1))

	payload := &goalsList{}
	if err := p.client.do(ctx, http.MethodGet, p.documentsPath(p.cfg.GoalsCollectionID), query, nil, payload); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to list appwrite goals")
	}
	if len(payload.Documents) == 0 {
		return nil, nil
	}

	return &payload.Documents[0], nil
}

// upsertDocument patches the document when it exists and creates it with the
// deterministic ID otherwise.
func (p *Provider) upsertDocument(ctx context.Context, collectionID, docID string, data map[string]any) error {
	path := p.documentsPath(collectionID)

	err := p.client.do(ctx, http.MethodPatch, path+"/"+docID, nil, map[string]any{"data": data}, nil)
	if err == nil {
		return nil
	}

	var apiErr *apiError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		return err
	}

	body := map[string]any{"documentId": docID, "data": data}

	return p.client.do(ctx, http.MethodPost, path, nil, body, nil)
}

// documentID normalizes an arbitrary key into a valid Appwrite document ID.
// Keys beyond the 36-character limit are hashed rather than truncated, so
// composite keys sharing a prefix (userID plus a period suffix) never
// collapse onto the same document.
func documentID(key string) string {
	if len(key) <= 36 {
		return key
	}

	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:18])
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

func (a *accountPayload) toUser() *entity.User {
	return &entity.User{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: parseTime(a.CreatedAt),
	}
}

func (d *profileDocument) toProfile() *entity.Profile {
	return &entity.Profile{
		UserID:       d.UserID,
		Name:         d.Name,
		Age:          d.Age,
		Weight:       d.Weight,
		Height:       d.Height,
		FitnessGoals: d.FitnessGoals,
	}
}

func (d *goalsDocument) toGoalSet() *entity.GoalSet {
	return &entity.GoalSet{
		UserID:               d.UserID,
		Period:               entity.GoalPeriod(d.Period),
		CaloriesBurned:       d.CaloriesBurned,
		TargetCalories:       d.TargetCalories,
		StepsTaken:           d.StepsTaken,
		TargetSteps:          d.TargetSteps,
		WorkoutMinutes:       d.WorkoutMinutes,
		TargetWorkoutMinutes: d.TargetWorkoutMinutes,
		WeekStart:            parseTime(d.WeekStart),
	}
}

func (d *workoutDocument) toEntry() *entity.WorkoutEntry {
	return &entity.WorkoutEntry{
		ID:              d.ID,
		UserID:          d.UserID,
		Date:            parseTime(d.Date),
		WorkoutType:     d.WorkoutType,
		DurationMinutes: d.DurationMinutes,
		CaloriesBurned:  d.CaloriesBurned,
		CreatedAt:       parseTime(d.CreatedAt),
	}
}
