package local

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"yougotthis/internal/domain/entity"
	domainerrors "yougotthis/internal/domain/errors"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/errors"
)

const (
	identityKey = "auth/identity.json"

	profilePrefix     = "profile/"
	dailyGoalsPrefix  = "goals/daily/"
	weeklyGoalsPrefix = "goals/weekly/"
	workoutsPrefix    = "workouts/"
	weightsPrefix     = "weights/"
)

// storedIdentity is the on-disk shape of the synthetic guest account.
type storedIdentity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (id *storedIdentity) toUser() *entity.User {
	return &entity.User{
		ID:        id.ID,
		Email:     id.Email,
		Name:      id.Name,
		CreatedAt: id.CreatedAt,
	}
}

// Provider implements both the AuthProvider and DataProvider contracts
// against the local file store. One instance serves the whole process.
type Provider struct {
	store  *store
	hasher service.PasswordHasher
	tokens service.TokenService
	logger *slog.Logger

	sessionMu sync.Mutex
	session   *entity.Session
}

// NewProvider opens (creating if needed) the guest store under dir.
func NewProvider(dir string, hasher service.PasswordHasher, tokens service.TokenService, logger *slog.Logger) (*Provider, error) {
	st, err := openStore(dir)
	if err != nil {
		return nil, err
	}

	return &Provider{
		store:  st,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}, nil
}

// Close releases the underlying store.
func (p *Provider) Close() error {
	return p.store.close()
}

// --- AuthProvider ---

// CreateAccount stores a synthetic guest identity. There is no credential
// verification in guest mode; an existing identity is simply replaced.
func (p *Provider) CreateAccount(ctx context.Context, input service.CreateAccountInput) (*entity.User, error) {
	identity := &storedIdentity{
		ID:        uuid.New().String(),
		Email:     input.Email,
		Name:      input.Name,
		CreatedAt: time.Now().UTC(),
	}

	if input.Password != "" {
		hash, err := p.hasher.Hash(input.Password)
		if err != nil {
			return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash guest password")
		}
		identity.PasswordHash = hash
	}

	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if err := p.store.put(ctx, identityKey, identity); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to store guest identity")
	}

	p.logger.Debug("Created guest identity", slog.String("userID", identity.ID))

	return identity.toUser(), nil
}

// Login establishes a guest session. A missing email or password fails fast
// before the store is touched; an existing session is terminated first so at
// most one session is ever live.
func (p *Provider) Login(ctx context.Context, input service.LoginInput) (*entity.Session, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingCredentials.WrapMessage("guest login requires email and password")
	}

	p.store.mu.Lock()
	identity := &storedIdentity{}
	found, err := p.store.get(ctx, identityKey, identity)
	if err != nil {
		p.store.mu.Unlock()

		return nil, domainerrors.NewBackendExecuteError(err, "failed to load guest identity")
	}

	if !found {
		// First login in guest mode doubles as identity creation.
		identity = &storedIdentity{
			ID:        uuid.New().String(),
			Email:     input.Email,
			CreatedAt: time.Now().UTC(),
		}
		if hash, hashErr := p.hasher.Hash(input.Password); hashErr == nil {
			identity.PasswordHash = hash
		}
		if err := p.store.put(ctx, identityKey, identity); err != nil {
			p.store.mu.Unlock()

			return nil, domainerrors.NewBackendExecuteError(err, "failed to store guest identity")
		}
	}
	p.store.mu.Unlock()

	if identity.PasswordHash != "" && !p.hasher.Check(input.Password, identity.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("guest password mismatch")
	}

	p.sessionMu.Lock()
	defer p.sessionMu.Unlock()

	// Terminate any existing session before creating a new one.
	p.session = nil

	token, err := p.tokens.GenerateSessionToken(identity.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to mint guest session token")
	}

	now := time.Now().UTC()
	p.session = &entity.Session{
		UserID:    identity.ID,
		Token:     token,
		ExpiresAt: now.Add(p.tokens.SessionTTL()),
		CreatedAt: now,
	}

	return p.session, nil
}

// CurrentUser reports the guest identity when a live session exists. Store
// failures degrade to "no current user".
func (p *Provider) CurrentUser(ctx context.Context) (*entity.User, error) {
	p.sessionMu.Lock()
	session := p.session
	p.sessionMu.Unlock()

	if session == nil {
		return nil, nil
	}

	// The signed token is the source of truth for session validity: expiry
	// and secret rotation both end the session here.
	userID, err := p.tokens.ValidateSessionToken(session.Token)
	if err != nil {
		p.logger.Debug("Guest session token rejected", slog.Any("error", err))

		return nil, nil
	}

	identity := &storedIdentity{}
	found, err := p.store.get(ctx, identityKey, identity)
	if err != nil {
		p.logger.Debug("Guest identity probe failed", slog.Any("error", err))

		return nil, nil
	}
	if !found || identity.ID != userID {
		return nil, nil
	}

	return identity.toUser(), nil
}

// Logout drops the current session. It cannot fail: guest mode has no
// network dependency.
func (p *Provider) Logout(_ context.Context) error {
	p.sessionMu.Lock()
	defer p.sessionMu.Unlock()

	p.session = nil

	return nil
}

// GoogleAuthURL is not available without a remote backend.
func (p *Provider) GoogleAuthURL(_ context.Context, _, _ string) (string, error) {
	return "", domainerrors.ErrGuestUnsupported.WrapMessage("Google sign-in requires a remote backend")
}

// --- DataProvider ---

func (p *Provider) UserInformation(ctx context.Context, section entity.Section, userID string) (entity.Fields, error) {
	switch section {
	case entity.SectionDailyGoals, entity.SectionWeeklyGoals:
		goals := &entity.GoalSet{}
		found, err := p.store.get(ctx, goalsKey(section, userID), goals)
		if err != nil {
			return nil, domainerrors.NewBackendExecuteError(err, "failed to read guest goals")
		}
		if !found {
			return nil, nil
		}

		return goals.Fields(), nil

	default:
		profile := &entity.Profile{}
		found, err := p.store.get(ctx, profilePrefix+userID+".json", profile)
		if err != nil {
			return nil, domainerrors.NewBackendExecuteError(err, "failed to read guest profile")
		}
		if !found {
			return nil, nil
		}

		return profile.Fields(), nil
	}
}

func (p *Provider) CreateProfile(ctx context.Context, userID string, profile *entity.Profile) (*entity.Profile, error) {
	profile.UserID = userID
	profile.UpdatedAt = time.Now().UTC()

	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if err := p.store.put(ctx, profilePrefix+userID+".json", profile); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to store guest profile")
	}

	return profile, nil
}

func (p *Provider) UpdateProfile(ctx context.Context, userID string, fields entity.Fields) (*entity.Profile, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	profile := &entity.Profile{UserID: userID}
	if _, err := p.store.get(ctx, profilePrefix+userID+".json", profile); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to read guest profile")
	}

	profile.Merge(fields)
	profile.UpdatedAt = time.Now().UTC()

	if err := p.store.put(ctx, profilePrefix+userID+".json", profile); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to store guest profile")
	}

	return profile, nil
}

func (p *Provider) SaveGoals(ctx context.Context, userID string, period entity.GoalPeriod, goals *entity.GoalSet) error {
	goals.UserID = userID
	goals.Period = period
	goals.UpdatedAt = time.Now().UTC()
	if period == entity.GoalPeriodWeekly && goals.WeekStart.IsZero() {
		goals.WeekStart = entity.WeekStartOf(time.Now())
	}

	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	if err := p.store.put(ctx, goalsKey(period.Section(), userID), goals); err != nil {
		return domainerrors.NewBackendExecuteError(err, "failed to store guest goals")
	}

	return nil
}

func (p *Provider) ResetWeeklyGoals(ctx context.Context, userID string) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	goals := &entity.GoalSet{UserID: userID, Period: entity.GoalPeriodWeekly}
	if _, err := p.store.get(ctx, goalsKey(entity.SectionWeeklyGoals, userID), goals); err != nil {
		return domainerrors.NewBackendExecuteError(err, "failed to read guest weekly goals")
	}

	goals.ResetAccumulated()
	goals.WeekStart = entity.WeekStartOf(time.Now())
	goals.UpdatedAt = time.Now().UTC()

	if err := p.store.put(ctx, goalsKey(entity.SectionWeeklyGoals, userID), goals); err != nil {
		return domainerrors.NewBackendExecuteError(err, "failed to store guest weekly goals")
	}

	return nil
}

func (p *Provider) AddWorkout(ctx context.Context, userID string, entry *entity.WorkoutEntry) (*entity.WorkoutEntry, error) {
	entry.ID = uuid.New().String()
	entry.UserID = userID
	entry.CreatedAt = time.Now().UTC()
	if entry.Date.IsZero() {
		entry.Date = entry.CreatedAt
	}

	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	var workouts []*entity.WorkoutEntry
	if _, err := p.store.get(ctx, workoutsPrefix+userID+".json", &workouts); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to read guest workouts")
	}

	workouts = append(workouts, entry)
	if err := p.store.put(ctx, workoutsPrefix+userID+".json", workouts); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to store guest workouts")
	}

	return entry, nil
}

func (p *Provider) WorkoutHistory(ctx context.Context, userID string) (*entity.WorkoutList, error) {
	var workouts []*entity.WorkoutEntry
	if _, err := p.store.get(ctx, workoutsPrefix+userID+".json", &workouts); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to read guest workouts")
	}

	list := &entity.WorkoutList{Documents: workouts, Total: len(workouts)}
	list.SortByDateDesc()

	return list, nil
}

func (p *Provider) AddWeight(ctx context.Context, userID string, value float64) (*entity.WeightSample, error) {
	sample := &entity.WeightSample{
		ID:        uuid.New().String(),
		UserID:    userID,
		Value:     value,
		Timestamp: time.Now().UTC(),
	}

	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	var samples []*entity.WeightSample
	if _, err := p.store.get(ctx, weightsPrefix+userID+".json", &samples); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to read guest weights")
	}

	samples = append(samples, sample)
	if err := p.store.put(ctx, weightsPrefix+userID+".json", samples); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to store guest weights")
	}

	return sample, nil
}

func (p *Provider) WeightHistory(ctx context.Context, userID string) (*entity.WeightList, error) {
	var samples []*entity.WeightSample
	if _, err := p.store.get(ctx, weightsPrefix+userID+".json", &samples); err != nil {
		return nil, domainerrors.NewBackendExecuteError(err, "failed to read guest weights")
	}

	return &entity.WeightList{Documents: samples, Total: len(samples)}, nil
}

func goalsKey(section entity.Section, userID string) string {
	if section == entity.SectionWeeklyGoals {
		return weeklyGoalsPrefix + userID + ".json"
	}

	return dailyGoalsPrefix + userID + ".json"
}
