package impl

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yougotthis/config"
	domainerrors "yougotthis/internal/domain/errors"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/infra/auth"
	"yougotthis/internal/infra/backend"
	"yougotthis/internal/usecase"
)

func newTestAccountService(t *testing.T) usecase.AccountUsecase {
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

	return NewAccountService(AccountServiceParams{
		Resolver: resolver,
		Logger:   slog.Default(),
	})
}

func TestRegister_RequiresCredentials(t *testing.T) {
	srv := newTestAccountService(t)

	tests := []struct {
		name  string
		input *usecase.RegisterInput
	}{
		{"missing email", &usecase.RegisterInput{Password: "secret123"}},
		{"missing password", &usecase.RegisterInput{Email: "user@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, domainerrors.ErrMissingCredentials)
		})
	}
}

func TestLoginLogoutLifecycle(t *testing.T) {
	srv := newTestAccountService(t)
	ctx := context.Background()

	user, err := srv.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	output, err := srv.Login(ctx, &usecase.LoginInput{Email: "guest@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotNil(t, output.User)
	assert.NotEmpty(t, output.Token)
	assert.Equal(t, service.ModeLocal, output.Mode)

	user, err = srv.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, output.User.ID, user.ID)

	require.NoError(t, srv.Logout(ctx))

	user, err = srv.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	// Logout with no session is still fine.
	assert.NoError(t, srv.Logout(ctx))
}

func TestSetGuestMode_ReportsResultingMode(t *testing.T) {
	srv := newTestAccountService(t)
	ctx := context.Background()

	assert.Equal(t, service.ModeLocal, srv.Mode())
	assert.Equal(t, service.ModeLocal, srv.SetGuestMode(ctx, true))
	assert.Equal(t, service.ModeLocal, srv.SetGuestMode(ctx, false))
}

func TestGoogleSignInURL_UnsupportedInGuestMode(t *testing.T) {
	srv := newTestAccountService(t)

	_, err := srv.GoogleSignInURL(context.Background(), "http://ok", "http://fail")
	assert.ErrorIs(t, err, domainerrors.ErrGuestUnsupported)
}
