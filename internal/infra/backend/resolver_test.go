package backend

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yougotthis/config"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/infra/auth"
)

func newResolverConfig(t *testing.T, backendCfg *config.BackendConfig) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Session = "test-session-secret"
	if backendCfg == nil {
		backendCfg = &config.BackendConfig{}
	}
	if backendCfg.Local == nil {
		backendCfg.Local = &config.LocalConfig{Path: t.TempDir()}
	}
	cfg.Backend = backendCfg

	return cfg
}

func newTestResolver(t *testing.T, backendCfg *config.BackendConfig) *Resolver {
	t.Helper()

	cfg := newResolverConfig(t, backendCfg)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	resolver, err := NewResolver(ResolverParams{
		Config: cfg,
		Logger: slog.Default(),
		Hasher: auth.NewBcryptHasher(),
		Tokens: tokens,
	})
	require.NoError(t, err)

	return resolver
}

func TestResolve_DefaultsToLocal(t *testing.T) {
	resolver := newTestResolver(t, nil)

	assert.Equal(t, service.ModeLocal, resolver.Mode())
	assert.NotNil(t, resolver.Auth())
	assert.NotNil(t, resolver.Data())
}

func TestResolve_PlaceholderCredentialsFallBackToLocal(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.BackendConfig
	}{
		{
			"appwrite template values",
			&config.BackendConfig{
				Appwrite: &config.AppwriteConfig{
					Endpoint:  "YOUR_APPWRITE_ENDPOINT",
					ProjectID: "your_project_id",
				},
			},
		},
		{
			"supabase template values",
			&config.BackendConfig{
				Supabase: &config.SupabaseConfig{
					URL:     "your_supabase_url",
					AnonKey: "your_anon_key",
				},
			},
		},
		{
			"empty credentials",
			&config.BackendConfig{
				Appwrite: &config.AppwriteConfig{},
				Supabase: &config.SupabaseConfig{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := newTestResolver(t, tt.cfg)
			assert.Equal(t, service.ModeLocal, resolver.Mode())
		})
	}
}

func TestResolve_AutoDetectPrefersAppwrite(t *testing.T) {
	resolver := newTestResolver(t, &config.BackendConfig{
		Appwrite: &config.AppwriteConfig{
			Endpoint:  "https://cloud.appwrite.io/v1",
			ProjectID: "proj-123",
		},
		Supabase: &config.SupabaseConfig{
			URL:     "https://example.supabase.co",
			AnonKey: "anon-key",
		},
	})

	assert.Equal(t, service.ModeAppwrite, resolver.Mode())
}

func TestResolve_AutoDetectFallsThroughToSupabase(t *testing.T) {
	resolver := newTestResolver(t, &config.BackendConfig{
		Appwrite: &config.AppwriteConfig{
			Endpoint:  "your_appwrite_endpoint",
			ProjectID: "your_project_id",
		},
		Supabase: &config.SupabaseConfig{
			URL:     "https://example.supabase.co",
			AnonKey: "anon-key",
		},
	})

	assert.Equal(t, service.ModeSupabase, resolver.Mode())
}

func TestResolve_ExplicitProviderWins(t *testing.T) {
	resolver := newTestResolver(t, &config.BackendConfig{
		Provider: "supabase",
		Appwrite: &config.AppwriteConfig{
			Endpoint:  "https://cloud.appwrite.io/v1",
			ProjectID: "proj-123",
		},
		Supabase: &config.SupabaseConfig{
			URL:     "https://example.supabase.co",
			AnonKey: "anon-key",
		},
	})

	assert.Equal(t, service.ModeSupabase, resolver.Mode())
}

func TestResolve_ExplicitLocalIgnoresRemotes(t *testing.T) {
	resolver := newTestResolver(t, &config.BackendConfig{
		Provider: "local",
		Appwrite: &config.AppwriteConfig{
			Endpoint:  "https://cloud.appwrite.io/v1",
			ProjectID: "proj-123",
		},
	})

	assert.Equal(t, service.ModeLocal, resolver.Mode())
}

func TestSetGuestMode_OverridesAndRestores(t *testing.T) {
	resolver := newTestResolver(t, &config.BackendConfig{
		Appwrite: &config.AppwriteConfig{
			Endpoint:  "https://cloud.appwrite.io/v1",
			ProjectID: "proj-123",
		},
	})
	require.Equal(t, service.ModeAppwrite, resolver.Mode())

	remoteAuth := resolver.Auth()

	resolver.SetGuestMode(true)
	assert.Equal(t, service.ModeLocal, resolver.Mode())
	assert.True(t, resolver.GuestMode())
	assert.NotSame(t, remoteAuth, resolver.Auth())

	resolver.SetGuestMode(false)
	assert.Equal(t, service.ModeAppwrite, resolver.Mode())
	assert.False(t, resolver.GuestMode())
}

func TestResolve_Deterministic(t *testing.T) {
	cfg := &config.BackendConfig{
		Appwrite: &config.AppwriteConfig{
			Endpoint:  "https://cloud.appwrite.io/v1",
			ProjectID: "proj-123",
		},
	}

	first := newTestResolver(t, cfg)
	second := newTestResolver(t, cfg)
	assert.Equal(t, first.Mode(), second.Mode())
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"your_project_id", true},
		{"YOUR_PROJECT_ID", true},
		{"proj-123", false},
		{"https://cloud.appwrite.io/v1", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, isPlaceholder(tt.value))
		})
	}
}
