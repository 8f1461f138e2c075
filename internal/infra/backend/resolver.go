// Package backend selects the service provider the application talks to.
// The active backend is resolved from configuration at startup: an
// explicitly named provider wins, otherwise the first fully configured
// remote backend is auto-detected, and the local guest store is the
// fallback that always works.
package backend

import (
	"log/slog"
	"strings"
	"sync"

	"go.uber.org/fx"

	"yougotthis/config"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/infra/backend/appwrite"
	"yougotthis/internal/infra/backend/local"
	"yougotthis/internal/infra/backend/supabase"
)

// provider pairs the two contracts a backend must satisfy.
type provider struct {
	auth service.AuthProvider
	data service.DataProvider
}

// Resolver hands out the auth and data contracts of the active backend.
// Guest mode overrides whatever was resolved from configuration.
type Resolver struct {
	logger *slog.Logger

	mu            sync.RWMutex
	mode          service.Mode
	guestOverride bool

	localProvider  *provider
	remoteProvider *provider
	remoteMode     service.Mode
}

// ResolverParams holds dependencies for the Resolver, injected by Fx.
type ResolverParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Hasher service.PasswordHasher
	Tokens service.TokenService
}

// NewResolver builds the Resolver. Resolution never fails: when no remote
// backend is usable the local guest store serves both contracts.
func NewResolver(params ResolverParams) (*Resolver, error) {
	cfg := params.Config.Backend
	logger := params.Logger

	localProvider, err := local.NewProvider(cfg.LocalPath(), params.Hasher, params.Tokens, logger)
	if err != nil {
		return nil, err
	}

	resolver := &Resolver{
		logger: logger,
		mode:   service.ModeLocal,
		localProvider: &provider{
			auth: localProvider,
			data: localProvider,
		},
	}

	resolver.remoteMode, resolver.remoteProvider = resolveRemote(cfg, logger)
	if resolver.remoteProvider != nil {
		resolver.mode = resolver.remoteMode
	}

	logger.Info("Resolved service backend", slog.String("mode", string(resolver.mode)))

	return resolver, nil
}

// resolveRemote picks the remote backend per precedence: the explicitly
// configured provider first, then auto-detection in appwrite, supabase
// order. Broken or placeholder configuration falls through to local.
func resolveRemote(cfg *config.BackendConfig, logger *slog.Logger) (service.Mode, *provider) {
	if cfg == nil {
		return service.ModeLocal, nil
	}

	switch strings.ToLower(cfg.Provider) {
	case string(service.ModeLocal):
		logger.Info("Backend provider pinned to local guest store")

		return service.ModeLocal, nil

	case string(service.ModeAppwrite):
		if remote := buildAppwrite(cfg.Appwrite, logger); remote != nil {
			return service.ModeAppwrite, remote
		}
		logger.Warn("Appwrite pinned but not configured, falling back to local")

		return service.ModeLocal, nil

	case string(service.ModeSupabase):
		if remote := buildSupabase(cfg.Supabase, logger); remote != nil {
			return service.ModeSupabase, remote
		}
		logger.Warn("Supabase pinned but not configured, falling back to local")

		return service.ModeLocal, nil
	}

	if remote := buildAppwrite(cfg.Appwrite, logger); remote != nil {
		return service.ModeAppwrite, remote
	}
	if remote := buildSupabase(cfg.Supabase, logger); remote != nil {
		return service.ModeSupabase, remote
	}

	return service.ModeLocal, nil
}

func buildAppwrite(cfg *config.AppwriteConfig, logger *slog.Logger) *provider {
	if cfg == nil || isPlaceholder(cfg.Endpoint) || isPlaceholder(cfg.ProjectID) {
		return nil
	}

	logger.Info("Using Appwrite service backend",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("project_id", cfg.ProjectID),
	)

	appwriteProvider := appwrite.NewProvider(cfg, logger)

	return &provider{auth: appwriteProvider, data: appwriteProvider}
}

func buildSupabase(cfg *config.SupabaseConfig, logger *slog.Logger) *provider {
	if cfg == nil || isPlaceholder(cfg.URL) || isPlaceholder(cfg.AnonKey) {
		return nil
	}

	supabaseProvider, err := supabase.NewProvider(cfg, logger)
	if err != nil {
		logger.Warn("Failed to create supabase client, falling back",
			slog.Any("error", err),
		)

		return nil
	}

	logger.Info("Using Supabase service backend", slog.String("url", cfg.URL))

	return &provider{auth: supabaseProvider, data: supabaseProvider}
}

// isPlaceholder reports whether a credential is absent or still carries a
// template value such as "your_project_id".
func isPlaceholder(value string) bool {
	trimmed := strings.TrimSpace(value)

	return trimmed == "" || strings.HasPrefix(strings.ToLower(trimmed), "your_")
}

// Mode returns the mode whose providers Auth and Data currently hand out.
func (r *Resolver) Mode() service.Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.mode
}

// SetGuestMode toggles the guest override. Enabling it routes every
// subsequent call to the local store regardless of configuration;
// disabling it restores the configured backend.
func (r *Resolver) SetGuestMode(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.guestOverride = enabled
	if enabled {
		r.mode = service.ModeLocal

		return
	}

	if r.remoteProvider != nil {
		r.mode = r.remoteMode
	} else {
		r.mode = service.ModeLocal
	}
}

// GuestMode reports whether the guest override is active.
func (r *Resolver) GuestMode() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.guestOverride
}

// Auth returns the auth contract of the active backend.
func (r *Resolver) Auth() service.AuthProvider {
	return r.active().auth
}

// Data returns the data contract of the active backend.
func (r *Resolver) Data() service.DataProvider {
	return r.active().data
}

func (r *Resolver) active() *provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.guestOverride || r.remoteProvider == nil || r.mode == service.ModeLocal {
		return r.localProvider
	}

	return r.remoteProvider
}

// Module provides the backend resolver FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewResolver),
)
