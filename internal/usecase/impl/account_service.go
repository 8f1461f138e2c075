// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	deliverycontext "yougotthis/internal/delivery/context"
	"yougotthis/internal/domain/entity"
	domainerrors "yougotthis/internal/domain/errors"
	"yougotthis/internal/domain/service"
	"yougotthis/internal/infra/backend"
	"yougotthis/internal/usecase"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	resolver *backend.Resolver
	logger   *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	Resolver *backend.Resolver
	Logger   *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	return &accountService{
		resolver: params.Resolver,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingCredentials.WrapMessage("registration requires email and password")
	}

	srv.log(ctx).Info("Registering account",
		slog.String("email", input.Email),
		slog.String("mode", string(srv.resolver.Mode())),
	)

	user, err := srv.resolver.Auth().CreateAccount(ctx, service.CreateAccountInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.SessionOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domainerrors.ErrMissingCredentials.WrapMessage("login requires email and password")
	}

	session, err := srv.resolver.Auth().Login(ctx, service.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	user, err := srv.resolver.Auth().CurrentUser(ctx)
	if err != nil || user == nil {
		user = &entity.User{ID: session.UserID, Email: input.Email}
	}

	srv.log(ctx).Info("Session established",
		slog.String("user_id", session.UserID),
		slog.String("mode", string(srv.resolver.Mode())),
	)

	return &usecase.SessionOutput{
		User:      user,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Mode:      srv.resolver.Mode(),
	}, nil
}

func (srv *accountService) Logout(ctx context.Context) error {
	if err := srv.resolver.Auth().Logout(ctx); err != nil {
		// Cleanup operation: the caller ends up logged out either way.
		srv.log(ctx).Warn("Logout reported an error", slog.Any("error", err))
	}

	return nil
}

func (srv *accountService) CurrentUser(ctx context.Context) (*entity.User, error) {
	return srv.resolver.Auth().CurrentUser(ctx)
}

func (srv *accountService) GoogleSignInURL(ctx context.Context, successURL, failureURL string) (string, error) {
	return srv.resolver.Auth().GoogleAuthURL(ctx, successURL, failureURL)
}

func (srv *accountService) SetGuestMode(ctx context.Context, enabled bool) service.Mode {
	srv.resolver.SetGuestMode(enabled)
	mode := srv.resolver.Mode()

	srv.log(ctx).Info("Guest mode switched",
		slog.Bool("enabled", enabled),
		slog.String("mode", string(mode)),
	)

	return mode
}

func (srv *accountService) Mode() service.Mode {
	return srv.resolver.Mode()
}
