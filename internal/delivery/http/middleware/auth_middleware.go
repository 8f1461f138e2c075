package middleware

import (
	"github.com/labstack/echo/v4"

	deliverycontext "yougotthis/internal/delivery/context"
	"yougotthis/internal/delivery/http/response"
	"yougotthis/internal/usecase"
)

// AuthMiddleware guards routes that need an authenticated user. The
// session lives inside the active backend provider, so authentication is
// a probe against it rather than local token parsing.
type AuthMiddleware struct {
	accounts usecase.AccountUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(accounts usecase.AccountUsecase) *AuthMiddleware {
	return &AuthMiddleware{accounts: accounts}
}

// Authenticate rejects the request unless the active backend reports a
// current user. The user is stashed in the echo context for handlers.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.accounts.CurrentUser(c.Request().Context())
		if err != nil || user == nil {
			return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
		}

		c.Set(deliverycontext.KeyUser, user)

		return next(c)
	}
}
