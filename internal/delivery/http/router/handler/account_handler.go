package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"yougotthis/internal/delivery/http/response"
	"yougotthis/internal/usecase"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register handles the account creation request.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user, "Account created successfully")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles the session establishment request.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// Logout ends the current session.
func (h *AccountHandler) Logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// CurrentUser reports the authenticated user of the active backend.
func (h *AccountHandler) CurrentUser(c echo.Context) error {
	user, err := h.uc.CurrentUser(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	if user == nil {
		return response.Unauthorized(c, "NOT_AUTHENTICATED", "No active session")
	}

	return response.Success(c, http.StatusOK, user, "")
}

// GoogleLogin returns the OAuth redirect URL for Google sign-in.
func (h *AccountHandler) GoogleLogin(c echo.Context) error {
	successURL := c.QueryParam("success")
	failureURL := c.QueryParam("failure")

	url, err := h.uc.GoogleSignInURL(c.Request().Context(), successURL, failureURL)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"url": url}, "")
}

type guestModeRequest struct {
	Enabled bool `json:"enabled"`
}

// SetGuestMode toggles the guest override.
func (h *AccountHandler) SetGuestMode(c echo.Context) error {
	var req guestModeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid guest mode input")
	}

	mode := h.uc.SetGuestMode(c.Request().Context(), req.Enabled)

	return response.Success(c, http.StatusOK, map[string]any{
		"guest": req.Enabled,
		"mode":  mode,
	}, "")
}

// Mode reports which backend currently serves requests.
func (h *AccountHandler) Mode(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]any{"mode": h.uc.Mode()}, "")
}
