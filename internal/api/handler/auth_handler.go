package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/laritechfarms/farms-api/internal/api/metrics"
	"github.com/laritechfarms/farms-api/internal/api/middleware"
	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type createUserRequest struct {
	FirstName string `json:"nombre" validate:"required"`
	LastName  string `json:"apellido"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Role      string `json:"rol" validate:"required,oneof=admin gerente supervisor operador"`
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.Session
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrTenantSuspended):
		metrics.LoginsTotal.WithLabelValues("suspended").Inc()
		return err
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return err
	case err != nil:
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, session, "login successful")
}

// Me returns the caller's profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	profile, err := h.authService.Profile(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return ok(c, profile)
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Router       /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if err := h.authService.ChangePassword(c.Request().Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, nil, "password updated")
}

// CreateUser provisions a user inside the caller's tenant.
//
// @Summary      Create user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /auth/users [post]
func (h *AuthHandler) CreateUser(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user := &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
		Active:    true,
	}
	created, err := h.authService.CreateUser(c.Request().Context(), caller, user, req.Password)
	if err != nil {
		return err
	}
	middleware.SetAuditEntityID(c, strconv.FormatInt(created.ID, 10))
	return respond(c, http.StatusCreated, created, "usuario created")
}
