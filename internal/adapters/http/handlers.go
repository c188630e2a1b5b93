package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vimtodo/core/internal/application/services"
	"github.com/vimtodo/core/internal/application/workspace"
	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/infrastructure/logger"
	"github.com/vimtodo/core/internal/ports"
)

// ContextKeyUser is the echo context key the auth middleware stores the
// owner id under.
const ContextKeyUser = "user"

// Workspaces hands out per-owner workspaces.
type Workspaces interface {
	Get(ctx context.Context, owner uuid.UUID) (*workspace.Workspace, error)
	Release(ctx context.Context, owner uuid.UUID) error
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	workspaces  Workspaces
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, workspaces Workspaces, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		workspaces:  workspaces,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.RegisterRequest true "Credentials"
// @Success 201 {object} ports.AuthResponse
// @Failure 400 {object} ports.ErrorResponse
// @Failure 409 {object} ports.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, response)
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} ports.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.LogSecurityEvent("login_failed", "", c.RealIP(), map[string]interface{}{"email": req.Email})
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, response)
}

// RefreshToken godoc
// @Summary Rotate a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} ports.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req ports.RefreshTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	response, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, response)
}

// Logout godoc
// @Summary Sign out, flushing any open editing session
// @Tags auth
// @Produce json
// @Success 200 {object} ports.MessageResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, err := ownerFromContext(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.workspaces.Release(ctx, userID); err != nil {
		h.logger.Warnw("Failed to flush workspace on logout", "user_id", userID, "error", err)
	}
	if err := h.authService.Logout(ctx, userID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Logged out successfully"})
}

// Utility functions

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func ownerFromContext(c echo.Context) (uuid.UUID, error) {
	userIDStr, ok := c.Get(ContextKeyUser).(string)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
	}
	return userID, nil
}

// toHTTPError maps domain errors onto status codes. Anything unrecognised is
// returned unchanged and ends up as a 500.
func toHTTPError(err error) error {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrNoteNotFound),
		errors.Is(err, entities.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	case errors.Is(err, entities.ErrEmptyText),
		errors.Is(err, entities.ErrEmptyTitle),
		errors.Is(err, entities.ErrInvalidPriority),
		errors.Is(err, entities.ErrImageIndex),
		errors.Is(err, entities.ErrEmptyImage),
		errors.As(err, &validationErrs):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, entities.ErrUserExists),
		errors.Is(err, entities.ErrNoActiveSession):
		return echo.NewHTTPError(http.StatusConflict, err.Error()).SetInternal(err)
	case errors.Is(err, entities.ErrInvalidCredentials),
		errors.Is(err, entities.ErrUnauthorized),
		errors.Is(err, entities.ErrNoOwner):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error()).SetInternal(err)
	default:
		return err
	}
}

func workspaceFor(c echo.Context, workspaces Workspaces) (*workspace.Workspace, error) {
	owner, err := ownerFromContext(c)
	if err != nil {
		return nil, err
	}
	ws, err := workspaces.Get(c.Request().Context(), owner)
	if err != nil {
		return nil, toHTTPError(err)
	}
	return ws, nil
}
