package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vimtodo/core/internal/application/stats"
	"github.com/vimtodo/core/internal/domain/entities"
	"github.com/vimtodo/core/internal/infrastructure/logger"
)

// WorkspaceHandler serves history, preferences and statistics.
type WorkspaceHandler struct {
	workspaces Workspaces
	logger     *logger.Logger
	now        func() time.Time
}

// NewWorkspaceHandler creates a new workspace handler. A nil now uses the
// wall clock.
func NewWorkspaceHandler(workspaces Workspaces, logger *logger.Logger, now func() time.Time) *WorkspaceHandler {
	if now == nil {
		now = time.Now
	}
	return &WorkspaceHandler{
		workspaces: workspaces,
		logger:     logger,
		now:        now,
	}
}

// History godoc
// @Summary List completion history, newest first
// @Tags history
// @Produce json
// @Success 200 {array} entities.HistoryEntry
// @Security BearerAuth
// @Router /history [get]
func (h *WorkspaceHandler) History(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.History())
}

// GetConfig godoc
// @Summary Get preferences
// @Tags config
// @Produce json
// @Success 200 {object} entities.AppConfig
// @Security BearerAuth
// @Router /config [get]
func (h *WorkspaceHandler) GetConfig(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.Config())
}

// UpdateConfig godoc
// @Summary Change some preferences
// @Description Omitted fields keep their current value
// @Tags config
// @Accept json
// @Produce json
// @Param request body entities.AppConfigPatch true "Changed fields"
// @Success 200 {object} entities.AppConfig
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /config [patch]
func (h *WorkspaceHandler) UpdateConfig(c echo.Context) error {
	var patch entities.AppConfigPatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	cfg, err := ws.UpdateConfig(c.Request().Context(), patch)
	if err != nil {
		return toHTTPError(err)
	}
	if owner := ws.Owner(); owner != nil {
		h.logger.LogUserAction(owner.String(), "update_config", map[string]interface{}{"theme": cfg.Theme})
	}
	return c.JSON(http.StatusOK, cfg)
}

// Stats godoc
// @Summary Completion statistics and the 52-week heat map
// @Description Days are bucketed in the server's zone unless tz names an IANA zone
// @Tags stats
// @Produce json
// @Param tz query string false "IANA time zone, e.g. Europe/Berlin"
// @Success 200 {object} stats.Summary
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /stats [get]
func (h *WorkspaceHandler) Stats(c echo.Context) error {
	now := h.now()
	if tz := c.QueryParam("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown time zone")
		}
		now = now.In(loc)
	}

	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats.Compute(ws.Tasks(), now))
}
