package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vimtodo/core/internal/infrastructure/logger"
	"github.com/vimtodo/core/internal/ports"
)

// TaskHandler serves the task list of the signed-in owner.
type TaskHandler struct {
	workspaces Workspaces
	logger     *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(workspaces Workspaces, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// List godoc
// @Summary List tasks
// @Description Open tasks come first, then completed ones, each group in the configured sort order
// @Tags tasks
// @Produce json
// @Success 200 {array} entities.Task
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.Tasks())
}

// Create godoc
// @Summary Add a task
// @Description Priority falls back to the configured default when omitted
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	task, err := ws.AddTask(c.Request().Context(), req.Text, req.Priority)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// Update godoc
// @Summary Edit a task's text and priority
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Task"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	var req ports.UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	task, err := ws.UpdateTask(c.Request().Context(), c.Param("id"), req.Text, req.Priority)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// Toggle godoc
// @Summary Flip a task's completion state
// @Description Completing a task also appends an entry to the history log
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	task, err := ws.ToggleTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	if err := ws.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
