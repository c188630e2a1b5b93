package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/vimtodo/core/internal/application/autosave"
	"github.com/vimtodo/core/internal/infrastructure/logger"
	"github.com/vimtodo/core/internal/ports"
)

// NoteHandler serves notes and their editing sessions.
type NoteHandler struct {
	workspaces Workspaces
	logger     *logger.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(workspaces Workspaces, logger *logger.Logger) *NoteHandler {
	return &NoteHandler{
		workspaces: workspaces,
		logger:     logger,
	}
}

// List godoc
// @Summary List notes, newest first
// @Tags notes
// @Produce json
// @Success 200 {array} entities.Note
// @Security BearerAuth
// @Router /notes [get]
func (h *NoteHandler) List(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ws.Notes())
}

// Get godoc
// @Summary Get a note
// @Tags notes
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} entities.Note
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}
	note, err := ws.Note(c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, note)
}

// Create godoc
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Param request body ports.CreateNoteRequest true "Note"
// @Success 201 {object} entities.Note
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notes [post]
func (h *NoteHandler) Create(c echo.Context) error {
	var req ports.CreateNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	note, err := ws.AddNote(c.Request().Context(), req.Title, req.Content, req.Images)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, note)
}

// UpdateContent godoc
// @Summary Replace a note's content
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body ports.UpdateNoteContentRequest true "Content"
// @Success 200 {object} entities.Note
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/content [put]
func (h *NoteHandler) UpdateContent(c echo.Context) error {
	var req ports.UpdateNoteContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	note, err := ws.UpdateNote(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, note)
}

// AddImage godoc
// @Summary Attach an image to a note
// @Description The reference is a URL or a data: URI
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body ports.AddImageRequest true "Image"
// @Success 200 {object} entities.Note
// @Security BearerAuth
// @Router /notes/{id}/images [post]
func (h *NoteHandler) AddImage(c echo.Context) error {
	var req ports.AddImageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	note, err := ws.AddImageToNote(c.Request().Context(), c.Param("id"), req.URL)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, note)
}

// RemoveImage godoc
// @Summary Detach the image at a position
// @Tags notes
// @Produce json
// @Param id path string true "Note ID"
// @Param index path int true "Image position"
// @Success 200 {object} entities.Note
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/images/{index} [delete]
func (h *NoteHandler) RemoveImage(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid image index")
	}
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	note, err := ws.RemoveImageFromNote(c.Request().Context(), c.Param("id"), index)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, note)
}

// Delete godoc
// @Summary Delete a note
// @Tags notes
// @Param id path string true "Note ID"
// @Success 204
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	if err := ws.DeleteNote(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// OpenSession godoc
// @Summary Start editing a note
// @Description Switching from another note flushes that note's draft first
// @Tags sessions
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} ports.SessionResponse
// @Security BearerAuth
// @Router /notes/{id}/session [post]
func (h *NoteHandler) OpenSession(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	state, err := ws.OpenSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, sessionResponse(state))
}

// EditDraft godoc
// @Summary Replace the draft being edited
// @Description The draft is saved once edits pause for the debounce delay
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Note ID"
// @Param request body ports.DraftRequest true "Draft"
// @Success 200 {object} ports.SessionResponse
// @Failure 409 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/session/draft [put]
func (h *NoteHandler) EditDraft(c echo.Context) error {
	var req ports.DraftRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	state, err := ws.EditDraft(c.Param("id"), req.Content)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, sessionResponse(state))
}

// FlushSession godoc
// @Summary Save the draft now
// @Tags sessions
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} ports.SessionResponse
// @Failure 409 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/session/flush [post]
func (h *NoteHandler) FlushSession(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	state, err := ws.FlushSession(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, sessionResponse(state))
}

// EndSession godoc
// @Summary Stop editing a note, saving any unsaved draft
// @Tags sessions
// @Param id path string true "Note ID"
// @Success 204
// @Failure 409 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /notes/{id}/session [delete]
func (h *NoteHandler) EndSession(c echo.Context) error {
	ws, err := workspaceFor(c, h.workspaces)
	if err != nil {
		return err
	}

	if err := ws.EndSession(c.Request().Context(), c.Param("id")); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func sessionResponse(state autosave.State) ports.SessionResponse {
	return ports.SessionResponse{
		NoteID:  state.NoteID,
		Draft:   state.Draft,
		Pending: state.Pending,
		Dirty:   state.Dirty,
	}
}
