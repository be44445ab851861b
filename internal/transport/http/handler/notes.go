package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"synapnote/internal/app"
	"synapnote/internal/transport/http/middleware"
	"synapnote/internal/transport/http/response"
)

type NoteHandler struct {
	noteService *app.NoteService
}

type CreateNoteRequest struct {
	Title   string   `json:"title" binding:"required,max=256"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"required,min=1"`
}

type UpdateNoteRequest struct {
	Title    string   `json:"title" binding:"required,max=256"`
	Content  string   `json:"content" binding:"required"`
	Tags     []string `json:"tags"`
	Pinned   *bool    `json:"pinned"`
	Archived *bool    `json:"archived"`
}

type GenerateContentRequest struct {
	Topic string `json:"topic" binding:"required"`
}

type ImproveContentRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewNoteHandler(noteService *app.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	note, err := h.noteService.Create(c.Request.Context(), app.CreateNoteInput{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		case errors.Is(err, app.ErrUserNotFound):
			response.Fail(c, http.StatusBadRequest, "User doesn't exist")
		case errors.Is(err, app.ErrNotVerified):
			response.Fail(c, http.StatusBadRequest, "User is not verified")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Note created successfully", gin.H{"note": note})
}

func (h *NoteHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notes, err := h.noteService.List(userID)
	if err != nil {
		response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		return
	}

	response.OK(c, http.StatusOK, "Notes fetched successfully", gin.H{"notes": notes})
}

func (h *NoteHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	note, err := h.noteService.Get(noteID, userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoteNotFound):
			response.Fail(c, http.StatusNotFound, "Note not found")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Note fetched successfully", gin.H{"note": note})
}

func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		return
	}

	note, err := h.noteService.Update(c.Request.Context(), app.UpdateNoteInput{
		NoteID:   noteID,
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		Pinned:   req.Pinned,
		Archived: req.Archived,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Fail(c, http.StatusBadRequest, "Please fill all the fields")
		case errors.Is(err, app.ErrNoteNotFound):
			response.Fail(c, http.StatusNotFound, "Note not found")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Note updated successfully", gin.H{"note": note})
}

func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	if err := h.noteService.Delete(noteID, userID); err != nil {
		switch {
		case errors.Is(err, app.ErrNoteNotFound):
			response.Fail(c, http.StatusNotFound, "Note not found")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Note deleted successfully", nil)
}

func (h *NoteHandler) Search(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notes, err := h.noteService.Search(userID, c.Query("query"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrQueryTooShort):
			response.Fail(c, http.StatusBadRequest, "Please provide a valid search query")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Notes fetched successfully", gin.H{"notes": notes})
}

func (h *NoteHandler) ListByTag(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notes, err := h.noteService.ListByTag(userID, c.Param("tag"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Fail(c, http.StatusBadRequest, "Please provide a tag")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Notes fetched successfully", gin.H{"notes": notes})
}

func (h *NoteHandler) GenerateTitle(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	title, err := h.noteService.SuggestTitle(c.Request.Context(), noteID, userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoteNotFound):
			response.Fail(c, http.StatusBadRequest, "Note not found")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Title generated successfully", gin.H{"title": title})
}

func (h *NoteHandler) GenerateContent(c *gin.Context) {
	var req GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please provide a topic")
		return
	}

	content, err := h.noteService.GenerateContent(c.Request.Context(), req.Topic)
	if err != nil {
		response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		return
	}

	response.OK(c, http.StatusOK, "Content generated successfully", gin.H{"content": content})
}

func (h *NoteHandler) ImproveContent(c *gin.Context) {
	var req ImproveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Please provide content")
		return
	}

	content, err := h.noteService.ImproveContent(c.Request.Context(), req.Content)
	if err != nil {
		response.FailWithError(c, http.StatusInternalServerError, "Something went wrong", err)
		return
	}

	response.OK(c, http.StatusOK, "Content improved successfully", gin.H{"content": content})
}

func noteIDParam(c *gin.Context) (uint, bool) {
	noteID64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || noteID64 == 0 {
		response.Fail(c, http.StatusBadRequest, "Invalid note id")
		return 0, false
	}
	return uint(noteID64), true
}
