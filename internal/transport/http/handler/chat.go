package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"synapnote/internal/app"
	"synapnote/internal/transport/http/middleware"
	"synapnote/internal/transport/http/response"
)

type ChatHandler struct {
	conversationService *app.ConversationService
}

type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

func NewChatHandler(conversationService *app.ConversationService) *ChatHandler {
	return &ChatHandler{conversationService: conversationService}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Message is required")
		return
	}

	result, err := h.conversationService.SendTurn(c.Request.Context(), app.SendTurnInput{
		UserID:    userID,
		NoteID:    noteID,
		Message:   req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty):
			response.Fail(c, http.StatusBadRequest, "Message is required")
		case errors.Is(err, app.ErrNoteNotFound):
			response.Fail(c, http.StatusNotFound, "Note not found or unauthorized")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Failed to process chat message", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "ok", gin.H{
		"response":        result.Response,
		"session_id":      result.SessionID,
		"conversation_id": result.ConversationID,
	})
}

func (h *ChatHandler) GetConversations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	noteID, ok := noteIDParam(c)
	if !ok {
		return
	}

	conversations, err := h.conversationService.GetHistory(c.Request.Context(), userID, noteID, c.Query("session_id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoteNotFound):
			response.Fail(c, http.StatusNotFound, "Note not found or unauthorized")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Failed to fetch conversation history", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "ok", gin.H{"conversations": conversations})
}

func (h *ChatHandler) ClearConversation(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.conversationService.Clear(c.Request.Context(), c.Param("sessionId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			response.Fail(c, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, app.ErrInvalidInput):
			response.Fail(c, http.StatusBadRequest, "Invalid session id")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Failed to clear conversation", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Conversation cleared successfully", nil)
}

func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.conversationService.Delete(c.Request.Context(), c.Param("sessionId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			response.Fail(c, http.StatusNotFound, "Conversation not found")
		case errors.Is(err, app.ErrInvalidInput):
			response.Fail(c, http.StatusBadRequest, "Invalid session id")
		default:
			response.FailWithError(c, http.StatusInternalServerError, "Failed to delete conversation", err)
		}
		return
	}

	response.OK(c, http.StatusOK, "Conversation deleted successfully", nil)
}
