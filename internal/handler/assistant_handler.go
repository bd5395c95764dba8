package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/harborpoint/dealroom/internal/pkg/errcode"
	appErr "github.com/harborpoint/dealroom/internal/pkg/errors"
	"github.com/harborpoint/dealroom/internal/pkg/response"
	"github.com/harborpoint/dealroom/internal/service"
)

type AssistantHandler struct {
	assistant *service.AssistantService
}

func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type assistantChatRequest struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id"`
}

func (h *AssistantHandler) Chat(c *gin.Context) {
	var req assistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	investmentID := c.Param("id")
	answer, convID, err := h.assistant.Chat(c.Request.Context(), investmentID, req.Question, req.ConversationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAIUnavailable):
			response.Error(c, errcode.ErrAIUnavailable, "ai not configured")
		case errors.Is(err, appErr.ErrNotIndexed),
			errors.Is(err, appErr.ErrNotFound),
			errors.Is(err, appErr.ErrInvalid):
			handleError(c, err)
		default:
			// Backend failures carry the underlying message so the caller
			// can log or display it; no retry happens on this side.
			response.Error(c, errcode.ErrAIBackend, err.Error())
		}
		return
	}
	response.Success(c, gin.H{
		"answer":          answer.AnswerText,
		"citations":       answer.Citations,
		"conversation_id": convID,
	})
}

func (h *AssistantHandler) Conversation(c *gin.Context) {
	conversationID := c.Param("id")
	if conversationID == "" {
		response.Error(c, errcode.ErrInvalid, "conversation id required")
		return
	}
	conv, turns, err := h.assistant.Conversation(c.Request.Context(), conversationID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"conversation": conv, "turns": turns})
}
