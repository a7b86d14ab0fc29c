// File: handlers/chat.go
package handlers

import (
	"net/http"

	"concierge/models"
	"concierge/services/chat"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatHandler exposes the turn-processing entry point over HTTP.
type ChatHandler struct {
	svc    chat.ChatService
	logger *zap.Logger
}

func NewChatHandler(svc chat.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

// HandleTurn processes one user message for a session. A missing session id
// starts a fresh session.
func (h *ChatHandler) HandleTurn(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid chat request", err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	resp, err := h.svc.ProcessTurn(c.Request.Context(), req.SessionID, req.Text)
	if err != nil {
		h.logger.Error("turn processing failed", zap.String("session", req.SessionID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to process message", err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}
