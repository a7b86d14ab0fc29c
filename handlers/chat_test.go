package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"concierge/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChatService struct {
	lastSessionID string
	lastText      string
	resp          *models.ChatResponse
	err           error
}

func (s *stubChatService) ProcessTurn(ctx context.Context, sessionID, userText string) (*models.ChatResponse, error) {
	s.lastSessionID = sessionID
	s.lastText = userText
	if s.err != nil {
		return nil, s.err
	}
	resp := *s.resp
	resp.SessionID = sessionID
	return &resp, nil
}

func chatTestRouter(svc *stubChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewChatHandler(svc, zap.NewNop())
	router.POST("/api/chat", handler.HandleTurn)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleTurnReturnsReply(t *testing.T) {
	svc := &stubChatService{resp: &models.ChatResponse{Reply: "hello there"}}
	router := chatTestRouter(svc)

	w := postChat(t, router, `{"session_id":"sess-1","text":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "hello there", resp.Reply)
	assert.Equal(t, "hi", svc.lastText)
}

func TestHandleTurnGeneratesSessionID(t *testing.T) {
	svc := &stubChatService{resp: &models.ChatResponse{Reply: "ok"}}
	router := chatTestRouter(svc)

	w := postChat(t, router, `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID, "a missing session id must be minted server-side")
	assert.Equal(t, resp.SessionID, svc.lastSessionID)
}

func TestHandleTurnRejectsMalformedJSON(t *testing.T) {
	svc := &stubChatService{resp: &models.ChatResponse{Reply: "ok"}}
	router := chatTestRouter(svc)

	w := postChat(t, router, `{"text": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleTurnMapsServiceFailure(t *testing.T) {
	svc := &stubChatService{err: errors.New("session store down")}
	router := chatTestRouter(svc)

	w := postChat(t, router, `{"session_id":"sess-1","text":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Failed to process message"))
}
