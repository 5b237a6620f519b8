package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"learnpath/internal/service"
)

// ChatHandler expone las sesiones de chat y el stream de respuestas.
type ChatHandler struct {
	logger   *zap.Logger
	sessions *service.SessionRegistry
}

func NewChatHandler(logger *zap.Logger, sessions *service.SessionRegistry) *ChatHandler {
	return &ChatHandler{logger: logger, sessions: sessions}
}

// CreateSession maneja POST /sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	session := h.sessions.Create()
	c.JSON(http.StatusCreated, gin.H{
		"session_id": session.ID,
		"created_at": session.CreatedAt,
	})
}

// PostMessage maneja POST /sessions/:id/messages y responde con Server-Sent Events:
// un evento "chunk" por fragmento y un "done" al cerrar el turno.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		respondError(c, h.logger, invalidBody(err))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	chunks := 0
	for chunk := range session.Send(c.Request.Context(), req.Content) {
		c.SSEvent("chunk", gin.H{"text": chunk})
		c.Writer.Flush()
		chunks++
	}
	c.SSEvent("done", gin.H{"session_id": session.ID, "chunks": chunks})
	c.Writer.Flush()
}

// ListMessages maneja GET /sessions/:id/messages.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": session.Messages()})
}

// ClearMessages maneja DELETE /sessions/:id/messages.
func (h *ChatHandler) ClearMessages(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	session.Clear()
	c.Status(http.StatusNoContent)
}

// DeleteSession maneja DELETE /sessions/:id.
func (h *ChatHandler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
