package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(logger *zap.Logger, chatH *ChatHandler, roadmapH *RoadmapHandler) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessions := r.Group("/sessions")
	sessions.POST("", chatH.CreateSession)
	sessions.DELETE("/:id", chatH.DeleteSession)
	sessions.POST("/:id/messages", chatH.PostMessage)
	sessions.GET("/:id/messages", chatH.ListMessages)
	sessions.DELETE("/:id/messages", chatH.ClearMessages)

	roadmaps := r.Group("/roadmaps")
	roadmaps.POST("", roadmapH.CreateRoadmap)
	roadmaps.GET("", roadmapH.ListRoadmaps)
	roadmaps.GET("/:id", roadmapH.GetRoadmap)

	return r
}

// zapLoggerMiddleware loguea cada request con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fija Content-Type: application/json por defecto; el stream SSE lo reemplaza.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
