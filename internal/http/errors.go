package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/service"
)

type envelopeError interface {
	error
	StatusCode() int
	ToMap() map[string]any
}

// respondError traduce errores de dominio y de servicio al envelope {"error": {...}}.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		vErr *domain.ValidationError
		sErr *domain.ServiceError
		iErr *domain.InitError
	)
	switch {
	case errors.As(err, &vErr):
		writeEnvelope(c, vErr)
	case errors.As(err, &sErr):
		logger.Error("llm service error", zap.String("code", sErr.Code()), zap.Error(err))
		writeEnvelope(c, sErr)
	case errors.As(err, &iErr):
		logger.Error("llm init error", zap.Error(err))
		writeEnvelope(c, iErr)
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorBody("SESSION_NOT_FOUND", err.Error(), http.StatusNotFound))
	case errors.Is(err, service.ErrRoadmapNotFound):
		c.JSON(http.StatusNotFound, errorBody("ROADMAP_NOT_FOUND", err.Error(), http.StatusNotFound))
	case errors.Is(err, service.ErrRoadmapStoreNotConfigured):
		c.JSON(http.StatusServiceUnavailable, errorBody("STORE_NOT_CONFIGURED", err.Error(), http.StatusServiceUnavailable))
	default:
		logger.Error("unexpected handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL_ERROR", "internal error", http.StatusInternalServerError))
	}
}

func writeEnvelope(c *gin.Context, err envelopeError) {
	c.JSON(err.StatusCode(), err.ToMap())
}

func errorBody(code, message string, status int) gin.H {
	return gin.H{"error": gin.H{
		"code":        code,
		"message":     message,
		"status_code": status,
	}}
}

func invalidBody(err error) *domain.ValidationError {
	return &domain.ValidationError{Field: "body", Message: "invalid request body", Err: err}
}
