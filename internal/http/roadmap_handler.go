package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/service"
)

type RoadmapHandler struct {
	logger   *zap.Logger
	roadmaps *service.RoadmapService
}

func NewRoadmapHandler(logger *zap.Logger, roadmaps *service.RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{logger: logger, roadmaps: roadmaps}
}

// CreateRoadmap maneja POST /roadmaps.
func (h *RoadmapHandler) CreateRoadmap(c *gin.Context) {
	var req struct {
		Profile      domain.UserProfile `json:"profile"`
		DurationWeek int                `json:"duration_week"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create roadmap request", zap.Error(err))
		respondError(c, h.logger, invalidBody(err))
		return
	}

	stored, err := h.roadmaps.Generate(c.Request.Context(), req.Profile, req.DurationWeek)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"roadmap": stored})
}

// GetRoadmap maneja GET /roadmaps/:id.
func (h *RoadmapHandler) GetRoadmap(c *gin.Context) {
	stored, err := h.roadmaps.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmap": stored})
}

// ListRoadmaps maneja GET /roadmaps?limit=N.
func (h *RoadmapHandler) ListRoadmaps(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.roadmaps.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roadmaps": list})
}
