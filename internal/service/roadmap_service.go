package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"learnpath/internal/domain"
	"learnpath/internal/llm"
	"learnpath/internal/prompt"
	"learnpath/internal/repository"
)

const (
	MinRoadmapWeeks = 1
	MaxRoadmapWeeks = 52

	defaultRoadmapListLimit = 20
	maxRoadmapListLimit     = 100
)

var (
	ErrRoadmapNotFound           = errors.New("roadmap not found")
	ErrRoadmapStoreNotConfigured = errors.New("roadmap store not configured")
)

// RoadmapService genera roadmaps con el LLM y solo entrega los que pasan la validacion del schema.
type RoadmapService struct {
	llmClient llm.Client
	repo      repository.RoadmapRepository
	cache     RoadmapCache
	logger    *zap.Logger
}

// NewRoadmapService acepta repo y cache nil: sin ellos se genera igual pero no se guarda.
func NewRoadmapService(llmClient llm.Client, repo repository.RoadmapRepository, cache RoadmapCache, logger *zap.Logger) *RoadmapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoadmapService{
		llmClient: llmClient,
		repo:      repo,
		cache:     cache,
		logger:    logger,
	}
}

func (s *RoadmapService) Generate(ctx context.Context, profile domain.UserProfile, weeks int) (domain.StoredRoadmap, error) {
	profile = profile.Normalize()
	if err := profile.Validate(); err != nil {
		return domain.StoredRoadmap{}, err
	}
	if weeks < MinRoadmapWeeks || weeks > MaxRoadmapWeeks {
		return domain.StoredRoadmap{}, domain.NewValidationError("duration_week",
			"duration_week must be between %d and %d, got %d", MinRoadmapWeeks, MaxRoadmapWeeks, weeks)
	}

	key := roadmapCacheKey(profile, weeks)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			s.logger.Info("roadmap served from cache", zap.String("roadmap_id", cached.ID))
			return cached, nil
		}
	}

	raw, err := s.llmClient.GenerateText(ctx, prompt.Roadmap(profile, weeks))
	if err != nil {
		return domain.StoredRoadmap{}, err
	}

	payload := ExtractJSON(raw)
	if payload == "" {
		s.logger.Warn("llm roadmap response has no json object", zap.Int("response_length", len(raw)))
		return domain.StoredRoadmap{}, domain.NewValidationError("roadmap", "llm response does not contain a JSON object")
	}

	roadmap, err := domain.ParseRoadmap([]byte(payload))
	if err != nil {
		s.logger.Warn("generated roadmap rejected", zap.Int("weeks", weeks), zap.Error(err))
		return domain.StoredRoadmap{}, err
	}
	if roadmap.DurationWeek != weeks {
		return domain.StoredRoadmap{}, domain.NewValidationError("duration_week",
			"requested %d weeks but roadmap has duration_week %d", weeks, roadmap.DurationWeek)
	}

	stored := domain.StoredRoadmap{
		ID:        uuid.NewString(),
		Profile:   profile,
		Roadmap:   roadmap,
		CreatedAt: roadmap.CreatedAt,
	}

	if s.repo != nil {
		if err := s.repo.Create(ctx, stored); err != nil {
			s.logger.Error("persist roadmap failed", zap.String("roadmap_id", stored.ID), zap.Error(err))
		}
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, stored)
	}

	s.logger.Info("roadmap generated",
		zap.String("roadmap_id", stored.ID),
		zap.String("topic", roadmap.Topic),
		zap.Int("weeks", weeks),
	)
	return stored, nil
}

func (s *RoadmapService) Get(ctx context.Context, id string) (domain.StoredRoadmap, error) {
	if s.repo == nil {
		return domain.StoredRoadmap{}, ErrRoadmapStoreNotConfigured
	}
	if _, err := uuid.Parse(id); err != nil {
		return domain.StoredRoadmap{}, ErrRoadmapNotFound
	}
	stored, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.StoredRoadmap{}, ErrRoadmapNotFound
	}
	if err != nil {
		return domain.StoredRoadmap{}, fmt.Errorf("get roadmap: %w", err)
	}
	return stored, nil
}

func (s *RoadmapService) List(ctx context.Context, limit int) ([]domain.StoredRoadmap, error) {
	if s.repo == nil {
		return nil, ErrRoadmapStoreNotConfigured
	}
	if limit <= 0 {
		limit = defaultRoadmapListLimit
	}
	if limit > maxRoadmapListLimit {
		limit = maxRoadmapListLimit
	}
	roadmaps, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}
	if roadmaps == nil {
		roadmaps = []domain.StoredRoadmap{}
	}
	return roadmaps, nil
}
