package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"learnpath/internal/domain"
)

// RoadmapCache guarda roadmaps ya aceptados por perfil y duracion. Las fallas
// del cache nunca rompen la generacion: un error cuenta como miss.
type RoadmapCache interface {
	Get(ctx context.Context, key string) (domain.StoredRoadmap, bool)
	Set(ctx context.Context, key string, roadmap domain.StoredRoadmap)
}

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisRoadmapCache struct {
	client redisKV
	ttl    time.Duration
	prefix string
	logger *zap.Logger
}

func NewRedisRoadmapCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) RoadmapCache {
	if client == nil {
		return nil
	}
	return newRedisRoadmapCache(client, ttl, logger)
}

func newRedisRoadmapCache(client redisKV, ttl time.Duration, logger *zap.Logger) *redisRoadmapCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisRoadmapCache{
		client: client,
		ttl:    ttl,
		prefix: "roadmap:v1:",
		logger: logger,
	}
}

func (c *redisRoadmapCache) Get(ctx context.Context, key string) (domain.StoredRoadmap, bool) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("roadmap cache get failed", zap.String("key", key), zap.Error(err))
		}
		return domain.StoredRoadmap{}, false
	}
	var stored domain.StoredRoadmap
	if err := json.Unmarshal(raw, &stored); err != nil {
		c.logger.Warn("roadmap cache entry corrupt", zap.String("key", key), zap.Error(err))
		return domain.StoredRoadmap{}, false
	}
	return stored, true
}

func (c *redisRoadmapCache) Set(ctx context.Context, key string, roadmap domain.StoredRoadmap) {
	payload, err := json.Marshal(roadmap)
	if err != nil {
		c.logger.Warn("roadmap cache marshal failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := c.client.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("roadmap cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// roadmapCacheKey identifica un pedido por su perfil normalizado y la cantidad de semanas.
func roadmapCacheKey(profile domain.UserProfile, weeks int) string {
	payload, _ := json.Marshal(profile)
	sum := sha256.Sum256(fmt.Appendf(payload, "|%d", weeks))
	return hex.EncodeToString(sum[:])
}
