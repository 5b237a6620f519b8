package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"learnpath/internal/config"
	"learnpath/internal/db"
	apihttp "learnpath/internal/http"
	"learnpath/internal/llm"
	"learnpath/internal/logging"
	"learnpath/internal/prompt"
	"learnpath/internal/repository"
	"learnpath/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	gateway, err := llm.NewGateway(ctx, cfg.LLMConfig(prompt.System), logger)
	if err != nil {
		logger.Fatal("llm gateway init", zap.Error(err))
	}

	var roadmapRepo repository.RoadmapRepository
	if cfg.DatabaseURL != "" {
		pool, err := connectDB(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		roadmapRepo = repository.NewPgRoadmapRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, roadmaps will not be persisted")
	}

	var roadmapCache service.RoadmapCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, roadmap cache disabled", zap.Error(err))
		} else {
			roadmapCache = service.NewRedisRoadmapCache(redisClient, cfg.RoadmapCacheTTL, logger)
		}
		cancel()
	}

	sessions := service.NewSessionRegistry(gateway, cfg.ChatMaxInputLength, logger)
	roadmapSvc := service.NewRoadmapService(gateway, roadmapRepo, roadmapCache, logger)

	chatHandler := apihttp.NewChatHandler(logger, sessions)
	roadmapHandler := apihttp.NewRoadmapHandler(logger, roadmapSvc)
	router := apihttp.NewRouter(logger, chatHandler, roadmapHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.HTTPPort),
			zap.String("llm_provider", cfg.LLMProvider),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

func connectDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
