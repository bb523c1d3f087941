package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-planner/internal/api"
	"recipe-planner/internal/api/middleware"
	"recipe-planner/internal/core/ai/cache"
	"recipe-planner/internal/core/ai/queue"
	aiService "recipe-planner/internal/core/ai/service"
	"recipe-planner/internal/core/auth"
	"recipe-planner/internal/core/recipe"
	"recipe-planner/internal/core/recipe/repository"
	"recipe-planner/internal/core/service"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("Configuration loaded",
		zap.String("llm_api_key", config.MaskSecret(cfg.LLM.APIKey)),
		zap.String("llm_model", cfg.LLM.Model),
		zap.String("storage", cfg.Storage),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// 資料庫
	var (
		recipes recipe.Repository
		users   auth.UserRepository
		closeDB = func(context.Context) error { return nil }
	)
	switch cfg.Storage {
	case "memory":
		common.LogWarn("Using in-memory storage; data is lost on restart")
		recipes = repository.NewMemoryRecipeRepository()
		users = repository.NewMemoryUserRepository()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
		store, err := repository.Connect(ctx, &cfg.Mongo)
		cancel()
		if err != nil {
			common.LogFatal("Failed to connect to MongoDB", zap.Error(err))
		}
		ctx, cancel = context.WithTimeout(context.Background(), cfg.Mongo.Timeout)
		if err := store.Recipes().EnsureIndexes(ctx); err != nil {
			common.LogWarn("Failed to ensure indexes", zap.Error(err))
		}
		cancel()
		recipes = store.Recipes()
		users = store.Users()
		closeDB = store.Close
	}

	// 快取
	cacheStore, err := cache.New(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	// 模型與隊列
	llm := service.NewLLMService(&cfg.LLM)
	defer llm.Close()
	queueManager := queue.NewManager(&cfg.Queue, llm)
	defer queueManager.Close()
	ai, err := aiService.NewService(llm, queueManager)
	if err != nil {
		common.LogFatal("Failed to initialize AI service", zap.Error(err))
	}

	// 驗證
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = common.GenerateUUID()
		common.LogWarn("JWT secret not configured; session tokens will not survive a restart")
	}
	authSvc := auth.NewService(
		auth.NewGoogleVerifier(&cfg.Auth),
		auth.NewTokenIssuer(jwtSecret, cfg.Auth.JWTTTL),
		users,
	)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	defer dedup.Close()

	deps := &api.Dependencies{
		Recipes:   recipe.NewService(recipes, cfg.Planner.SearchLimit, cfg.Planner.ListLimit),
		Generator: recipe.NewGenerationService(ai, cacheStore),
		Auth:      authSvc,
		Queue:     ai,
		Dedup:     dedup,
	}
	if manager, ok := cacheStore.(*cache.CacheManager); ok {
		deps.Cache = manager
	}

	router, err := api.SetupRouter(cfg, deps)
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("Starting application",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}
	if err := closeDB(ctx); err != nil {
		common.LogError("Failed to close database", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
