package api

import (
	"context"
	"errors"
	"time"

	authHandler "recipe-planner/internal/api/handlers/auth"
	groceryHandler "recipe-planner/internal/api/handlers/grocery"
	"recipe-planner/internal/api/handlers/health"
	recipeHandler "recipe-planner/internal/api/handlers/recipe"
	"recipe-planner/internal/api/middleware"
	"recipe-planner/internal/core/auth"
	recipeService "recipe-planner/internal/core/recipe"
	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Recipes   *recipeService.Service
	Generator *recipeService.GenerationService
	Auth      *auth.Service
	Queue     health.QueueReporter
	Cache     health.StatsReporter
	Dedup     *middleware.Deduplicator
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, error) {
	if deps == nil || deps.Recipes == nil || deps.Generator == nil || deps.Auth == nil {
		return nil, errors.New("recipe, generation and auth services are required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(requestTimeout(cfg.Server.RequestTimeout))

	debug := cfg.App.Debug
	dedup := deps.Dedup
	if dedup == nil {
		dedup = middleware.NewDeduplicator(cfg.DedupWindow)
	}

	healthHandler := health.NewHandler(deps.Recipes, deps.Queue, deps.Cache, cfg.App.Version)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	requireAuth := middleware.RequireAuth(deps.Auth, debug)
	api := router.Group("/api")
	{
		authH := authHandler.NewHandler(deps.Auth, debug)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/google", authH.GoogleLogin)
			authGroup.GET("/me", requireAuth, authH.Me)
		}

		recipes := recipeHandler.NewHandler(deps.Recipes, deps.Generator, debug)
		recipeGroup := api.Group("/recipes", requireAuth)
		{
			recipeGroup.GET("/search", recipes.Search)
			recipeGroup.POST("/generate", dedup.Middleware(), recipes.Generate)
			recipeGroup.POST("", recipes.Add)
			recipeGroup.POST("/create", recipes.Create)
			recipeGroup.GET("", recipes.List)
			recipeGroup.GET("/:id", recipes.Get)
			recipeGroup.DELETE("/:id", recipes.Delete)
		}

		groceries := groceryHandler.NewHandler(deps.Recipes, cfg.Planner.MaxSelection, cfg.Planner.RequestTimeout, debug)
		api.POST("/grocery/consolidate", requireAuth, groceries.Consolidate)
	}

	common.LogInfo("Router setup completed",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

// requestTimeout 為每個請求設定逾時
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			common.RespondError(c, common.ErrGatewayTimeout, false)
		}
	}
}
