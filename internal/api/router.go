package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authHandler "recipe-hub/internal/api/handlers/auth"
	"recipe-hub/internal/api/handlers/health"
	recipeHandler "recipe-hub/internal/api/handlers/recipe"
	userHandler "recipe-hub/internal/api/handlers/user"
	"recipe-hub/internal/api/middleware"
	"recipe-hub/internal/core/provider"
	recipeService "recipe-hub/internal/core/recipe"
	userService "recipe-hub/internal/core/user"
	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/infrastructure/store"
	"recipe-hub/internal/pkg/common"
)

const (
	// timeoutDuration bounds a whole request, provider round trips included.
	timeoutDuration = 30 * time.Second
	// maxBodySize limits request bodies to 1MB. Recipe payloads are small.
	maxBodySize = 1 << 20
)

// SetupRouter wires the services and registers every route.
func SetupRouter(cfg *config.Config, cache recipeService.Cache, st store.Store) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	providerClient := provider.NewClient(&cfg.Provider)
	normalizer := recipeService.NewNormalizer(cfg.Provider.ImageHost)
	recipeSvc := recipeService.NewService(providerClient, cache, normalizer, st)
	annotator := userService.NewAnnotator(st)
	userSvc := userService.NewService(st, recipeSvc, normalizer)
	sessions := middleware.NewSessionManager(&cfg.Session, st)

	common.LogInfo("services initialized",
		zap.String("provider_base_url", cfg.Provider.BaseURL),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("api_key", config.MaskAPIKey(cfg.Provider.APIKey)),
	)

	// Per-request timeout.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeGatewayTimeout,
			})
		}
	})

	router.GET("/health", health.HealthCheck(cfg))
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	recipes := recipeHandler.NewHandler(recipeSvc, annotator)
	users := userHandler.NewHandler(userSvc, annotator, st)
	auth := authHandler.NewHandler(st, sessions)

	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", auth.HandleRegister)
			authGroup.POST("/login", auth.HandleLogin)
			authGroup.POST("/logout", auth.HandleLogout)
		}

		recipeGroup := api.Group("/recipes")
		recipeGroup.Use(sessions.OptionalAuth())
		{
			recipeGroup.GET("/random", recipes.HandleRandom)
			recipeGroup.GET("/search", recipes.HandleSearch)
			recipeGroup.GET("/:id", recipes.HandleRecipeByID)
			recipeGroup.GET("/:id/preparation", recipes.HandlePreparation)
		}

		userGroup := api.Group("/users")
		userGroup.Use(sessions.RequireAuth())
		{
			userGroup.GET("/me", users.HandleProfile)

			userGroup.GET("/favorites", users.HandleListMarked(store.FlagFavorite))
			userGroup.POST("/favorites", users.HandleMark(store.FlagFavorite))
			userGroup.DELETE("/favorites/:id", users.HandleUnmark(store.FlagFavorite))

			userGroup.GET("/liked", users.HandleListMarked(store.FlagLiked))
			userGroup.POST("/liked", users.HandleMark(store.FlagLiked))
			userGroup.DELETE("/liked/:id", users.HandleUnmark(store.FlagLiked))

			userGroup.GET("/meal-plan", users.HandleListMarked(store.FlagMealPlan))
			userGroup.POST("/meal-plan", users.HandleMark(store.FlagMealPlan))
			userGroup.DELETE("/meal-plan/:id", users.HandleUnmark(store.FlagMealPlan))

			userGroup.GET("/last-viewed", users.HandleLastViewed)
			userGroup.POST("/last-viewed", users.HandleRecordView)

			userGroup.GET("/my-recipes", users.HandleListOwnRecipes)
			userGroup.POST("/my-recipes", users.HandleCreateOwnRecipe)
			userGroup.GET("/my-recipes/:id", users.HandleOwnRecipe)
			userGroup.DELETE("/my-recipes/:id", users.HandleDeleteOwnRecipe)

			userGroup.GET("/family-recipes", users.HandleListFamilyRecipes)
			userGroup.POST("/family-recipes", users.HandleCreateFamilyRecipe)
			userGroup.DELETE("/family-recipes/:id", users.HandleDeleteFamilyRecipe)
		}
	}

	common.LogInfo("router setup completed")
	return router, nil
}
