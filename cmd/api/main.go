package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe-hub/internal/api"
	"recipe-hub/internal/core/recipe"
	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/infrastructure/store"
	"recipe-hub/internal/pkg/common"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("configuration loaded",
		zap.String("provider_api_key", config.MaskAPIKey(cfg.Provider.APIKey)),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("database_path", cfg.Database.Path),
	)

	cache, err := newCache(cfg)
	if err != nil {
		common.LogFatal("failed to initialize cache", zap.Error(err))
	}
	defer cache.Close()

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		common.LogFatal("failed to open database", zap.Error(err))
	}
	defer st.Close()

	router, err := api.SetupRouter(cfg, cache, st)
	if err != nil {
		common.LogError("failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("starting server",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("server exited")
}

func newCache(cfg *config.Config) (recipe.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return recipe.NewRedisCache(&cfg.Cache)
	default:
		return recipe.NewMemoryCache(&cfg.Cache), nil
	}
}
