package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-service/internal/auth"
	"inventory-service/internal/cache"
	"inventory-service/internal/commands"
	"inventory-service/internal/config"
	"inventory-service/internal/events"
	"inventory-service/internal/handlers"
	"inventory-service/internal/repository"
	"inventory-service/pkg/logger"
	"inventory-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "inventory-service/docs" // Import docs for Swagger
)

// @title           Inventory Service API
// @version         1.0
// @description     Inventory records with a per-item change history, CSV import and export.

// @host      localhost:3000
// @BasePath  /api

// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("Starting Inventory Service",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageDriver),
	)

	store, err := openStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	appCache := cache.NewCache(cfg, appLogger)
	publisher := events.NewPublisher(cfg, appLogger)
	commandHandler := commands.NewHandler(store, publisher, appCache, appLogger)
	inventoryHandler := handlers.NewInventoryHandler(appLogger, cfg, store, commandHandler, appCache)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// CORS first so preflight requests never reach the rest of the chain
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(middleware.RequestIDMiddleware(appLogger))
	router.Use(logger.GinMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	var authorize gin.HandlerFunc
	if cfg.AuthEnabled {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, appLogger)
		authHandler := auth.NewAuthHandler(jwtManager, cfg.AuthUsers, appLogger)
		api.POST("/auth/login", authHandler.Login)
		authorize = middleware.AuthMiddleware(jwtManager, appLogger)
		appLogger.Info("JWT auth enabled for write endpoints",
			zap.Int("users", len(cfg.AuthUsers)),
			zap.Duration("token_ttl", auth.TokenTTL),
		)
	}

	inventoryHandler.RegisterRoutes(api, authorize)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	for name, resource := range map[string]interface{}{"publisher": publisher, "cache": appCache} {
		if closer, ok := resource.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				appLogger.Warn("Failed to close resource", zap.String("resource", name), zap.Error(err))
			}
		}
	}

	appLogger.Info("Server exited")
}

// openStore initializes the configured storage backend. The JSON backend
// creates its files with an empty array when they are missing.
func openStore(cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageJSON:
		log.Info("Initializing JSON file storage", zap.String("data_dir", cfg.DataDir))
		return repository.NewJSONStore(cfg.DataDir)
	case config.StorageSQLite:
		log.Info("Initializing SQLite storage", zap.String("path", cfg.SQLitePath))
		return repository.NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
