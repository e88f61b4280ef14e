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

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"hack-adventure/internal/commands"
	"hack-adventure/internal/config"
	"hack-adventure/internal/content"
	"hack-adventure/internal/database"
	"hack-adventure/internal/handler"
	"hack-adventure/internal/interfaces"
	"hack-adventure/internal/messaging"
	"hack-adventure/internal/personality"
	"hack-adventure/internal/progression"
	"hack-adventure/internal/service"
	"hack-adventure/pkg/logger"
	"hack-adventure/pkg/migration"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
		Service:  "hack-adventure",
		Env:      cfg.Env,
		Sample:   cfg.Env != "development",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)
	log.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- External Connections ---
	pgPool, err := setupPostgres(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	migrator := migration.NewMigrator(migration.Config{
		MigrationsFS:   database.MigrationsFS,
		MigrationsPath: database.MigrationsPath,
	}, pgPool)
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	var leaderboard interfaces.Leaderboard
	if cfg.RedisAddr != "" {
		redisClient, err := setupRedis(ctx, cfg, log)
		if err != nil {
			log.Warn("Redis is unavailable, leaderboard is served from PostgreSQL only", zap.Error(err))
		} else {
			defer redisClient.Close()
			leaderboard = database.NewRedisLeaderboard(redisClient, log)
		}
	} else {
		log.Warn("REDIS_ADDR is empty, leaderboard is served from PostgreSQL only")
	}

	var publisher interfaces.ProgressPublisher = messaging.NewNopPublisher(log)
	if cfg.RabbitMQURL != "" {
		mqConn, err := connectRabbitMQ(ctx, cfg.RabbitMQURL, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer mqConn.Close()
		mqPublisher, err := messaging.NewRabbitMQProgressPublisher(mqConn, cfg.ProgressQueue, log)
		if err != nil {
			log.Fatal("Failed to create progress publisher", zap.Error(err))
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
	} else {
		log.Warn("rabbitmq_url secret is not set, progress events are not published")
	}

	// --- Dependency Injection ---
	catalog := content.FromDir(cfg.ContentDir, log.Named("Content"))
	tutorial := progression.DefaultTutorial()
	classifier := personality.DefaultClassifier()
	registry := commands.Builtin(commands.Deps{
		Missions:   catalog,
		Tutorial:   tutorial,
		Classifier: classifier,
	})
	if missing := registry.Missing(); len(missing) > 0 {
		log.Fatal("Command registry is incomplete", zap.Any("missing", missing))
	}

	gameService := service.NewGameService(service.Deps{
		Profiles:    database.NewPgProfileRepository(pgPool, log),
		Leaderboard: leaderboard,
		Publisher:   publisher,
		Registry:    registry,
		Catalog:     catalog,
		Tutorial:    tutorial,
		Classifier:  classifier,
		Metrics:     service.NewMetrics(prometheus.DefaultRegisterer),
		Logger:      log,
	})

	warmCtx, warmCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := gameService.WarmLeaderboard(warmCtx); err != nil {
		log.Warn("Failed to warm leaderboard", zap.Error(err))
	}
	warmCancel()

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}
	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: cfg.GetAllowedOrigins(),
		EnableMetrics:  true,
	}, handler.NewGameHandler(gameService, log), log)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exiting")
}
