package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"hack-adventure/pkg/middleware"
)

// RouterConfig — настройки HTTP-слоя.
type RouterConfig struct {
	AllowedOrigins []string
	// EnableMetrics регистрирует go-gin-prometheus и /metrics в глобальном реестре.
	EnableMetrics bool
}

// NewRouter собирает gin.Engine со всеми middleware и маршрутами игры.
func NewRouter(cfg RouterConfig, gameHandler *GameHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLogger(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	gameHandler.RegisterRoutes(router)

	// Prometheus подключается после регистрации маршрутов, /metrics отдает и игровые счетчики.
	if cfg.EnableMetrics {
		p := ginprometheus.NewPrometheus("gin")
		p.Use(router)
	}
	return router
}
