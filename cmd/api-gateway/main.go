package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/od-portal-api/api/swagger"
	"github.com/noah-isme/od-portal-api/internal/handler"
	internalmiddleware "github.com/noah-isme/od-portal-api/internal/middleware"
	"github.com/noah-isme/od-portal-api/internal/repository"
	"github.com/noah-isme/od-portal-api/internal/service"
	"github.com/noah-isme/od-portal-api/pkg/cache"
	"github.com/noah-isme/od-portal-api/pkg/config"
	"github.com/noah-isme/od-portal-api/pkg/database"
	"github.com/noah-isme/od-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/od-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/od-portal-api/pkg/middleware/requestid"
)

// @title OD Portal API
// @version 0.1.0
// @description On-duty request submission and review service
// @BasePath /api
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Reports.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	whitelistRepo := repository.NewWhitelistRepository(db)
	timingRepo := repository.NewTimingRepository(db)
	odRepo := repository.NewODRepository(db)

	authSvc := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.Auth.JWTSecret})
	authzSvc := service.NewAuthzService(whitelistRepo, cfg.Auth.TrustedDomain, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	timingSvc := service.NewTimingService(timingRepo, validate, logr)
	odSvc := service.NewODService(odRepo, timingRepo, cacheSvc, validate, logr)
	reportSvc := service.NewReportService(odRepo, cacheSvc, cfg.Reports.CacheTTL, logr)
	whitelistSvc := service.NewWhitelistService(whitelistRepo, validate, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(metricsSvc))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := handler.Handlers{
		User:      handler.NewUserHandler(userSvc),
		OD:        handler.NewODHandler(odSvc),
		Timing:    handler.NewTimingHandler(timingSvc),
		Report:    handler.NewReportHandler(reportSvc),
		Whitelist: handler.NewWhitelistHandler(whitelistSvc),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc, authzSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
