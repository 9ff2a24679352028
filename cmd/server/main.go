package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pagecontent/internal/config"
	"github.com/pagecontent/internal/db"
	"github.com/pagecontent/internal/handler"
	"github.com/pagecontent/internal/logging"
	"github.com/pagecontent/internal/metrics"
	"github.com/pagecontent/internal/router"
	"github.com/pagecontent/internal/service"
	"github.com/pagecontent/internal/tenant"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	scope, err := tenant.Resolve(cfg)
	if err != nil {
		logger.Fatal("failed to resolve tenant", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	gdb, err := db.OpenWithRetry(ctx, db.Options{
		Driver:      cfg.DatabaseDriver,
		DSN:         cfg.DatabaseDSN(),
		AutoMigrate: cfg.AutoMigrate,
		Logger:      logger,
	}, cfg.ConnectTimeout)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)

	pages := service.NewPageService(gdb, scope, cfg.HomePageNames)
	api := handler.NewAPI(gdb, pages, handler.Options{
		Logger:    logger,
		Metrics:   metrics.NewRecorder(),
		Tenant:    scope.String(),
		APIPrefix: cfg.APIPrefix,
		StaticDir: cfg.StaticDir,
	})

	// 设置并运行 Gin 服务器
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(api, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("tenant", scope.String()),
			zap.String("driver", cfg.DatabaseDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
}
