package server

import (
	"club-management-system/config"
	"club-management-system/internal/global/database"
	"club-management-system/internal/global/httpclient"
	"club-management-system/internal/global/logger"
	"club-management-system/internal/global/middleware"
	"club-management-system/internal/global/redis"
	"club-management-system/internal/global/sentry"
	"club-management-system/internal/module"
	"club-management-system/internal/module/recruit"
	"club-management-system/tools"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

var log = slog.Default()

// recruitSyncInterval 招新自动开关的检查周期
const recruitSyncInterval = time.Minute

func Init() {
	config.Init()
	log = logger.New("Server")

	tools.PanicOnErr(sentry.Init())
	if sentry.Enabled() {
		log.Info("Sentry Enabled")
	}

	database.Init()

	tools.PanicOnErr(redis.Init())
	if redis.Client == nil {
		log.Warn("未配置 Redis，缓存和浏览去重不可用")
	}

	httpclient.Init()

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

// NewRouter 注册中间件和所有模块的路由
func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(sentry.Middleware())
	r.Use(sentry.EnrichScope())
	r.Use(middleware.Metrics())
	switch cfg.Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())

	// 本地存储的文件
	if strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		if !tools.FileExist(cfg.Storage.Home) {
			tools.PanicOnErr(os.MkdirAll(cfg.Storage.Home, os.ModePerm))
		}
		r.Static(cfg.Storage.BaseURL, cfg.Storage.Home)
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + cfg.Prefix))
	}
	return r
}

func Run() {
	cfg := config.Get()
	gin.SetMode(string(cfg.Mode))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go recruit.RunSync(ctx, database.DB, redis.Client, recruitSyncInterval)

	go func() {
		log.Info("Server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	redis.Close()
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	sentry.Flush(2 * time.Second)
}
