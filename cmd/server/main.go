package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devmart/internal/auth"
	"github.com/devmart/internal/config"
	"github.com/devmart/internal/db"
	"github.com/devmart/internal/handler"
	"github.com/devmart/internal/job"
	"github.com/devmart/internal/logger"
	"github.com/devmart/internal/notify"
	"github.com/devmart/internal/repository"
	"github.com/devmart/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("development")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.Env)
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Open(cfg.DatabasePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	if err := db.EnsureUser(gdb, cfg.AdminUserName, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure admin user")
	}

	reg := repository.NewRegistry(gdb, auth.ContextSession{}, log)

	// 线索通知：有 Redis 走队列，否则进程内发送
	jobs := job.New(cfg, notify.NewMailerFromConfig(cfg, log), log)
	if err := jobs.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start job server")
	}
	defer jobs.Stop()

	api := handler.NewAPI(gdb, reg, jobs.Dispatcher, cfg, log)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router.SetupRouter(api, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("Server stopped")
}
