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

	"github.com/onoyima/project-exeat-sub001/config"
	"github.com/onoyima/project-exeat-sub001/internal/api/handler"
	"github.com/onoyima/project-exeat-sub001/internal/api/router"
	"github.com/onoyima/project-exeat-sub001/internal/countdown"
	"github.com/onoyima/project-exeat-sub001/internal/repository"
	"github.com/onoyima/project-exeat-sub001/internal/service"
	"github.com/onoyima/project-exeat-sub001/internal/session"
	"github.com/onoyima/project-exeat-sub001/internal/upstream"
	"github.com/onoyima/project-exeat-sub001/internal/workflow"
	"github.com/onoyima/project-exeat-sub001/pkg/database"
	"github.com/onoyima/project-exeat-sub001/pkg/jwt"
	applogger "github.com/onoyima/project-exeat-sub001/pkg/logger"
	"github.com/onoyima/project-exeat-sub001/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("exeat portal starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("final_gate", cfg.Workflow.FinalGate),
	)

	// 3. workflow table; a bad table is a startup error, never a runtime one
	gateCfg, err := cfg.Workflow.GateConfig()
	if err != nil {
		logger.Fatal("invalid workflow config", zap.Error(err))
	}
	gates, err := workflow.NewGateTable(gateCfg)
	if err != nil {
		logger.Fatal("build gate table", zap.Error(err))
	}
	machine := workflow.NewMachine(gates, logger)
	loc, err := cfg.Workflow.Location()
	if err != nil {
		logger.Fatal("load workflow timezone", zap.Error(err))
	}

	// 4. database (drafts)
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 5. redis holds sessions, so the portal cannot run without it
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	// 6. wiring: upstream + repository → service → handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	api := upstream.NewClient(&cfg.Upstream, logger)
	sessions := session.NewRedisStore(rdb)
	ticker := countdown.NewTicker(cfg.Countdown.MultiDayTick, cfg.Countdown.PreciseTick)
	repo := repository.NewRepository(db)

	svc := service.NewService(cfg, repo, api, sessions, machine, ticker, loc, jwtMgr, logger)
	h := handler.NewHandler(svc)

	// 7. routes
	engine := router.Setup(cfg, h, jwtMgr, svc.Auth, rdb, logger)

	// 8. HTTP server; no write timeout so countdown streams stay open
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Warn("close redis", zap.Error(err))
	}

	logger.Info("server stopped")
}
