package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collabpay/api/handler"
	"collabpay/api/router"
	"collabpay/config"
	"collabpay/job"
	"collabpay/service"
	"collabpay/storage/chain"
	"collabpay/storage/postgres"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.String("config", "", "配置文件路径 (yaml/toml/json)")
	addr := pflag.String("addr", "", "监听地址，覆盖 server.addr")
	seedDemo := pflag.Bool("seed-demo", false, "连接后加载演示合同")
	pflag.Parse()

	// 1. 读取配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *seedDemo {
		cfg.Session.SeedDemo = true
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	// 2. 模拟钱包/链
	sim := chain.NewSimulator(chain.Config{
		Network:       cfg.Ledger.Network,
		WalletAddress: cfg.Session.WalletAddress,
		ConnectDelay:  cfg.Session.ConnectDelay,
		DeployDelay:   cfg.Ledger.DeployDelay,
		PaymentDelay:  cfg.Ledger.PaymentDelay,
	})

	// 3. 可选的 PG 归档
	var (
		archive service.Archive
		purger  job.Purger
	)
	if cfg.Archive.DSN != "" {
		db, err := postgres.InitDB(cfg.Archive.DSN, cfg.Log.Level == "debug")
		if err != nil {
			logger.Error("init archive db", "error", err)
			os.Exit(1)
		}
		pgRepo := postgres.NewContractRepo(db)
		archive, purger = pgRepo, pgRepo
		logger.Info("archive enabled")
	}

	// 4. 初始化 Service (业务层)
	broker := service.NewBroker(logger)
	sessionSvc := service.NewSessionService(sim, broker, logger, service.SessionOptions{SeedDemo: cfg.Session.SeedDemo})
	contractSvc := service.NewContractService(sessionSvc, sim, archive, broker, logger)

	// 启动定时任务
	cronJob, err := job.StartCronJob(sessionSvc, purger, job.Options{
		IdleTTL:   cfg.Session.IdleTTL,
		Retention: cfg.Archive.Retention,
		PurgeSpec: cfg.Archive.PurgeSpec,
	}, logger)
	if err != nil {
		logger.Error("start cron", "error", err)
		os.Exit(1)
	}
	defer cronJob.Stop()

	// 5. 初始化 Handler (API 层)
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	router.RegisterRoutes(r,
		handler.NewSessionHandler(sessionSvc),
		handler.NewContractHandler(contractSvc, logger),
		handler.NewEventHandler(broker, logger),
	)

	// 6. 启动 Web Server
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server running", "addr", cfg.Server.Addr, "network", cfg.Ledger.Network)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	sessionSvc.Disconnect()
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
