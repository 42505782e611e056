package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hwbot/internal/common/metrics"
	"hwbot/internal/homework/client"
	"hwbot/internal/homework/controller"
	"hwbot/internal/homework/service"
	"hwbot/internal/notify"
	appErr "hwbot/pkg/errors"
	"hwbot/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	defaultConfigPath = "configs/homework-bot.yaml"
	defaultEnvFile    = ".env"
)

func main() {
	configPath := pflag.String("config", defaultConfigPath, "config file path")
	envFile := pflag.String("env-file", defaultEnvFile, "dotenv file with credentials")
	pflag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "load env file failed: %v\n", err)
			os.Exit(1)
		}
	}

	appCfg, err := loadAppConfig(*configPath, pflag.CommandLine.Changed("config"), os.LookupEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(appCfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	if err := validateAppConfig(appCfg); err != nil {
		log.Fatal(ctx, "required configuration is missing, bot stopped",
			zap.Strings("missing", missingCredentials(appCfg)),
			zap.Error(err),
		)
	}

	if err := run(ctx, appCfg, log); err != nil {
		log.Error(ctx, "bot stopped", zap.String("code", appErr.GetCode(err).String()), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *AppConfig, log *logger.Logger) error {
	statusClient, err := client.New(client.Config{
		Endpoint: cfg.Practicum.Endpoint,
		Token:    cfg.Practicum.Token,
		Timeout:  cfg.Practicum.Timeout,
	})
	if err != nil {
		return err
	}

	sender, err := notify.NewTelegramSender(notify.TelegramConfig{
		Token:       cfg.Telegram.Token,
		APIEndpoint: cfg.Telegram.APIEndpoint,
		Timeout:     cfg.Telegram.Timeout,
	}, log)
	if err != nil {
		return err
	}

	schedule, err := service.NewSchedule(cfg.Poll.Schedule, cfg.Poll.RetryInterval)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	poller, err := service.NewPoller(service.Config{
		Fetcher:       statusClient,
		Sender:        sender,
		ChatID:        cfg.Telegram.ChatID,
		Schedule:      schedule,
		Logger:        log,
		Metrics:       metrics.New(registry),
		InitialCursor: cfg.Poll.InitialCursor,
	})
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var httpServer *http.Server
	errCh := make(chan error, 1)
	if cfg.StatusServer.Addr != "" {
		gin.SetMode(gin.ReleaseMode)
		httpServer = buildHTTPServer(cfg.StatusServer, controller.NewStatusController(poller, registry, log))
		listener, err := net.Listen("tcp", cfg.StatusServer.Addr)
		if err != nil {
			return appErr.Wrapf(err, appErr.ConfigInvalid, "listen on %s failed", cfg.StatusServer.Addr)
		}
		go func() {
			log.Info(ctx, "status server started", zap.String("addr", listener.Addr().String()))
			errCh <- httpServer.Serve(listener)
		}()
	}

	log.Info(ctx, "homework bot started",
		zap.String("endpoint", statusClient.Endpoint()),
		zap.Duration("retry_interval", cfg.Poll.RetryInterval),
		zap.String("schedule", cfg.Poll.Schedule),
	)

	pollDone := make(chan error, 1)
	go func() { pollDone <- poller.Run(runCtx) }()

	select {
	case <-pollDone:
		log.Info(ctx, "shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "status server stopped", zap.Error(err))
		}
		stop()
		<-pollDone
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error(ctx, "status server shutdown failed", zap.Error(err))
		}
	}
	return nil
}

func buildHTTPServer(cfg ServerConfig, ctrl *controller.StatusController) *http.Server {
	return &http.Server{
		Addr:           cfg.Addr,
		Handler:        ctrl.Router(),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}
}
