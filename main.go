package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"backend/internal/config"
	"backend/internal/downloader"
	"backend/internal/handler"
	"backend/internal/notifier"
	"backend/internal/repository"
	"backend/internal/server"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if !cfg.IsProduction() {
		devLogger, err := zap.NewDevelopment()
		if err == nil {
			logger = devLogger
		}
	}

	accessLog := logrus.New()
	accessLog.SetFormatter(&logrus.JSONFormatter{})

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Optional Telegram notifier for download lifecycle events
	bot, err := notifier.NewBot(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram notifier, continuing without it", zap.Error(err))
		bot = nil
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Background download dispatcher: torrent creation responds immediately,
	// the actual fetch happens here.
	queryTimeout := time.Duration(cfg.Database.QueryTimeoutSeconds) * time.Second
	torrentRepo := repository.NewTorrentRepository(db, logger, queryTimeout)

	var dispatcher *downloader.Dispatcher
	if cfg.Downloader.Enabled {
		agent := downloader.NewClient(cfg.Downloader.URL, logger)
		dispatcher = downloader.NewDispatcher(
			agent,
			torrentRepo,
			bot,
			cfg.Downloader.QueueSize,
			time.Duration(cfg.Downloader.RequestTimeoutSeconds)*time.Second,
			logger,
		)
		go dispatcher.Run(ctx)
	} else {
		logger.Info("Download dispatcher is disabled; torrents will stay queued")
	}

	// Keep the interface value nil when the dispatcher is disabled, instead
	// of a non-nil interface wrapping a nil pointer.
	var dispatch handler.DownloadDispatcher
	if dispatcher != nil {
		dispatch = dispatcher
	}

	// Initialize and run the server
	srv := server.NewServer(db, cfg, logger, accessLog, dispatch)
	go srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
