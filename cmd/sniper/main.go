package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/finnvos/skysniper/internal/api"
	"github.com/finnvos/skysniper/internal/config"
	"github.com/finnvos/skysniper/internal/database"
	"github.com/finnvos/skysniper/internal/flip"
	"github.com/finnvos/skysniper/internal/item"
	"github.com/finnvos/skysniper/internal/model"
	"github.com/finnvos/skysniper/internal/notify"
	"github.com/finnvos/skysniper/internal/poller"
	"github.com/finnvos/skysniper/internal/price"
	"github.com/finnvos/skysniper/internal/snapshot"
	"github.com/finnvos/skysniper/internal/value"
	"github.com/finnvos/skysniper/internal/version"
	"github.com/finnvos/skysniper/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/sniper.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// .env is optional; config env expansion picks up whatever it sets.
	godotenv.Load()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting sniper",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"api_url", cfg.API.BaseURL,
		"min_profit", cfg.Options.MinProfit,
		"max_price_cap", cfg.Options.MaxPriceCap,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.Key,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	logger.Info("checking api key")
	if err := apiClient.ValidateKey(ctx); err != nil {
		logger.Error("api key check failed", "error", err)
		os.Exit(1)
	}

	dec := item.NewDecoder(logger)
	index := price.NewIndex(cfg.Pricing.Overrides, logger)
	differ := snapshot.NewDiffer(logger)

	// Assemble the delivery sinks. Everything is optional; with nothing
	// configured, flips only show up in the log.
	var sinks []notify.Sink

	if cfg.Webhook.Enabled() {
		sinks = append(sinks, notify.NewWebhook(cfg.Webhook.URL, logger))
		logger.Info("webhook sink enabled")
	}

	var broadcast *notify.Broadcast
	if cfg.Broadcast.Enabled() {
		broadcast = notify.NewBroadcast(fmt.Sprintf(":%d", cfg.Broadcast.Port), index, logger)
		if err := broadcast.Start(ctx); err != nil {
			logger.Error("failed to start broadcast server", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, broadcast)
	}

	var flipWriter *writer.FlipWriter
	if cfg.Database.Enabled() {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		buf := notify.NewGrowableBuffer[model.FlipEvent](cfg.Writers.BufferSize)
		sinks = append(sinks, notify.NewBufferSink(buf))

		flipWriter = writer.NewFlipWriter(writer.WriterConfig{
			BatchSize:     cfg.Writers.BatchSize,
			FlushInterval: cfg.Writers.FlushInterval,
		}, buf, pool, logger)
		if err := flipWriter.Start(ctx); err != nil {
			logger.Error("failed to start flip writer", "error", err)
			os.Exit(1)
		}
	}

	detector := flip.NewDetector(
		flip.Config{
			MinProfit:   cfg.Options.MinProfit,
			MaxPriceCap: cfg.Options.MaxPriceCap,
		},
		value.Options{
			AddRecombobulator: cfg.Options.AddRecombobulator,
			EnchantMinLevels:  cfg.Options.EnchantMinLevels,
		},
		dec, index, notify.NewMulti(logger, sinks...), logger,
	)

	p := poller.New(poller.Config{
		Interval:       cfg.Poller.Interval,
		Concurrency:    cfg.Poller.Concurrency,
		RetryBackoff:   cfg.Poller.RetryBackoff,
		PageFetchDelay: cfg.API.PageFetchDelay,
		ReindexEvery:   cfg.Pricing.ReindexEvery,
	}, apiClient, differ, index, detector, dec, logger)

	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	logger.Info("sniper running")
	<-ctx.Done()

	// Stop producers before consumers so in-flight flips drain.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := p.Stop(shutdownCtx); err != nil {
		logger.Warn("poller stop", "error", err)
	}
	if broadcast != nil {
		if err := broadcast.Stop(shutdownCtx); err != nil {
			logger.Warn("broadcast stop", "error", err)
		}
	}
	if flipWriter != nil {
		if err := flipWriter.Stop(shutdownCtx); err != nil {
			logger.Warn("flip writer stop", "error", err)
		}
		stats := flipWriter.Stats()
		logger.Info("flip writer final stats",
			"inserts", stats.Inserts,
			"conflicts", stats.Conflicts,
			"errors", stats.Errors,
		)
	}

	logger.Info("sniper stopped")
}
