package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/bootstrap"
	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/handlers"
	"alfredoptarigan/cv-screener/internal/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()
	zlog.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	ctx := context.Background()

	rules, err := config.LoadRules(ctx, config.RulesPath())
	if err != nil {
		zlog.Fatal("❌ Failed to load screening rules", zap.Error(err))
	}
	zlog.Info("✅ Screening rules loaded",
		zap.String("path", config.RulesPath()),
		zap.String("score_mode", rules.ScoreMode))

	components, err := bootstrap.Build(ctx, cfg, rules, zlog)
	if err != nil {
		zlog.Fatal("❌ Failed to initialize services", zap.Error(err))
	}
	defer components.Close()

	// Initialize Handlers
	app := handlers.NewApp(cfg.Storage.MaxFileSize, true)
	handlers.Routes{
		Process: handlers.NewProcessHandler(components.Screening, components.Storage, cfg.Storage.MaxFileSize),
		Batch:   handlers.NewBatchHandler(components.Screening),
		Result:  handlers.NewResultHandler(components.Screening),
		Metrics: components.Metrics.Handler(),
	}.Register(app)
	zlog.Info("✅ Handlers initialized")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			zlog.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("❌ Failed to start server", zap.Error(err))
	}
}
