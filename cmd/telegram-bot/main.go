package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grocy-planner/internal/app"
	"grocy-planner/internal/config"
	"grocy-planner/internal/database"
	"grocy-planner/internal/grocy"
	"grocy-planner/internal/logger"
	"grocy-planner/internal/metrics"
	"grocy-planner/internal/shopping"
	"grocy-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logg.Sync()

	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		logg.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	// 2. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath, logg)
	if err != nil {
		logg.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	// 3. Initialize Services
	generator := shopping.NewGenerator(grocy.NewClient(cfg), shopping.NewBuilder(cfg.ShoppingLocale), logg)
	application := app.NewApp(
		generator,
		shopping.NewRepository(db.SQL),
		metrics.NewStore(db.SQL),
		nil,
		logg,
	)

	// 4. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application, cfg.SnapshotDir, logg)
	if err != nil {
		logg.Fatal("failed to initialize telegram bot", "error", err)
	}

	// 5. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	mux := http.NewServeMux()
	bot.RegisterHandlers(mux)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		logg.Info("telegram bot server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logg.Error("server forced to shutdown", "error", err)
	}

	logg.Info("server exiting")
}
