package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/potatotracker/internal/bot/dispatch"
	"github.com/potatotracker/internal/bot/session"
	"github.com/potatotracker/internal/bot/transport"
	"github.com/potatotracker/internal/config"
	"github.com/potatotracker/internal/data/mongo"
	"github.com/potatotracker/internal/logger"
	"github.com/potatotracker/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("bot")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize database with app context
	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := mongo.NewTransactionRepository(log, mongoDB.Database())
	settingsRepo := mongo.NewSettingsRepository(log, mongoDB.Database())

	// Initialize chat transport
	tg, err := transport.NewTelegram(log, &cfg.Telegram)
	if err != nil {
		log.Error("Failed to initialize Telegram transport", "error", err)
		os.Exit(1)
	}

	// Initialize dialog engine and per-chat dispatcher
	engine := session.NewEngine(log, transactionRepo, settingsRepo, tg)

	dispatcher, err := dispatch.NewDispatcher(log, dispatch.Config{Size: cfg.Bot.WorkerPoolSize})
	if err != nil {
		log.Error("Failed to initialize dispatcher", "error", err)
		os.Exit(1)
	}
	log.Info("Bot initialized", "workers", cfg.Bot.WorkerPoolSize)

	// Consume updates until the transport channel closes
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range tg.Listen(appCtx) {
			m := msg
			dispatcher.Dispatch(m.ChatID, func() {
				engine.HandleMessage(appCtx, m.ChatID, m.Text)
			})
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-quit
	log.Info("Shutdown signal received")

	// Cancel the application context; the transport closes its channel
	cancelAppCtx()
	<-done

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	dispatcher.Shutdown()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	if err != nil {
		log.Error("Bot shutdown completed with errors")
	} else {
		log.Info("Bot shutdown completed successfully")
	}
}
