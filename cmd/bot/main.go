package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/leadscout/internal/api"
	"github.com/timmy/leadscout/internal/classifier"
	"github.com/timmy/leadscout/internal/config"
	"github.com/timmy/leadscout/internal/embedding"
	"github.com/timmy/leadscout/internal/engine"
	"github.com/timmy/leadscout/internal/feedback"
	"github.com/timmy/leadscout/internal/logger"
	"github.com/timmy/leadscout/internal/processor"
	"github.com/timmy/leadscout/internal/repository"
	"github.com/timmy/leadscout/internal/telegram"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewFromEnv(logger.LoadFromEnv())
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	for _, problem := range cfg.Validate() {
		logger.Warn("Config: %s", problem)
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// Initialize repositories
	messageRepo := repository.NewMessageRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	metricsRepo := repository.NewMetricsRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Initialize embedding provider
	provider := embedding.NewClient(&embedding.Config{
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})

	ctx := context.Background()

	// Initialize classifier; it retrains itself from persisted examples
	clf, err := classifier.New(ctx, classifier.Config{
		ModelName:           cfg.ML.ClassifierModel,
		MinTrainingExamples: cfg.ML.MinTrainingExamples,
		AutoTrainEvery:      cfg.ML.AutoTrainThreshold,
	}, provider, trainingRepo, metricsRepo)
	if err != nil {
		logger.Fatal("Failed to initialize classifier: %v", err)
	}

	// Seed labeled examples on an empty training store
	if len(cfg.ML.SeedPositive) > 0 || len(cfg.ML.SeedNegative) > 0 {
		if err := clf.Seed(ctx, cfg.ML.SeedPositive, cfg.ML.SeedNegative); err != nil {
			logger.Warn("Failed to seed training examples: %v", err)
		}
	}

	// Initialize decision engine
	scorer := engine.NewSimilarityScorer(provider, cfg.Business.Keywords)
	eng, err := engine.New(cfg, scorer, clf)
	if err != nil {
		logger.Fatal("Failed to initialize decision engine: %v", err)
	}

	// Initialize feedback loop
	loop := feedback.NewLoop(messageRepo, clf)

	retention := time.Duration(cfg.Retention.Days) * 24 * time.Hour

	// Initialize Telegram bot; nil when disabled or no token is configured
	botToken := cfg.Telegram.BotToken
	if !cfg.Telegram.Enabled {
		botToken = ""
	}
	bot, err := telegram.NewBot(botToken, loop, clf, statsRepo, retention)
	if err != nil {
		logger.Fatal("Failed to initialize Telegram bot: %v", err)
	}

	// Initialize processor relaying accepted messages through the bot
	proc := processor.New(eng, messageRepo, statsRepo, bot, cfg.Business.TargetChatIDs)
	bot.SetPipeline(proc)

	botCtx, stopBot := context.WithCancel(ctx)
	defer stopBot()
	go func() {
		if err := bot.Start(botCtx); err != nil {
			logger.Error("Telegram bot stopped: %v", err)
		}
	}()

	// Setup router
	router := api.SetupRouter(api.Deps{
		Messages:    messageRepo,
		Corrections: loop,
		Trainer:     clf,
		Stats:       statsRepo,
		Purger:      proc,
	}, cfg.Server.Mode, cfg.Retention.Days)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting API server on port %d (%s mode)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	stopBot()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
