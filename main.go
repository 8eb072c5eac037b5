package main

import (
	"context"
	"log"
	"time"

	"perfume-collection/cmd"
	"perfume-collection/internal/data/repository"
	"perfume-collection/internal/usecase"
	"perfume-collection/internal/wire"
	"perfume-collection/pkg/database"
	"perfume-collection/pkg/messaging"
	"perfume-collection/pkg/metrics"
	"perfume-collection/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		logger.Info("Schema applied")
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	m := metrics.New()

	// Notifications are always stored; NATS delivery is optional
	var sink usecase.NotificationSink = usecase.NewStoreSink(repos.Notification)
	if config.NATS.URL != "" {
		publisher, err := messaging.Connect(config.NATS.URL, config.App.Name, logger)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer publisher.Close()

		sink = usecase.NewPublishingSink(sink, publisher, config.NATS.SubjectPrefix, logger)
		logger.Info("NATS connected", zap.String("url", config.NATS.URL))
	}

	// Wire all dependencies
	app := wire.Wiring(wire.Dependencies{
		DB:      db,
		Repo:    repos,
		Sink:    sink,
		Metrics: m,
		Config:  config,
		Logger:  logger,
	})
	defer app.Limiter.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
