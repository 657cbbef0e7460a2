package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/cims_finance/internal/adapters/currencyfreaks"
	"github.com/SscSPs/cims_finance/internal/adapters/events"
	"github.com/SscSPs/cims_finance/internal/adapters/events/kafka"
	"github.com/SscSPs/cims_finance/internal/adapters/events/telegram"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/core/services"
	"github.com/SscSPs/cims_finance/internal/handlers"
	"github.com/SscSPs/cims_finance/internal/middleware"
	"github.com/SscSPs/cims_finance/internal/platform/config"
	"github.com/SscSPs/cims_finance/internal/repositories/database/pgsql"
	"github.com/SscSPs/cims_finance/internal/repositories/memory"
	"github.com/SscSPs/cims_finance/internal/utils"
	"github.com/SscSPs/cims_finance/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title CIMS Finance API
// @version 1.0
// @description Multi-currency finance ledger: entries, donations, balances, transfers and exchange rates.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := setupStorage(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	publisher, closePublisher, err := setupPublisher(logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize event publishers", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closePublisher()

	rateProvider := currencyfreaks.NewClient(
		cfg.CurrencyFreaksAPIKey,
		currencyfreaks.WithBaseURL(cfg.CurrencyFreaksBaseURL),
		currencyfreaks.WithTimeout(cfg.RateFetchTimeout),
	)

	serviceContainer := services.NewServiceContainer(cfg, repos, rateProvider, publisher, services.NewClock(cfg.BusinessLocation))

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupStorage builds the repository provider for the configured driver.
func setupStorage(logger *slog.Logger, cfg *config.Config) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.NewRepositoryProvider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// setupPublisher fans ledger events out to Kafka and Telegram when they are configured.
func setupPublisher(logger *slog.Logger, cfg *config.Config) (portssvc.EventPublisher, func(), error) {
	var publishers events.Multi
	closers := []func(){}

	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		publishers = append(publishers, kp)
		closers = append(closers, func() {
			if err := kp.Close(); err != nil {
				logger.Error("Failed to close kafka publisher", slog.String("error", err.Error()))
			}
		})
		logger.Info("Kafka event publishing enabled", slog.String("topic", cfg.KafkaTopic))
	}

	if cfg.TelegramBotToken != "" {
		notifier, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, nil, err
		}
		publishers = append(publishers, notifier)
		logger.Info("Telegram notifications enabled")
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	if len(publishers) == 0 {
		return events.Noop{}, closeAll, nil
	}
	return publishers, closeAll, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}
