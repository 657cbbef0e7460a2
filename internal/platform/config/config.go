package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string

	JWTSecret    string
	JWTIssuer    string
	FinanceRoles []string

	CurrencyFreaksAPIKey  string
	CurrencyFreaksBaseURL string
	RateFetchTimeout      time.Duration
	DefaultExchangeRate   decimal.Decimal

	ProjectionWindowDays int
	BusinessTimezone     string
	BusinessLocation     *time.Location

	RateLimit          string
	RateLimitRate      limiter.Rate
	CORSAllowedOrigins []string

	KafkaBrokers     []string
	KafkaTopic       string
	TelegramBotToken string
	TelegramChatID   int64
	PosthogAPIKey    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("FINANCE_ROLES", "ceo,finance_director")
	v.SetDefault("CURRENCYFREAKS_API_KEY", "")
	v.SetDefault("CURRENCYFREAKS_BASE_URL", "https://api.currencyfreaks.com/v2.0/rates/latest")
	v.SetDefault("RATE_FETCH_TIMEOUT", "10s")
	v.SetDefault("DEFAULT_EXCHANGE_RATE", "12700.00")
	v.SetDefault("PROJECTION_WINDOW_DAYS", 30)
	v.SetDefault("BUSINESS_TIMEZONE", "Asia/Tashkent")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger_entry_changed")
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_CHAT_ID", 0)
	v.SetDefault("POSTHOG_API_KEY", "")
}

// splitList parses a comma separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:           v.GetString("PGSQL_URL"),
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:         v.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:         strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:        v.GetString("MIGRATIONS_PATH"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTIssuer:             v.GetString("JWT_ISSUER"),
		FinanceRoles:          splitList(v.GetString("FINANCE_ROLES")),
		CurrencyFreaksAPIKey:  v.GetString("CURRENCYFREAKS_API_KEY"),
		CurrencyFreaksBaseURL: v.GetString("CURRENCYFREAKS_BASE_URL"),
		ProjectionWindowDays:  v.GetInt("PROJECTION_WINDOW_DAYS"),
		BusinessTimezone:      v.GetString("BUSINESS_TIMEZONE"),
		RateLimit:             v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		KafkaBrokers:          splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:            v.GetString("KAFKA_TOPIC"),
		TelegramBotToken:      v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:        v.GetInt64("TELEGRAM_CHAT_ID"),
		PosthogAPIKey:         v.GetString("POSTHOG_API_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT environment variable not set, using default", slog.String("port", cfg.Port))
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StoragePostgres)
		}
	case StorageMemory:
		slog.Warn("Using in-memory storage, data is lost on restart")
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random"
		slog.Warn("JWT_SECRET environment variable not set, using default insecure key")
	}
	if len(cfg.FinanceRoles) == 0 {
		return nil, fmt.Errorf("FINANCE_ROLES must name at least one role")
	}

	timeout, err := time.ParseDuration(v.GetString("RATE_FETCH_TIMEOUT"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid RATE_FETCH_TIMEOUT %q", v.GetString("RATE_FETCH_TIMEOUT"))
	}
	cfg.RateFetchTimeout = timeout

	rate, err := decimal.NewFromString(v.GetString("DEFAULT_EXCHANGE_RATE"))
	if err != nil || !rate.IsPositive() {
		return nil, fmt.Errorf("invalid DEFAULT_EXCHANGE_RATE %q", v.GetString("DEFAULT_EXCHANGE_RATE"))
	}
	cfg.DefaultExchangeRate = rate

	if cfg.ProjectionWindowDays < 0 {
		return nil, fmt.Errorf("PROJECTION_WINDOW_DAYS must not be negative, got %d", cfg.ProjectionWindowDays)
	}

	loc, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", cfg.BusinessTimezone, err)
	}
	cfg.BusinessLocation = loc

	limitRate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}
	cfg.RateLimitRate = limitRate

	if cfg.CurrencyFreaksAPIKey == "" {
		slog.Warn("CURRENCYFREAKS_API_KEY not set, live rate sync will fail")
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return cfg, nil
}
