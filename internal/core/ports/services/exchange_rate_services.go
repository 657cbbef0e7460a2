package services

import (
	"context"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations for USD->UZS rates
type ExchangeRateReaderSvc interface {
	// GetCurrentRate returns the latest recorded rate, or the configured fallback
	// when none exists. isFallback reports which. It never calls the live provider.
	GetCurrentRate(ctx context.Context) (rate decimal.Decimal, isFallback bool, err error)

	// ListRates returns recorded rates, newest first.
	ListRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriterSvc defines write operations for USD->UZS rates
type ExchangeRateWriterSvc interface {
	// RecordRate appends a manually entered rate.
	RecordRate(ctx context.Context, rate decimal.Decimal, actor domain.Actor) (*domain.ExchangeRate, error)

	// FetchLiveRate asks the external provider for a quote. Failures are apperrors.ErrRateFetch.
	FetchLiveRate(ctx context.Context) (decimal.Decimal, error)

	// SyncLiveRate fetches a live quote and records it.
	SyncLiveRate(ctx context.Context, actor domain.Actor) (*domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
}

// RateQuoteProvider is the external source of live USD->UZS quotes.
type RateQuoteProvider interface {
	FetchUSDToUZS(ctx context.Context) (decimal.Decimal, error)
}
