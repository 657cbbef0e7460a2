package repositories

import (
	"context"

	"github.com/SscSPs/cims_finance/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindLatestExchangeRate returns the most recently recorded rate, or apperrors.ErrNotFound.
	FindLatestExchangeRate(ctx context.Context) (*domain.ExchangeRate, error)

	// ListExchangeRates returns up to limit rates, newest first.
	ListExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRate appends a rate. Existing rows are never modified.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
