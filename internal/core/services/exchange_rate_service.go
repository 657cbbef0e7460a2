package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultExchangeRate is used when no rate has ever been recorded.
var DefaultExchangeRate = decimal.RequireFromString("12700.00")

// exchangeRateService keeps the append-only USD->UZS rate log.
type exchangeRateService struct {
	BaseService
	rateRepo portsrepo.ExchangeRateRepositoryFacade
	provider portssvc.RateQuoteProvider
	fallback decimal.Decimal
}

// ExchangeRateServiceOption configures the exchange rate service.
type ExchangeRateServiceOption func(*exchangeRateService)

// WithRateQuoteProvider sets the live quote source used by FetchLiveRate.
func WithRateQuoteProvider(p portssvc.RateQuoteProvider) ExchangeRateServiceOption {
	return func(s *exchangeRateService) { s.provider = p }
}

// WithFallbackRate overrides DefaultExchangeRate. Non-positive values are ignored.
func WithFallbackRate(rate decimal.Decimal) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		if rate.IsPositive() {
			s.fallback = rate
		}
	}
}

// WithExchangeRateClock sets the clock used to timestamp recorded rates.
func WithExchangeRateClock(c Clock) ExchangeRateServiceOption {
	return func(s *exchangeRateService) { s.Clock = c }
}

// WithExchangeRatePublisher sets where rate-recorded events go.
func WithExchangeRatePublisher(p portssvc.EventPublisher) ExchangeRateServiceOption {
	return func(s *exchangeRateService) { s.Publisher = p }
}

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, opts ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	s := &exchangeRateService{
		BaseService: BaseService{Clock: NewClock(nil)},
		rateRepo:    rateRepo,
		fallback:    DefaultExchangeRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

// GetCurrentRate returns the most recently recorded rate or the fallback.
func (s *exchangeRateService) GetCurrentRate(ctx context.Context) (decimal.Decimal, bool, error) {
	latest, err := s.rateRepo.FindLatestExchangeRate(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "No exchange rate recorded, using fallback", slog.String("rate", s.fallback.String()))
			return s.fallback, true, nil
		}
		return decimal.Zero, false, fmt.Errorf("failed to load current exchange rate: %w", err)
	}
	return latest.Rate, false, nil
}

// ListRates returns recorded rates, newest first.
func (s *exchangeRateService) ListRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error) {
	if limit <= 0 {
		return nil, apperrors.NewValidationError("limit must be positive")
	}
	rates, err := s.rateRepo.ListExchangeRates(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	return rates, nil
}

// RecordRate appends a manually entered rate.
func (s *exchangeRateService) RecordRate(ctx context.Context, rate decimal.Decimal, actor domain.Actor) (*domain.ExchangeRate, error) {
	return s.record(ctx, rate, domain.RateSourceManual, actor)
}

// FetchLiveRate asks the provider for a quote without recording it.
func (s *exchangeRateService) FetchLiveRate(ctx context.Context) (decimal.Decimal, error) {
	if s.provider == nil {
		return decimal.Zero, apperrors.NewRateFetchError(0, "no live rate provider configured", nil)
	}
	rate, err := s.provider.FetchUSDToUZS(ctx)
	if err != nil {
		s.LogError(ctx, err, "Live rate fetch failed")
		if !errors.Is(err, apperrors.ErrRateFetch) {
			return decimal.Zero, apperrors.NewRateFetchError(0, "provider error", err)
		}
		return decimal.Zero, err
	}
	return rate, nil
}

// SyncLiveRate fetches a live quote and records it. Nothing is written when the fetch fails.
func (s *exchangeRateService) SyncLiveRate(ctx context.Context, actor domain.Actor) (*domain.ExchangeRate, error) {
	rate, err := s.FetchLiveRate(ctx)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, rate, domain.RateSourceLive, actor)
}

func (s *exchangeRateService) record(ctx context.Context, rate decimal.Decimal, source domain.ExchangeRateSource, actor domain.Actor) (*domain.ExchangeRate, error) {
	rate = rate.Round(accounting.MoneyPlaces)
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: exchange rate must be positive after rounding to %d places", apperrors.ErrValidation, accounting.MoneyPlaces)
	}
	recordedBy := actor.UserID
	if recordedBy == "" {
		recordedBy = domain.SystemActorID
	}

	er := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		Rate:           rate,
		Source:         source,
		RecordedAt:     s.Clock.Instant(),
		RecordedBy:     recordedBy,
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, er); err != nil {
		s.LogError(ctx, err, "Failed to save exchange rate")
		return nil, fmt.Errorf("failed to record exchange rate: %w", err)
	}

	s.LogInfo(ctx, "Exchange rate recorded",
		slog.String("rate_id", er.ExchangeRateID),
		slog.String("rate", er.Rate.String()),
		slog.String("source", string(source)))
	s.publish(ctx, portssvc.LedgerEvent{
		Type:     portssvc.EventRateRecorded,
		Amount:   er.Rate,
		Currency: string(domain.CurrencyUZS),
		ActorID:  recordedBy,
	})
	return &er, nil
}
