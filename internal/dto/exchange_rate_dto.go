package dto

import (
	"time"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordExchangeRateRequest defines the structure for recording a new USD->UZS rate.
type RecordExchangeRateRequest struct {
	Rate decimal.Decimal `json:"rate" binding:"positive_decimal"`
}

// CurrentExchangeRateResponse is the rate in effect now. IsFallback is set when
// no rate has been recorded and the configured default is returned instead.
type CurrentExchangeRateResponse struct {
	Rate       decimal.Decimal `json:"rate"`
	IsFallback bool            `json:"isFallback"`
}

// LiveExchangeRateResponse is an unrecorded quote from the live provider.
type LiveExchangeRateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// ExchangeRateResponse defines the structure for API responses containing exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID string                    `json:"exchangeRateID"`
	Rate           decimal.Decimal           `json:"rate"`
	Source         domain.ExchangeRateSource `json:"source"`
	RecordedAt     time.Time                 `json:"recordedAt"`
	RecordedBy     string                    `json:"recordedBy"`
}

// ListExchangeRatesParams limits the history listing.
type ListExchangeRatesParams struct {
	Limit int `form:"limit,default=30" binding:"min=1,max=365"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		Rate:           rate.Rate,
		Source:         rate.Source,
		RecordedAt:     rate.RecordedAt,
		RecordedBy:     rate.RecordedBy,
	}
}

// ToListExchangeRateResponse converts a slice of rates to response DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}
