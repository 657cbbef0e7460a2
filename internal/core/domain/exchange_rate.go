package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateSource records where a rate came from.
type ExchangeRateSource string

const (
	RateSourceManual ExchangeRateSource = "MANUAL"
	RateSourceLive   ExchangeRateSource = "LIVE"
)

// ExchangeRate is one append-only USD->UZS snapshot. Rows are never updated or deleted.
type ExchangeRate struct {
	ExchangeRateID string             `json:"exchangeRateID"`
	Rate           decimal.Decimal    `json:"rate"`
	Source         ExchangeRateSource `json:"source"`
	RecordedAt     time.Time          `json:"recordedAt"`
	RecordedBy     string             `json:"recordedBy"`
}
