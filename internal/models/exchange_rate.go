package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the append-only exchange_rates table.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (UUID)
	Rate           decimal.Decimal `json:"rate"`
	Source         string          `json:"source"`
	RecordedAt     time.Time       `json:"recordedAt"`
	RecordedBy     string          `json:"recordedBy"`
}
