package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID              string           `json:"entryID"` // Primary Key (UUID)
	EntryType            string           `json:"entryType"`
	Recurrence           string           `json:"recurrence"`
	Account              string           `json:"account"`
	ServiceLabel         string           `json:"serviceLabel"`
	Amount               decimal.Decimal  `json:"amount"`
	Currency             string           `json:"currency"`
	DonationAmount       decimal.Decimal  `json:"donationAmount"`
	DonationPercentage   decimal.Decimal  `json:"donationPercentage"`
	TaxPercentage        *decimal.Decimal `json:"taxPercentage"` // Nullable
	ExchangeRateSnapshot decimal.Decimal  `json:"exchangeRateSnapshot"`
	TransactionStatus    string           `json:"transactionStatus"`
	EventDate            time.Time        `json:"eventDate"`   // DATE column
	InitialDate          *time.Time       `json:"initialDate"` // Nullable DATE column
	AuditFields
}
