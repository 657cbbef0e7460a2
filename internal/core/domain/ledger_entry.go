package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one recorded financial event on one account.
type LedgerEntry struct {
	EntryID              string            `json:"entryID"`
	EntryType            EntryType         `json:"entryType"`
	Recurrence           Recurrence        `json:"recurrence"`
	Account              Account           `json:"account"`
	ServiceLabel         string            `json:"serviceLabel"`
	Amount               decimal.Decimal   `json:"amount"`         // Positive, in Currency
	Currency             Currency          `json:"currency"`       // Derived from Account
	DonationAmount       decimal.Decimal   `json:"donationAmount"` // Always in UZS
	DonationPercentage   decimal.Decimal   `json:"donationPercentage"`
	TaxPercentage        *decimal.Decimal  `json:"taxPercentage,omitempty"`
	ExchangeRateSnapshot decimal.Decimal   `json:"exchangeRateSnapshot"` // USD->UZS rate when the entry was written
	TransactionStatus    TransactionStatus `json:"transactionStatus"`
	EventDate            time.Time         `json:"eventDate"`
	InitialDate          *time.Time        `json:"initialDate,omitempty"` // Anchor of the monthly cycle
	AuditFields
}

// LedgerEntryFilter narrows list and report queries. Nil fields do not filter.
type LedgerEntryFilter struct {
	EntryType         *EntryType
	Recurrence        *Recurrence
	Account           *Account
	Currency          *Currency
	TransactionStatus *TransactionStatus
	DateFrom          *time.Time
	DateTo            *time.Time
	ServiceSearch     string
}

// Matches applies the filter in memory. The SQL repository builds the same predicate in a WHERE clause.
func (f LedgerEntryFilter) Matches(e LedgerEntry) bool {
	if f.EntryType != nil && e.EntryType != *f.EntryType {
		return false
	}
	if f.Recurrence != nil && e.Recurrence != *f.Recurrence {
		return false
	}
	if f.Account != nil && e.Account != *f.Account {
		return false
	}
	if f.Currency != nil && e.Currency != *f.Currency {
		return false
	}
	if f.TransactionStatus != nil && e.TransactionStatus != *f.TransactionStatus {
		return false
	}
	if f.DateFrom != nil && e.EventDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.EventDate.After(*f.DateTo) {
		return false
	}
	if f.ServiceSearch != "" && !strings.Contains(strings.ToLower(e.ServiceLabel), strings.ToLower(f.ServiceSearch)) {
		return false
	}
	return true
}

// LedgerSnapshot is everything the projection needs, read at a single point in time.
// LatestRate is nil when no rate has been recorded yet.
type LedgerSnapshot struct {
	Entries       []LedgerEntry
	LatestRate    *ExchangeRate
	DonationTotal decimal.Decimal
}

// Balances is the result of a projection run.
// Account3 is reported in USD; every other figure is in UZS.
type Balances struct {
	Account1         decimal.Decimal `json:"account1"`
	Account2         decimal.Decimal `json:"account2"`
	Account3         decimal.Decimal `json:"account3"`
	Total            decimal.Decimal `json:"total"`
	Potential        decimal.Decimal `json:"potential"`
	PotentialIncome  decimal.Decimal `json:"potentialIncome"`
	PotentialOutcome decimal.Decimal `json:"potentialOutcome"`
}

// TransferResult holds the debit/credit pair written by a transfer.
type TransferResult struct {
	FromEntry       LedgerEntry     `json:"fromEntry"`
	ToEntry         LedgerEntry     `json:"toEntry"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
}
