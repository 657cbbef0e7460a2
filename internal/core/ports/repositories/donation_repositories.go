package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// DonationRepository reads and resets the shared donation accumulator.
// Increments happen only through LedgerEntryWriter so they share the entry transaction.
type DonationRepository interface {
	// GetDonationTotal returns the current accumulator value.
	GetDonationTotal(ctx context.Context) (decimal.Decimal, error)

	// ResetDonationTotal sets the accumulator to zero without touching ledger entries.
	ResetDonationTotal(ctx context.Context) error
}
