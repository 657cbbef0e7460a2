package accounting

import (
	"fmt"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// MoneyPlaces matches the numeric(15,2) columns the ledger is stored in.
	MoneyPlaces int32 = 2
)

// ValidatePercentage checks that p lies in [0,100].
func ValidatePercentage(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("percentage %s is outside [0,100]", p.String())
	}
	return nil
}

// DonationAmount computes the donation carried by an entry, always in UZS.
// Only INCOME entries with a positive percentage donate. USD amounts are
// converted with rate, the USD->UZS rate in effect when the entry is written.
func DonationAmount(entryType domain.EntryType, amount, percentage decimal.Decimal, currency domain.Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	if entryType != domain.Income || !percentage.IsPositive() {
		return decimal.Zero, nil
	}
	donation := amount.Mul(percentage).Div(hundred)
	local, err := ToLocal(donation, currency, rate)
	if err != nil {
		return decimal.Zero, err
	}
	return local.Round(MoneyPlaces), nil
}

// ToLocal converts an amount in currency to UZS using rate.
func ToLocal(amount decimal.Decimal, currency domain.Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	switch currency {
	case domain.CurrencyUZS:
		return amount, nil
	case domain.CurrencyUSD:
		return amount.Mul(rate), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown currency %q", string(currency))
	}
}

// DonationInEntryCurrency restates the stored UZS donation in the entry's own
// currency. USD entries divide by their own snapshot rate, never the current one.
func DonationInEntryCurrency(e domain.LedgerEntry) (decimal.Decimal, error) {
	switch e.Currency {
	case domain.CurrencyUZS:
		return e.DonationAmount, nil
	case domain.CurrencyUSD:
		if e.DonationAmount.IsZero() {
			return decimal.Zero, nil
		}
		if !e.ExchangeRateSnapshot.IsPositive() {
			return decimal.Zero, fmt.Errorf("entry %s has no usable exchange rate snapshot", e.EntryID)
		}
		return e.DonationAmount.Div(e.ExchangeRateSnapshot), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown currency %q on entry %s", string(e.Currency), e.EntryID)
	}
}

// NetContribution is the signed effect of an entry in its own currency:
// amount less donation for INCOME, minus amount for OUTCOME.
func NetContribution(e domain.LedgerEntry) (decimal.Decimal, error) {
	switch e.EntryType {
	case domain.Income:
		donation, err := DonationInEntryCurrency(e)
		if err != nil {
			return decimal.Zero, err
		}
		return e.Amount.Sub(donation), nil
	case domain.Outcome:
		return e.Amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown entry type %q on entry %s", string(e.EntryType), e.EntryID)
	}
}

// TransferTax splits a transfer amount into the withheld tax and the net amount that moves.
func TransferTax(amount, taxPercentage decimal.Decimal) (tax, net decimal.Decimal) {
	tax = amount.Mul(taxPercentage).Div(hundred)
	return tax, amount.Sub(tax)
}

// ConvertForTransfer converts amount from one account currency to another at rate.
func ConvertForTransfer(amount decimal.Decimal, from, to domain.Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	if !from.IsValid() || !to.IsValid() {
		return decimal.Zero, fmt.Errorf("cannot convert %q to %q", string(from), string(to))
	}
	if from == to {
		return amount.Round(MoneyPlaces), nil
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("exchange rate must be positive, got %s", rate.String())
	}
	switch {
	case from == domain.CurrencyUSD && to == domain.CurrencyUZS:
		return amount.Mul(rate).Round(MoneyPlaces), nil
	case from == domain.CurrencyUZS && to == domain.CurrencyUSD:
		return amount.Div(rate).Round(MoneyPlaces), nil
	default:
		return decimal.Zero, fmt.Errorf("no conversion from %q to %q", string(from), string(to))
	}
}
