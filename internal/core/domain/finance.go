package domain

import "fmt"

// EntryType indicates the direction of money flow for a ledger entry.
type EntryType string

const (
	Income  EntryType = "INCOME"
	Outcome EntryType = "OUTCOME"
)

// IsValid reports whether t is a known entry type.
func (t EntryType) IsValid() bool {
	switch t {
	case Income, Outcome:
		return true
	}
	return false
}

// Recurrence tells whether an entry repeats every month from its initial date.
type Recurrence string

const (
	OneTime Recurrence = "ONE_TIME"
	Monthly Recurrence = "MONTHLY"
)

// IsValid reports whether r is a known recurrence.
func (r Recurrence) IsValid() bool {
	switch r {
	case OneTime, Monthly:
		return true
	}
	return false
}

// TransactionStatus separates entries that move money now from forecast-only ones.
type TransactionStatus string

const (
	StatusReal        TransactionStatus = "REAL"
	StatusStatistical TransactionStatus = "STATISTICAL"
)

// IsValid reports whether s is a known transaction status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusReal, StatusStatistical:
		return true
	}
	return false
}

// Currency is the denomination of an entry. It is always derived from the account.
type Currency string

const (
	CurrencyUZS Currency = "UZS"
	CurrencyUSD Currency = "USD"
)

// IsValid reports whether c is a known currency.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUZS, CurrencyUSD:
		return true
	}
	return false
}

// Account is one of the three company money pools.
type Account string

const (
	Account1 Account = "ACCOUNT_1"
	Account2 Account = "ACCOUNT_2"
	Account3 Account = "ACCOUNT_3"
)

// Accounts lists every account in display order.
var Accounts = []Account{Account1, Account2, Account3}

// IsValid reports whether a is a known account.
func (a Account) IsValid() bool {
	_, err := a.Currency()
	return err == nil
}

// Currency returns the fixed denomination of the account.
// ACCOUNT_1 and ACCOUNT_2 hold local currency, ACCOUNT_3 holds USD.
func (a Account) Currency() (Currency, error) {
	switch a {
	case Account1, Account2:
		return CurrencyUZS, nil
	case Account3:
		return CurrencyUSD, nil
	default:
		return "", fmt.Errorf("unknown account %q", string(a))
	}
}

// DisplayName is the human-readable label shown on the dashboard.
func (a Account) DisplayName() string {
	switch a {
	case Account1:
		return "Company Account UZB"
	case Account2:
		return "Uzcard UZB"
	case Account3:
		return "Company Account US"
	default:
		return string(a)
	}
}
