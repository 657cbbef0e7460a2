package dto

import (
	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalance is one account line on the dashboard.
type AccountBalance struct {
	Account   domain.Account  `json:"account"`
	Name      string          `json:"name"`
	Currency  domain.Currency `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Formatted string          `json:"formatted"`
}

// DashboardResponse aggregates balances, the donation total and the current rate.
type DashboardResponse struct {
	Accounts           []AccountBalance `json:"accounts"`
	Balances           domain.Balances  `json:"balances"`
	TotalFormatted     string           `json:"totalFormatted"`
	PotentialFormatted string           `json:"potentialFormatted"`
	DonationTotal      decimal.Decimal  `json:"donationTotal"`
	DonationFormatted  string           `json:"donationFormatted"`
	ExchangeRate       decimal.Decimal  `json:"exchangeRate"`
}

// DonationTotalResponse reports the accumulator.
type DonationTotalResponse struct {
	TotalDonation decimal.Decimal `json:"totalDonation"`
	Formatted     string          `json:"formatted"`
}
