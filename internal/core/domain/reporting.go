package domain

import (
	"github.com/shopspring/decimal"
)

// FinanceStats summarises raw entry amounts over a filter.
// Amounts are summed as recorded, without currency conversion.
type FinanceStats struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalOutcome     decimal.Decimal `json:"totalOutcome"`
	TotalDonation    decimal.Decimal `json:"totalDonation"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TransactionCount int             `json:"transactionCount"`
	IncomeCount      int             `json:"incomeCount"`
	OutcomeCount     int             `json:"outcomeCount"`
}

// MonthlyReport is the per-month slice of FinanceStats.
type MonthlyReport struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalOutcome     decimal.Decimal `json:"totalOutcome"`
	NetAmount        decimal.Decimal `json:"netAmount"`
	DonationAmount   decimal.Decimal `json:"donationAmount"`
	TransactionCount int             `json:"transactionCount"`
}

// YearlyReport holds twelve monthly rows plus the year's totals.
type YearlyReport struct {
	Year             int             `json:"year"`
	Months           []MonthlyReport `json:"months"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalOutcome     decimal.Decimal `json:"totalOutcome"`
	NetAmount        decimal.Decimal `json:"netAmount"`
	DonationAmount   decimal.Decimal `json:"donationAmount"`
	TransactionCount int             `json:"transactionCount"`
}

// ServiceUsage counts how often a service label appears.
type ServiceUsage struct {
	ServiceLabel string          `json:"serviceLabel"`
	UsageCount   int             `json:"usageCount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// AccountStats groups entry counts and amounts per account and direction.
type AccountStats struct {
	Account           Account         `json:"account"`
	DisplayName       string          `json:"displayName"`
	IncomeCount       int             `json:"incomeCount"`
	IncomeAmount      decimal.Decimal `json:"incomeAmount"`
	OutcomeCount      int             `json:"outcomeCount"`
	OutcomeAmount     decimal.Decimal `json:"outcomeAmount"`
	TotalTransactions int             `json:"totalTransactions"`
}
