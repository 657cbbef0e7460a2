package dto

import (
	"time"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of event dates.
const DateLayout = "2006-01-02"

// LedgerEntryRequest is the body for creating or updating a ledger entry.
// Currency, donation amount and the rate snapshot are computed server side.
type LedgerEntryRequest struct {
	EntryType          domain.EntryType         `json:"entryType" binding:"required,oneof=INCOME OUTCOME"`
	Recurrence         domain.Recurrence        `json:"recurrence" binding:"required,oneof=ONE_TIME MONTHLY"`
	Account            domain.Account           `json:"account" binding:"required,oneof=ACCOUNT_1 ACCOUNT_2 ACCOUNT_3"`
	ServiceLabel       string                   `json:"serviceLabel" binding:"max=255"`
	Amount             decimal.Decimal          `json:"amount" binding:"positive_decimal"`
	DonationPercentage decimal.Decimal          `json:"donationPercentage" binding:"percent"`
	TaxPercentage      *decimal.Decimal         `json:"taxPercentage,omitempty" binding:"omitempty,percent"`
	TransactionStatus  domain.TransactionStatus `json:"transactionStatus" binding:"required,oneof=REAL STATISTICAL"`
	EventDate          string                   `json:"eventDate" binding:"required,datetime=2006-01-02" example:"2024-03-15"`
}

// TopUpRequest adds money to an account as a one-time income dated today.
type TopUpRequest struct {
	Account            domain.Account           `json:"account" binding:"required,oneof=ACCOUNT_1 ACCOUNT_2 ACCOUNT_3"`
	Amount             decimal.Decimal          `json:"amount" binding:"positive_decimal"`
	DonationPercentage decimal.Decimal          `json:"donationPercentage" binding:"percent"`
	TransactionStatus  domain.TransactionStatus `json:"transactionStatus" binding:"required,oneof=REAL STATISTICAL"`
}

// TransferRequest moves funds between two accounts.
type TransferRequest struct {
	FromAccount   domain.Account   `json:"fromAccount" binding:"required,oneof=ACCOUNT_1 ACCOUNT_2 ACCOUNT_3"`
	ToAccount     domain.Account   `json:"toAccount" binding:"required,oneof=ACCOUNT_1 ACCOUNT_2 ACCOUNT_3,nefield=FromAccount"`
	Amount        decimal.Decimal  `json:"amount" binding:"positive_decimal"`
	TaxPercentage *decimal.Decimal `json:"taxPercentage,omitempty" binding:"omitempty,percent"`
}

// LedgerEntryResponse is the API view of a ledger entry.
type LedgerEntryResponse struct {
	EntryID              string                   `json:"entryID"`
	EntryType            domain.EntryType         `json:"entryType"`
	Recurrence           domain.Recurrence        `json:"recurrence"`
	Account              domain.Account           `json:"account"`
	AccountName          string                   `json:"accountName"`
	ServiceLabel         string                   `json:"serviceLabel"`
	Amount               decimal.Decimal          `json:"amount"`
	Currency             domain.Currency          `json:"currency"`
	DonationAmount       decimal.Decimal          `json:"donationAmount"`
	DonationPercentage   decimal.Decimal          `json:"donationPercentage"`
	TaxPercentage        *decimal.Decimal         `json:"taxPercentage,omitempty"`
	ExchangeRateSnapshot decimal.Decimal          `json:"exchangeRateSnapshot"`
	TransactionStatus    domain.TransactionStatus `json:"transactionStatus"`
	EventDate            string                   `json:"eventDate"`
	InitialDate          *string                  `json:"initialDate,omitempty"`
	CreatedAt            time.Time                `json:"createdAt"`
	CreatedBy            string                   `json:"createdBy"`
	LastUpdatedAt        time.Time                `json:"lastUpdatedAt"`
	LastUpdatedBy        string                   `json:"lastUpdatedBy"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		EntryID:              e.EntryID,
		EntryType:            e.EntryType,
		Recurrence:           e.Recurrence,
		Account:              e.Account,
		AccountName:          e.Account.DisplayName(),
		ServiceLabel:         e.ServiceLabel,
		Amount:               e.Amount,
		Currency:             e.Currency,
		DonationAmount:       e.DonationAmount,
		DonationPercentage:   e.DonationPercentage,
		TaxPercentage:        e.TaxPercentage,
		ExchangeRateSnapshot: e.ExchangeRateSnapshot,
		TransactionStatus:    e.TransactionStatus,
		EventDate:            e.EventDate.Format(DateLayout),
		CreatedAt:            e.CreatedAt,
		CreatedBy:            e.CreatedBy,
		LastUpdatedAt:        e.LastUpdatedAt,
		LastUpdatedBy:        e.LastUpdatedBy,
	}
	if e.InitialDate != nil {
		initial := e.InitialDate.Format(DateLayout)
		resp.InitialDate = &initial
	}
	return resp
}

// ToLedgerEntryResponses converts a slice of entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}

// ListLedgerEntriesParams carries the query-string filters for listing entries.
type ListLedgerEntriesParams struct {
	Limit             int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken         *string `form:"nextToken"`
	EntryType         *string `form:"entryType" binding:"omitempty,oneof=INCOME OUTCOME"`
	Recurrence        *string `form:"recurrence" binding:"omitempty,oneof=ONE_TIME MONTHLY"`
	Account           *string `form:"account" binding:"omitempty,oneof=ACCOUNT_1 ACCOUNT_2 ACCOUNT_3"`
	Currency          *string `form:"currency" binding:"omitempty,oneof=UZS USD"`
	TransactionStatus *string `form:"transactionStatus" binding:"omitempty,oneof=REAL STATISTICAL"`
	DateFrom          *string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo            *string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	Search            string  `form:"search" binding:"max=100"`
}

// ListLedgerEntriesResponse is one page of entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// TransferResponse reports both legs of a transfer.
type TransferResponse struct {
	FromEntryID     string          `json:"fromEntryID"`
	ToEntryID       string          `json:"toEntryID"`
	Amount          decimal.Decimal `json:"amount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	FromCurrency    domain.Currency `json:"fromCurrency"`
	ToCurrency      domain.Currency `json:"toCurrency"`
}

// ToTransferResponse converts a domain.TransferResult.
func ToTransferResponse(r *domain.TransferResult) TransferResponse {
	return TransferResponse{
		FromEntryID:     r.FromEntry.EntryID,
		ToEntryID:       r.ToEntry.EntryID,
		Amount:          r.FromEntry.Amount,
		TaxAmount:       r.TaxAmount,
		ConvertedAmount: r.ConvertedAmount,
		FromCurrency:    r.FromEntry.Currency,
		ToCurrency:      r.ToEntry.Currency,
	}
}
