package dto

import "github.com/SscSPs/cims_finance/internal/core/domain"

// FinanceStatsParams filters the stats report.
type FinanceStatsParams struct {
	DateFrom          *string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo            *string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	Account           *string `form:"account" binding:"omitempty,oneof=ACCOUNT_1 ACCOUNT_2 ACCOUNT_3"`
	TransactionStatus *string `form:"transactionStatus" binding:"omitempty,oneof=REAL STATISTICAL"`
}

// TopServicesParams limits the top-services report.
type TopServicesParams struct {
	Limit int `form:"limit,default=10" binding:"min=1,max=50"`
}

// TopServicesResponse lists the most used service labels.
type TopServicesResponse struct {
	TopServices        []domain.ServiceUsage `json:"topServices"`
	TotalServicesFound int                   `json:"totalServicesFound"`
}

// AccountStatsResponse lists per-account statistics.
type AccountStatsResponse struct {
	AccountStatistics []domain.AccountStats `json:"accountStatistics"`
	TotalAccounts     int                   `json:"totalAccounts"`
}
