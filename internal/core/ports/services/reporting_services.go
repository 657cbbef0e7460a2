package services

import (
	"context"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/SscSPs/cims_finance/internal/dto"
)

// ReportingService defines read-only finance reports. Amounts are summed as
// recorded on each entry, without currency conversion.
type ReportingService interface {
	// Stats summarises entries matching params.
	Stats(ctx context.Context, params dto.FinanceStatsParams) (*domain.FinanceStats, error)

	// MonthlyReport summarises entries dated within one calendar month.
	MonthlyReport(ctx context.Context, year, month int) (*domain.MonthlyReport, error)

	// YearlyReport breaks a year down month by month.
	YearlyReport(ctx context.Context, year int) (*domain.YearlyReport, error)

	// TopServices ranks service labels by how often they appear.
	TopServices(ctx context.Context, limit int) ([]domain.ServiceUsage, error)

	// AccountStatistics groups counts and amounts per account and direction.
	AccountStatistics(ctx context.Context) ([]domain.AccountStats, error)
}
