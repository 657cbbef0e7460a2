package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/SscSPs/cims_finance/internal/core/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reportEntry(id string, t domain.EntryType, account domain.Account, label, amount, donation string, date time.Time) domain.LedgerEntry {
	e := realEntry(id, t, account, amount, donation)
	e.ServiceLabel = label
	e.EventDate = date
	return e
}

func reportFixture() []domain.LedgerEntry {
	return []domain.LedgerEntry{
		reportEntry("e1", domain.Income, domain.Account1, "Consulting", "1000", "100", day(2024, 1, 5)),
		reportEntry("e2", domain.Outcome, domain.Account2, "Rent", "400", "0", day(2024, 1, 20)),
		reportEntry("e3", domain.Income, domain.Account3, "Consulting", "50", "63500", day(2024, 3, 2)),
		reportEntry("e4", domain.Outcome, domain.Account1, "Rent", "300", "0", day(2024, 3, 9)),
		reportEntry("e5", domain.Income, domain.Account1, "Audit", "700", "0", day(2024, 3, 10)),
	}
}

func TestReportingService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLedgerEntryRepository)
	account := "ACCOUNT_1"
	repo.On("FindEntries", ctx, mock.MatchedBy(func(f domain.LedgerEntryFilter) bool {
		return f.Account != nil && *f.Account == domain.Account1
	})).Return([]domain.LedgerEntry{reportFixture()[0], reportFixture()[3], reportFixture()[4]}, nil).Once()

	svc := services.NewReportingService(repo)
	stats, err := svc.Stats(ctx, dto.FinanceStatsParams{Account: &account})

	require.NoError(t, err)
	assert.True(t, stats.TotalIncome.Equal(dec("1700")))
	assert.True(t, stats.TotalOutcome.Equal(dec("300")))
	assert.True(t, stats.NetProfit.Equal(dec("1400")))
	assert.True(t, stats.TotalDonation.Equal(dec("100")))
	assert.Equal(t, 3, stats.TransactionCount)
	assert.Equal(t, 2, stats.IncomeCount)
	assert.Equal(t, 1, stats.OutcomeCount)
}

func TestReportingService_StatsRejectsBadRange(t *testing.T) {
	from, to := "2024-05-01", "2024-04-01"
	svc := services.NewReportingService(new(MockLedgerEntryRepository))

	_, err := svc.Stats(context.Background(), dto.FinanceStatsParams{DateFrom: &from, DateTo: &to})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReportingService_MonthlyReport(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLedgerEntryRepository)
	repo.On("FindEntries", ctx, mock.MatchedBy(func(f domain.LedgerEntryFilter) bool {
		return f.DateFrom.Equal(day(2024, 2, 1)) && f.DateTo.Equal(day(2024, 2, 29))
	})).Return([]domain.LedgerEntry{}, nil).Once()

	svc := services.NewReportingService(repo)
	report, err := svc.MonthlyReport(ctx, 2024, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Month)
	assert.Equal(t, 0, report.TransactionCount)
	assert.True(t, report.NetAmount.IsZero())
	repo.AssertExpectations(t)
}

func TestReportingService_MonthlyReportRejectsBadMonth(t *testing.T) {
	svc := services.NewReportingService(new(MockLedgerEntryRepository))
	for _, m := range []int{0, 13} {
		_, err := svc.MonthlyReport(context.Background(), 2024, m)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}
}

func TestReportingService_YearlyReport(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLedgerEntryRepository)
	repo.On("FindEntries", ctx, mock.AnythingOfType("domain.LedgerEntryFilter")).Return(reportFixture(), nil).Once()

	svc := services.NewReportingService(repo)
	report, err := svc.YearlyReport(ctx, 2024)

	require.NoError(t, err)
	require.Len(t, report.Months, 12)
	jan, feb, mar := report.Months[0], report.Months[1], report.Months[2]
	assert.Equal(t, 2, jan.TransactionCount)
	assert.True(t, jan.NetAmount.Equal(dec("600")))
	assert.Equal(t, 0, feb.TransactionCount)
	assert.True(t, mar.TotalIncome.Equal(dec("750")))
	assert.True(t, mar.DonationAmount.Equal(dec("63500")))
	assert.Equal(t, 5, report.TransactionCount)
	assert.True(t, report.TotalIncome.Equal(dec("1750")))
	assert.True(t, report.TotalOutcome.Equal(dec("700")))
	assert.True(t, report.NetAmount.Equal(dec("1050")))
}

func TestReportingService_TopServices(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLedgerEntryRepository)
	repo.On("FindEntries", ctx, domain.LedgerEntryFilter{}).Return(reportFixture(), nil)

	svc := services.NewReportingService(repo)
	top, err := svc.TopServices(ctx, 2)

	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Consulting", top[0].ServiceLabel)
	assert.Equal(t, 2, top[0].UsageCount)
	assert.True(t, top[0].TotalAmount.Equal(dec("1050")))
	assert.Equal(t, "Rent", top[1].ServiceLabel)

	_, err = svc.TopServices(ctx, services.MaxTopServices+1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReportingService_AccountStatistics(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLedgerEntryRepository)
	entries := reportFixture()
	repo.On("FindEntries", ctx, domain.LedgerEntryFilter{}).Return([]domain.LedgerEntry{entries[2], entries[0], entries[3]}, nil).Once()

	svc := services.NewReportingService(repo)
	stats, err := svc.AccountStatistics(ctx)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, domain.Account1, stats[0].Account)
	assert.Equal(t, 1, stats[0].IncomeCount)
	assert.Equal(t, 1, stats[0].OutcomeCount)
	assert.Equal(t, 2, stats[0].TotalTransactions)
	assert.Equal(t, domain.Account3, stats[1].Account)
	assert.Equal(t, "Company Account US", stats[1].DisplayName)
}
