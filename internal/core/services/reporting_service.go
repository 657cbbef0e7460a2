package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/shopspring/decimal"
)

// reportingService aggregates raw entry amounts. No currency conversion is applied.
type reportingService struct {
	BaseService
	entries portsrepo.LedgerEntryReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(entries portsrepo.LedgerEntryReader) portssvc.ReportingService {
	return &reportingService{
		BaseService: BaseService{Clock: NewClock(nil)},
		entries:     entries,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// MaxTopServices bounds the top-services report.
const MaxTopServices = 50

func (s *reportingService) Stats(ctx context.Context, params dto.FinanceStatsParams) (*domain.FinanceStats, error) {
	filter, err := entryFilterFromParams(dto.ListLedgerEntriesParams{
		Account:           params.Account,
		TransactionStatus: params.TransactionStatus,
		DateFrom:          params.DateFrom,
		DateTo:            params.DateTo,
	})
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.FindEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for stats: %w", err)
	}

	stats := domain.FinanceStats{
		TotalIncome:   decimal.Zero,
		TotalOutcome:  decimal.Zero,
		TotalDonation: decimal.Zero,
	}
	for _, e := range entries {
		switch e.EntryType {
		case domain.Income:
			stats.TotalIncome = stats.TotalIncome.Add(e.Amount)
			stats.IncomeCount++
		case domain.Outcome:
			stats.TotalOutcome = stats.TotalOutcome.Add(e.Amount)
			stats.OutcomeCount++
		default:
			return nil, fmt.Errorf("entry %s has unknown type %q", e.EntryID, e.EntryType)
		}
		stats.TotalDonation = stats.TotalDonation.Add(e.DonationAmount)
	}
	stats.NetProfit = stats.TotalIncome.Sub(stats.TotalOutcome)
	stats.TransactionCount = len(entries)
	return &stats, nil
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1)
}

func emptyMonth(year, month int) domain.MonthlyReport {
	return domain.MonthlyReport{
		Year:           year,
		Month:          month,
		TotalIncome:    decimal.Zero,
		TotalOutcome:   decimal.Zero,
		NetAmount:      decimal.Zero,
		DonationAmount: decimal.Zero,
	}
}

func addToMonth(r *domain.MonthlyReport, e domain.LedgerEntry) error {
	switch e.EntryType {
	case domain.Income:
		r.TotalIncome = r.TotalIncome.Add(e.Amount)
	case domain.Outcome:
		r.TotalOutcome = r.TotalOutcome.Add(e.Amount)
	default:
		return fmt.Errorf("entry %s has unknown type %q", e.EntryID, e.EntryType)
	}
	r.DonationAmount = r.DonationAmount.Add(e.DonationAmount)
	r.TransactionCount++
	r.NetAmount = r.TotalIncome.Sub(r.TotalOutcome)
	return nil
}

func validateYear(year int) error {
	if year < 1 || year > 9999 {
		return validationErrorf("year %d is out of range", year)
	}
	return nil
}

// MonthlyReport summarises entries dated within one calendar month.
func (s *reportingService) MonthlyReport(ctx context.Context, year, month int) (*domain.MonthlyReport, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, validationErrorf("month must be between 1 and 12, got %d", month)
	}
	from, to := monthRange(year, time.Month(month))
	entries, err := s.entries.FindEntries(ctx, domain.LedgerEntryFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for %04d-%02d: %w", year, month, err)
	}

	report := emptyMonth(year, month)
	for _, e := range entries {
		if err := addToMonth(&report, e); err != nil {
			return nil, err
		}
	}
	return &report, nil
}

// YearlyReport always returns twelve monthly rows, empty months included.
func (s *reportingService) YearlyReport(ctx context.Context, year int) (*domain.YearlyReport, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	entries, err := s.entries.FindEntries(ctx, domain.LedgerEntryFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for %04d: %w", year, err)
	}

	months := make([]domain.MonthlyReport, 12)
	for i := range months {
		months[i] = emptyMonth(year, i+1)
	}
	for _, e := range entries {
		if err := addToMonth(&months[int(e.EventDate.Month())-1], e); err != nil {
			return nil, err
		}
	}

	report := domain.YearlyReport{
		Year:           year,
		Months:         months,
		TotalIncome:    decimal.Zero,
		TotalOutcome:   decimal.Zero,
		NetAmount:      decimal.Zero,
		DonationAmount: decimal.Zero,
	}
	for _, m := range months {
		report.TotalIncome = report.TotalIncome.Add(m.TotalIncome)
		report.TotalOutcome = report.TotalOutcome.Add(m.TotalOutcome)
		report.DonationAmount = report.DonationAmount.Add(m.DonationAmount)
		report.TransactionCount += m.TransactionCount
	}
	report.NetAmount = report.TotalIncome.Sub(report.TotalOutcome)
	return &report, nil
}

// TopServices ranks service labels by how many entries use them.
// Ties are broken by label so the order is stable.
func (s *reportingService) TopServices(ctx context.Context, limit int) ([]domain.ServiceUsage, error) {
	if limit < 1 || limit > MaxTopServices {
		return nil, validationErrorf("limit must be between 1 and %d, got %d", MaxTopServices, limit)
	}
	entries, err := s.entries.FindEntries(ctx, domain.LedgerEntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for top services: %w", err)
	}

	byLabel := make(map[string]*domain.ServiceUsage)
	for _, e := range entries {
		u, ok := byLabel[e.ServiceLabel]
		if !ok {
			u = &domain.ServiceUsage{ServiceLabel: e.ServiceLabel, TotalAmount: decimal.Zero}
			byLabel[e.ServiceLabel] = u
		}
		u.UsageCount++
		u.TotalAmount = u.TotalAmount.Add(e.Amount)
	}

	usage := make([]domain.ServiceUsage, 0, len(byLabel))
	for _, u := range byLabel {
		usage = append(usage, *u)
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].UsageCount != usage[j].UsageCount {
			return usage[i].UsageCount > usage[j].UsageCount
		}
		return usage[i].ServiceLabel < usage[j].ServiceLabel
	})
	if len(usage) > limit {
		usage = usage[:limit]
	}
	return usage, nil
}

// AccountStatistics lists, in account order, every account that has entries.
func (s *reportingService) AccountStatistics(ctx context.Context) ([]domain.AccountStats, error) {
	entries, err := s.entries.FindEntries(ctx, domain.LedgerEntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for account statistics: %w", err)
	}

	byAccount := make(map[domain.Account]*domain.AccountStats)
	for _, e := range entries {
		st, ok := byAccount[e.Account]
		if !ok {
			st = &domain.AccountStats{
				Account:       e.Account,
				DisplayName:   e.Account.DisplayName(),
				IncomeAmount:  decimal.Zero,
				OutcomeAmount: decimal.Zero,
			}
			byAccount[e.Account] = st
		}
		switch e.EntryType {
		case domain.Income:
			st.IncomeCount++
			st.IncomeAmount = st.IncomeAmount.Add(e.Amount)
		case domain.Outcome:
			st.OutcomeCount++
			st.OutcomeAmount = st.OutcomeAmount.Add(e.Amount)
		default:
			return nil, fmt.Errorf("entry %s has unknown type %q", e.EntryID, e.EntryType)
		}
		st.TotalTransactions++
	}

	stats := make([]domain.AccountStats, 0, len(byAccount))
	for _, a := range domain.Accounts {
		if st, ok := byAccount[a]; ok {
			stats = append(stats, *st)
		}
	}
	return stats, nil
}
