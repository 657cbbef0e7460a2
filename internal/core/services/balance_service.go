package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/SscSPs/cims_finance/internal/utils"
	"github.com/SscSPs/cims_finance/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// balanceService runs the projection over a consistent snapshot of the ledger.
type balanceService struct {
	BaseService
	snapshots    portsrepo.LedgerSnapshotReader
	fallbackRate decimal.Decimal
	windowDays   int
}

// BalanceServiceOption configures the balance service.
type BalanceServiceOption func(*balanceService)

// WithBalanceClock sets the clock that decides "today".
func WithBalanceClock(c Clock) BalanceServiceOption {
	return func(s *balanceService) { s.Clock = c }
}

// WithProjectionWindow sets how many days ahead potential figures look.
func WithProjectionWindow(days int) BalanceServiceOption {
	return func(s *balanceService) {
		if days >= 0 {
			s.windowDays = days
		}
	}
}

// WithBalanceFallbackRate sets the rate used when none has been recorded.
func WithBalanceFallbackRate(rate decimal.Decimal) BalanceServiceOption {
	return func(s *balanceService) {
		if rate.IsPositive() {
			s.fallbackRate = rate
		}
	}
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(snapshots portsrepo.LedgerSnapshotReader, opts ...BalanceServiceOption) portssvc.BalanceSvc {
	s := &balanceService{
		BaseService:  BaseService{Clock: NewClock(nil)},
		snapshots:    snapshots,
		fallbackRate: DefaultExchangeRate,
		windowDays:   accounting.DefaultProjectionWindowDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

type projected struct {
	balances domain.Balances
	rate     decimal.Decimal
	donation decimal.Decimal
}

func (s *balanceService) project(ctx context.Context) (*projected, error) {
	snap, err := s.snapshots.LoadLedgerSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger snapshot: %w", err)
	}
	rate := s.fallbackRate
	if snap.LatestRate != nil {
		rate = snap.LatestRate.Rate
	}

	today := s.Clock.Today()
	balances, err := accounting.ProjectBalances(snap.Entries, rate, today, s.windowDays)
	if err != nil {
		s.LogError(ctx, err, "Balance projection failed", slog.Int("entries", len(snap.Entries)))
		return nil, fmt.Errorf("failed to project balances: %w", err)
	}
	s.LogDebug(ctx, "Balances projected",
		slog.Int("entries", len(snap.Entries)),
		slog.String("rate", rate.String()),
		slog.String("today", today.Format(dto.DateLayout)))
	return &projected{balances: balances, rate: rate, donation: snap.DonationTotal}, nil
}

// GetBalances projects real and potential balances from the whole ledger.
func (s *balanceService) GetBalances(ctx context.Context) (*domain.Balances, error) {
	p, err := s.project(ctx)
	if err != nil {
		return nil, err
	}
	return &p.balances, nil
}

func accountBalance(b domain.Balances, a domain.Account) decimal.Decimal {
	switch a {
	case domain.Account1:
		return b.Account1
	case domain.Account2:
		return b.Account2
	case domain.Account3:
		return b.Account3
	}
	return decimal.Zero
}

// GetDashboard returns balances, the donation total and the current rate with display strings.
func (s *balanceService) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	p, err := s.project(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]dto.AccountBalance, 0, len(domain.Accounts))
	for _, a := range domain.Accounts {
		currency, err := a.Currency()
		if err != nil {
			return nil, err
		}
		balance := accountBalance(p.balances, a)
		accounts = append(accounts, dto.AccountBalance{
			Account:   a,
			Name:      a.DisplayName(),
			Currency:  currency,
			Balance:   balance,
			Formatted: utils.FormatMoney(balance, currency),
		})
	}

	return &dto.DashboardResponse{
		Accounts:           accounts,
		Balances:           p.balances,
		TotalFormatted:     utils.FormatMoney(p.balances.Total, domain.CurrencyUZS),
		PotentialFormatted: utils.FormatMoney(p.balances.Potential, domain.CurrencyUZS),
		DonationTotal:      p.donation,
		DonationFormatted:  utils.FormatMoney(p.donation, domain.CurrencyUZS),
		ExchangeRate:       p.rate,
	}, nil
}
