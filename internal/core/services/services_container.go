package services

import (
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// provider may be nil, in which case live rate sync reports a RateFetchError.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	provider portssvc.RateQuoteProvider,
	publisher portssvc.EventPublisher,
	clock Clock,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Ledger writes snapshot the rate, so the rate service comes first.
	container.ExchangeRate = NewExchangeRateService(
		repos.ExchangeRateRepo,
		WithRateQuoteProvider(provider),
		WithFallbackRate(cfg.DefaultExchangeRate),
		WithExchangeRateClock(clock),
		WithExchangeRatePublisher(publisher),
	)

	container.Ledger = NewLedgerService(
		repos.LedgerEntryRepo,
		container.ExchangeRate,
		WithLedgerClock(clock),
		WithLedgerPublisher(publisher),
	)

	container.Balance = NewBalanceService(
		repos.LedgerEntryRepo,
		WithBalanceClock(clock),
		WithProjectionWindow(cfg.ProjectionWindowDays),
		WithBalanceFallbackRate(cfg.DefaultExchangeRate),
	)

	container.Donation = NewDonationService(
		repos.DonationRepo,
		WithResetRoles(cfg.FinanceRoles),
		WithDonationClock(clock),
		WithDonationPublisher(publisher),
	)

	container.Reporting = NewReportingService(repos.LedgerEntryRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade       = (*ledgerService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)
	_ portssvc.BalanceSvc            = (*balanceService)(nil)
	_ portssvc.DonationSvc           = (*donationService)(nil)
	_ portssvc.ReportingService      = (*reportingService)(nil)
)
