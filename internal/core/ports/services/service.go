package services

// ServiceContainer holds instances of all the application services.
// Handlers receive it from main.
type ServiceContainer struct {
	Ledger       LedgerSvcFacade
	Balance      BalanceSvc
	Donation     DonationSvc
	ExchangeRate ExchangeRateSvcFacade
	Reporting    ReportingService
}
