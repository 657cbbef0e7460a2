package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// Both the postgres and the in-memory backends build one.
type RepositoryProvider struct {
	LedgerEntryRepo  LedgerEntryRepositoryFacade
	DonationRepo     DonationRepository
	ExchangeRateRepo ExchangeRateRepositoryFacade
}
