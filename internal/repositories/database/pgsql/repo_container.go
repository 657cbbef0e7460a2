package pgsql

import (
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the postgres-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerEntryRepo:  newPgxLedgerEntryRepository(dbPool),
		DonationRepo:     newPgxDonationRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
	}
}
