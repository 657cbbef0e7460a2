package repositories

import (
	"context"

	"github.com/SscSPs/cims_finance/internal/core/domain"
)

// LedgerEntryMutator recomputes an entry from its current stored state.
// It runs inside the repository transaction, after the row has been locked.
type LedgerEntryMutator func(existing domain.LedgerEntry) (domain.LedgerEntry, error)

// LedgerEntryReader defines read operations for ledger entries
type LedgerEntryReader interface {
	// FindEntryByID retrieves a single entry. Returns apperrors.ErrNotFound if it does not exist.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntries returns one page of entries, newest event date first, and a token for the next page.
	ListEntries(ctx context.Context, filter domain.LedgerEntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// FindEntries returns every entry matching filter. Used by reports.
	FindEntries(ctx context.Context, filter domain.LedgerEntryFilter) ([]domain.LedgerEntry, error)
}

// LedgerEntryWriter defines write operations for ledger entries.
// Every method writes the entry rows and the donation accumulator in one transaction.
type LedgerEntryWriter interface {
	// SaveEntry inserts entry and adds its donation amount to the accumulator.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// UpdateEntry locks the entry, applies mutate, stores the result and moves the
	// accumulator by (new donation - old donation).
	UpdateEntry(ctx context.Context, entryID string, mutate LedgerEntryMutator) (*domain.LedgerEntry, error)

	// DeleteEntry removes the entry and subtracts its donation amount. It returns the removed entry.
	DeleteEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// SaveTransfer inserts the debit and credit legs of a transfer together.
	SaveTransfer(ctx context.Context, debit, credit domain.LedgerEntry) error
}

// LedgerSnapshotReader reads the projection inputs from a single consistent view.
type LedgerSnapshotReader interface {
	LoadLedgerSnapshot(ctx context.Context) (*domain.LedgerSnapshot, error)
}

// LedgerEntryRepositoryFacade combines all ledger entry repository interfaces
type LedgerEntryRepositoryFacade interface {
	LedgerEntryReader
	LedgerEntryWriter
	LedgerSnapshotReader
}
