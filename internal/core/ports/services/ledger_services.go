package services

import (
	"context"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/SscSPs/cims_finance/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger entries
type LedgerReaderSvc interface {
	// GetEntry retrieves a ledger entry by ID.
	GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// ListEntries returns a filtered page of entries.
	ListEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)
}

// LedgerWriterSvc defines the mutating ledger operations. Each one keeps the
// donation accumulator consistent with the stored entries.
type LedgerWriterSvc interface {
	// CreateEntry records a new entry and adds its donation to the accumulator.
	CreateEntry(ctx context.Context, req dto.LedgerEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error)

	// UpdateEntry recomputes an entry from req, preserving its initial date while it stays monthly.
	UpdateEntry(ctx context.Context, entryID string, req dto.LedgerEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error)

	// DeleteEntry removes an entry and subtracts its donation.
	DeleteEntry(ctx context.Context, entryID string, actor domain.Actor) error

	// TopUp records a one-time income dated today.
	TopUp(ctx context.Context, req dto.TopUpRequest, actor domain.Actor) (*domain.LedgerEntry, error)

	// Transfer moves funds between two accounts as a debit and a credit entry.
	Transfer(ctx context.Context, req dto.TransferRequest, actor domain.Actor) (*domain.TransferResult, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
