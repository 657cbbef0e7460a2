package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	"github.com/SscSPs/cims_finance/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// Store is an in-memory ledger backend. A single mutex guards entries, rates
// and the donation total, so each method is atomic the way a database
// transaction is in the postgres backend.
type Store struct {
	mu            sync.RWMutex
	entries       map[string]domain.LedgerEntry
	rates         []domain.ExchangeRate
	donationTotal decimal.Decimal
}

// NewStore creates an empty store with a zero donation total.
func NewStore() *Store {
	return &Store{
		entries:       make(map[string]domain.LedgerEntry),
		donationTotal: decimal.Zero,
	}
}

// NewRepositoryProvider builds a RepositoryProvider backed by one shared Store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	store := NewStore()
	return portsrepo.RepositoryProvider{
		LedgerEntryRepo:  store,
		DonationRepo:     store,
		ExchangeRateRepo: store,
	}
}

var (
	_ portsrepo.LedgerEntryRepositoryFacade  = (*Store)(nil)
	_ portsrepo.DonationRepository           = (*Store)(nil)
	_ portsrepo.ExchangeRateRepositoryFacade = (*Store)(nil)
)

// SaveEntry inserts entry and adds its donation to the total.
func (s *Store) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.EntryID]; exists {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	s.entries[entry.EntryID] = entry
	s.donationTotal = s.donationTotal.Add(entry.DonationAmount)
	return nil
}

// UpdateEntry applies mutate under the write lock. If mutate fails nothing changes.
func (s *Store) UpdateEntry(ctx context.Context, entryID string, mutate portsrepo.LedgerEntryMutator) (*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger entry " + entryID + " not found")
	}
	updated, err := mutate(existing)
	if err != nil {
		return nil, err
	}
	updated.EntryID = existing.EntryID

	s.entries[entryID] = updated
	s.donationTotal = s.donationTotal.Sub(existing.DonationAmount).Add(updated.DonationAmount)
	return &updated, nil
}

// DeleteEntry removes the entry and subtracts its donation.
func (s *Store) DeleteEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger entry " + entryID + " not found")
	}
	delete(s.entries, entryID)
	s.donationTotal = s.donationTotal.Sub(existing.DonationAmount)
	return &existing, nil
}

// SaveTransfer inserts both legs or neither.
func (s *Store) SaveTransfer(ctx context.Context, debit, credit domain.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if debit.EntryID == credit.EntryID {
		return fmt.Errorf("%w: transfer legs share id %s", apperrors.ErrDuplicate, debit.EntryID)
	}
	for _, id := range []string{debit.EntryID, credit.EntryID} {
		if _, exists := s.entries[id]; exists {
			return fmt.Errorf("%w: ledger entry %s", apperrors.ErrDuplicate, id)
		}
	}
	s.entries[debit.EntryID] = debit
	s.entries[credit.EntryID] = credit
	s.donationTotal = s.donationTotal.Add(debit.DonationAmount).Add(credit.DonationAmount)
	return nil
}

// FindEntryByID returns a copy of the stored entry.
func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger entry " + entryID + " not found")
	}
	return &e, nil
}

// sortedLocked returns matching entries newest first. Callers hold at least the read lock.
func (s *Store) sortedLocked(filter domain.LedgerEntryFilter) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.EventDate.Equal(b.EventDate) {
			return a.EventDate.After(b.EventDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.EntryID > b.EntryID
	})
	return out
}

// FindEntries returns every entry matching filter, newest first.
func (s *Store) FindEntries(ctx context.Context, filter domain.LedgerEntryFilter) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(filter), nil
}

// ListEntries returns one page of matching entries.
func (s *Store) ListEntries(ctx context.Context, filter domain.LedgerEntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		return nil, nil, apperrors.NewValidationError("limit must be positive")
	}
	var cursor *pagination.EntryCursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeEntryCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	all := s.sortedLocked(filter)
	s.mu.RUnlock()

	page := make([]domain.LedgerEntry, 0, limit)
	hasMore := false
	for _, e := range all {
		if cursor != nil && !cursor.After(e.EventDate, e.CreatedAt, e.EntryID) {
			continue
		}
		if len(page) == limit {
			hasMore = true
			break
		}
		page = append(page, e)
	}

	var next *string
	if hasMore {
		last := page[len(page)-1]
		token := pagination.EncodeEntryCursor(pagination.EntryCursor{EventDate: last.EventDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		next = &token
	}
	return page, next, nil
}

// LoadLedgerSnapshot copies entries, the latest rate and the donation total under one read lock.
func (s *Store) LoadLedgerSnapshot(ctx context.Context) (*domain.LedgerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &domain.LedgerSnapshot{
		Entries:       make([]domain.LedgerEntry, 0, len(s.entries)),
		DonationTotal: s.donationTotal,
	}
	for _, e := range s.entries {
		snapshot.Entries = append(snapshot.Entries, e)
	}
	if latest, ok := s.latestRateLocked(); ok {
		snapshot.LatestRate = &latest
	}
	return snapshot, nil
}

// GetDonationTotal returns the accumulator.
func (s *Store) GetDonationTotal(ctx context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.donationTotal, nil
}

// ResetDonationTotal zeroes the accumulator and leaves entries alone.
func (s *Store) ResetDonationTotal(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donationTotal = decimal.Zero
	return nil
}

// SaveExchangeRate appends rate.
func (s *Store) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = append(s.rates, rate)
	return nil
}

// latestRateLocked picks the newest recorded rate; on equal timestamps the later append wins.
func (s *Store) latestRateLocked() (domain.ExchangeRate, bool) {
	if len(s.rates) == 0 {
		return domain.ExchangeRate{}, false
	}
	latest := s.rates[0]
	for _, r := range s.rates[1:] {
		if !r.RecordedAt.Before(latest.RecordedAt) {
			latest = r
		}
	}
	return latest, true
}

// FindLatestExchangeRate returns the newest rate or a not-found error.
func (s *Store) FindLatestExchangeRate(ctx context.Context) (*domain.ExchangeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest, ok := s.latestRateLocked()
	if !ok {
		return nil, apperrors.NewNotFoundError("no exchange rate recorded")
	}
	return &latest, nil
}

// ListExchangeRates returns up to limit rates, newest first.
func (s *Store) ListExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error) {
	s.mu.RLock()
	out := make([]domain.ExchangeRate, len(s.rates))
	copy(out, s.rates)
	s.mu.RUnlock()

	// Reverse first so the stable sort keeps later appends ahead on equal timestamps.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
