package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(id string, day int, donation string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:              id,
		EntryType:            domain.Income,
		Recurrence:           domain.OneTime,
		Account:              domain.Account1,
		Amount:               decimal.NewFromInt(1000),
		Currency:             domain.CurrencyUZS,
		DonationAmount:       decimal.RequireFromString(donation),
		ExchangeRateSnapshot: decimal.NewFromInt(12700),
		TransactionStatus:    domain.StatusReal,
		EventDate:            time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
		AuditFields: domain.AuditFields{
			CreatedAt: time.Date(2024, time.March, day, 9, 0, 0, 0, time.UTC),
		},
	}
}

func total(t *testing.T, s *Store) decimal.Decimal {
	t.Helper()
	got, err := s.GetDonationTotal(context.Background())
	require.NoError(t, err)
	return got
}

func TestStore_AccumulatorFollowsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.SaveEntry(ctx, newEntry("a", 1, "100")))
	require.NoError(t, s.SaveEntry(ctx, newEntry("b", 2, "50")))
	assert.True(t, total(t, s).Equal(decimal.NewFromInt(150)))

	_, err := s.UpdateEntry(ctx, "a", func(existing domain.LedgerEntry) (domain.LedgerEntry, error) {
		existing.DonationAmount = decimal.NewFromInt(30)
		return existing, nil
	})
	require.NoError(t, err)
	assert.True(t, total(t, s).Equal(decimal.NewFromInt(80)))

	removed, err := s.DeleteEntry(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "b", removed.EntryID)
	assert.True(t, total(t, s).Equal(decimal.NewFromInt(30)))

	assert.ErrorIs(t, s.SaveEntry(ctx, newEntry("a", 3, "1")), apperrors.ErrDuplicate)
	assert.True(t, total(t, s).Equal(decimal.NewFromInt(30)), "rejected insert leaves the total alone")
}

func TestStore_FailedUpdateChangesNothing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveEntry(ctx, newEntry("a", 1, "100")))

	boom := errors.New("boom")
	_, err := s.UpdateEntry(ctx, "a", func(existing domain.LedgerEntry) (domain.LedgerEntry, error) {
		return domain.LedgerEntry{}, boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := s.FindEntryByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, stored.DonationAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, total(t, s).Equal(decimal.NewFromInt(100)))

	_, err = s.UpdateEntry(ctx, "missing", func(e domain.LedgerEntry) (domain.LedgerEntry, error) { return e, nil })
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.DeleteEntry(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ConcurrentWritesDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.SaveEntry(ctx, newEntry(fmt.Sprintf("e-%02d", i), 1+i%28, "10")))
		}(i)
	}
	wg.Wait()

	assert.True(t, total(t, s).Equal(decimal.NewFromInt(10*writers)))
}

func TestStore_ListEntriesPaginates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for day := 1; day <= 5; day++ {
		require.NoError(t, s.SaveEntry(ctx, newEntry(fmt.Sprintf("d%d", day), day, "0")))
	}

	first, next, err := s.ListEntries(ctx, domain.LedgerEntryFilter{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "d5", first[0].EntryID)
	assert.Equal(t, "d4", first[1].EntryID)
	require.NotNil(t, next)

	second, next, err := s.ListEntries(ctx, domain.LedgerEntryFilter{}, 2, next)
	require.NoError(t, err)
	assert.Equal(t, []string{"d3", "d2"}, []string{second[0].EntryID, second[1].EntryID})
	require.NotNil(t, next)

	third, next, err := s.ListEntries(ctx, domain.LedgerEntryFilter{}, 2, next)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Equal(t, "d1", third[0].EntryID)
	assert.Nil(t, next)

	bad := "%%%"
	_, _, err = s.ListEntries(ctx, domain.LedgerEntryFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestStore_ExchangeRatesAreAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.FindLatestExchangeRate(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	at := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveExchangeRate(ctx, domain.ExchangeRate{ExchangeRateID: "r1", Rate: decimal.NewFromInt(12700), RecordedAt: at}))
	require.NoError(t, s.SaveExchangeRate(ctx, domain.ExchangeRate{ExchangeRateID: "r2", Rate: decimal.NewFromInt(12800), RecordedAt: at}))

	latest, err := s.FindLatestExchangeRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "r2", latest.ExchangeRateID)

	history, err := s.ListExchangeRates(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "r2", history[0].ExchangeRateID)
	assert.Equal(t, "r1", history[1].ExchangeRateID)
}
