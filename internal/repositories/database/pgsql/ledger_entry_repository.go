package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	"github.com/SscSPs/cims_finance/internal/models"
	"github.com/SscSPs/cims_finance/internal/utils/mapping"
	"github.com/SscSPs/cims_finance/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const ledgerEntryColumns = `
	entry_id, entry_type, recurrence, account, service_label, amount, currency,
	donation_amount, donation_percentage, tax_percentage, exchange_rate_snapshot,
	transaction_status, event_date, initial_date,
	created_at, created_by, last_updated_at, last_updated_by`

const insertLedgerEntryQuery = `
	INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`

// PgxLedgerEntryRepository implements portsrepo.LedgerEntryRepositoryFacade.
// Every write runs the entry statement and the donation adjustment in one transaction.
type PgxLedgerEntryRepository struct {
	BaseRepository
}

func newPgxLedgerEntryRepository(pool *pgxpool.Pool) portsrepo.LedgerEntryRepositoryFacade {
	return &PgxLedgerEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	var tax decimal.NullDecimal
	err := row.Scan(
		&m.EntryID, &m.EntryType, &m.Recurrence, &m.Account, &m.ServiceLabel, &m.Amount, &m.Currency,
		&m.DonationAmount, &m.DonationPercentage, &tax, &m.ExchangeRateSnapshot,
		&m.TransactionStatus, &m.EventDate, &m.InitialDate,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if tax.Valid {
		m.TaxPercentage = &tax.Decimal
	}
	d := mapping.ToDomainLedgerEntry(m)
	return &d, nil
}

func collectLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan ledger entry", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to iterate ledger entries", err)
	}
	return entries, nil
}

func nullableTax(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}

func insertArgs(e domain.LedgerEntry) []any {
	m := mapping.ToModelLedgerEntry(e)
	return []any{
		m.EntryID, m.EntryType, m.Recurrence, m.Account, m.ServiceLabel, m.Amount, m.Currency,
		m.DonationAmount, m.DonationPercentage, nullableTax(m.TaxPercentage), m.ExchangeRateSnapshot,
		m.TransactionStatus, m.EventDate, m.InitialDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

// SaveEntry inserts entry and adds its donation to the accumulator.
func (r *PgxLedgerEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, insertLedgerEntryQuery, insertArgs(entry)...); err != nil {
		return translatePgError(err, "failed to insert ledger entry "+entry.EntryID)
	}
	if err := adjustDonationTotal(ctx, tx, entry.DonationAmount); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateEntry locks the row, recomputes it through mutate and moves the
// accumulator by the donation difference before committing.
func (r *PgxLedgerEntryRepository) UpdateEntry(ctx context.Context, entryID string, mutate portsrepo.LedgerEntryMutator) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE entry_id = $1 FOR UPDATE;`
	existing, err := scanLedgerEntry(tx.QueryRow(ctx, lockQuery, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("ledger entry " + entryID + " not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to lock ledger entry "+entryID, err)
	}

	updated, err := mutate(*existing)
	if err != nil {
		return nil, err
	}
	updated.EntryID = existing.EntryID

	m := mapping.ToModelLedgerEntry(updated)
	updateQuery := `
		UPDATE ledger_entries
		SET entry_type = $2, recurrence = $3, account = $4, service_label = $5, amount = $6, currency = $7,
		    donation_amount = $8, donation_percentage = $9, tax_percentage = $10, exchange_rate_snapshot = $11,
		    transaction_status = $12, event_date = $13, initial_date = $14,
		    last_updated_at = $15, last_updated_by = $16
		WHERE entry_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		m.EntryID, m.EntryType, m.Recurrence, m.Account, m.ServiceLabel, m.Amount, m.Currency,
		m.DonationAmount, m.DonationPercentage, nullableTax(m.TaxPercentage), m.ExchangeRateSnapshot,
		m.TransactionStatus, m.EventDate, m.InitialDate,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return nil, translatePgError(err, "failed to update ledger entry "+entryID)
	}

	if err := adjustDonationTotal(ctx, tx, updated.DonationAmount.Sub(existing.DonationAmount)); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteEntry removes the entry and subtracts its donation.
func (r *PgxLedgerEntryRepository) DeleteEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `DELETE FROM ledger_entries WHERE entry_id = $1 RETURNING ` + ledgerEntryColumns + `;`
	removed, err := scanLedgerEntry(tx.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("ledger entry " + entryID + " not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to delete ledger entry "+entryID, err)
	}

	if err := adjustDonationTotal(ctx, tx, removed.DonationAmount.Neg()); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return removed, nil
}

// SaveTransfer inserts both legs of a transfer in one transaction.
func (r *PgxLedgerEntryRepository) SaveTransfer(ctx context.Context, debit, credit domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	batch.Queue(insertLedgerEntryQuery, insertArgs(debit)...)
	batch.Queue(insertLedgerEntryQuery, insertArgs(credit)...)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return translatePgError(err, "failed to insert transfer entries")
	}

	if err := adjustDonationTotal(ctx, tx, debit.DonationAmount.Add(credit.DonationAmount)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a single entry.
func (r *PgxLedgerEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE entry_id = $1;`
	e, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("ledger entry " + entryID + " not found")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find ledger entry "+entryID, err)
	}
	return e, nil
}

// escapeLike escapes LIKE wildcards so a search term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// buildEntryFilter turns filter into WHERE clauses, numbering placeholders after args.
func buildEntryFilter(filter domain.LedgerEntryFilter, args []any) ([]string, []any) {
	var clauses []string
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.EntryType != nil {
		add("entry_type = $%d", string(*filter.EntryType))
	}
	if filter.Recurrence != nil {
		add("recurrence = $%d", string(*filter.Recurrence))
	}
	if filter.Account != nil {
		add("account = $%d", string(*filter.Account))
	}
	if filter.Currency != nil {
		add("currency = $%d", string(*filter.Currency))
	}
	if filter.TransactionStatus != nil {
		add("transaction_status = $%d", string(*filter.TransactionStatus))
	}
	if filter.DateFrom != nil {
		add("event_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("event_date <= $%d", *filter.DateTo)
	}
	if filter.ServiceSearch != "" {
		add(`service_label ILIKE '%%' || $%d || '%%'`, escapeLike(filter.ServiceSearch))
	}
	return clauses, args
}

func whereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

const entryOrdering = ` ORDER BY event_date DESC, created_at DESC, entry_id DESC`

// FindEntries returns every entry matching filter, newest first.
func (r *PgxLedgerEntryRepository) FindEntries(ctx context.Context, filter domain.LedgerEntryFilter) ([]domain.LedgerEntry, error) {
	clauses, args := buildEntryFilter(filter, nil)
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries` + whereClause(clauses) + entryOrdering + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query ledger entries", err)
	}
	return collectLedgerEntries(rows)
}

// buildListEntriesQuery renders one page of the keyset listing. The cursor
// compares entry_id as text, the same order the in-memory store uses.
func buildListEntriesQuery(filter domain.LedgerEntryFilter, limit int, nextToken *string) (string, []any, error) {
	clauses, args := buildEntryFilter(filter, nil)

	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeEntryCursor(*nextToken)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.EventDate, cursor.CreatedAt, cursor.EntryID)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(event_date, created_at, entry_id) < ($%d, $%d, $%d)", n-2, n-1, n))
	}

	// Fetch one extra row to know whether another page exists.
	args = append(args, limit+1)
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries` + whereClause(clauses) + entryOrdering +
		fmt.Sprintf(` LIMIT $%d;`, len(args))
	return query, args, nil
}

// ListEntries returns one page of entries using keyset pagination over
// (event_date, created_at, entry_id).
func (r *PgxLedgerEntryRepository) ListEntries(ctx context.Context, filter domain.LedgerEntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		return nil, nil, apperrors.NewValidationError("limit must be positive")
	}
	query, args, err := buildListEntriesQuery(filter, limit, nextToken)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list ledger entries", err)
	}
	entries, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeEntryCursor(pagination.EntryCursor{EventDate: last.EventDate, CreatedAt: last.CreatedAt, EntryID: last.EntryID})
		next = &token
	}
	return entries, next, nil
}

// LoadLedgerSnapshot reads entries, the latest rate and the donation total
// inside one repeatable-read transaction.
func (r *PgxLedgerEntryRepository) LoadLedgerSnapshot(ctx context.Context) (*domain.LedgerSnapshot, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, `SELECT `+ledgerEntryColumns+` FROM ledger_entries;`)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to read ledger entries", err)
	}
	entries, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.LedgerSnapshot{Entries: entries}

	rate, err := scanExchangeRate(tx.QueryRow(ctx, latestExchangeRateQuery))
	switch {
	case err == nil:
		snapshot.LatestRate = rate
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to read latest exchange rate", err)
	}

	if snapshot.DonationTotal, err = queryDonationTotal(ctx, tx); err != nil {
		return nil, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return snapshot, nil
}
