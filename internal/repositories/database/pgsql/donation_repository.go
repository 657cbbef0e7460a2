package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// donationBalanceID is the primary key of the single accumulator row.
const donationBalanceID = 1

// adjustDonationQuery moves the accumulator by a delta in one statement, creating
// the row if it is missing. It never reads the total into the application.
const adjustDonationQuery = `
	INSERT INTO donation_balance (id, total_donation, last_updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (id) DO UPDATE
	SET total_donation = donation_balance.total_donation + EXCLUDED.total_donation,
	    last_updated_at = NOW();
`

// adjustDonationTotal applies delta inside tx. A zero delta leaves the row untouched.
func adjustDonationTotal(ctx context.Context, tx pgx.Tx, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	if _, err := tx.Exec(ctx, adjustDonationQuery, donationBalanceID, delta); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to adjust donation total", err)
	}
	return nil
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// queryDonationTotal reads the accumulator; a missing row reads as zero.
func queryDonationTotal(ctx context.Context, q rowQuerier) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := q.QueryRow(ctx, `SELECT total_donation FROM donation_balance WHERE id = $1;`, donationBalanceID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, apperrors.NewAppError(http.StatusInternalServerError, "failed to read donation total", err)
	}
	return total, nil
}

// PgxDonationRepository implements portsrepo.DonationRepository
type PgxDonationRepository struct {
	BaseRepository
}

func newPgxDonationRepository(pool *pgxpool.Pool) portsrepo.DonationRepository {
	return &PgxDonationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// GetDonationTotal returns the accumulator value.
func (r *PgxDonationRepository) GetDonationTotal(ctx context.Context) (decimal.Decimal, error) {
	return queryDonationTotal(ctx, r.Pool)
}

// ResetDonationTotal sets the accumulator to zero. Ledger entries are not touched.
func (r *PgxDonationRepository) ResetDonationTotal(ctx context.Context) error {
	query := `
		INSERT INTO donation_balance (id, total_donation, last_updated_at)
		VALUES ($1, 0, NOW())
		ON CONFLICT (id) DO UPDATE SET total_donation = 0, last_updated_at = NOW();
	`
	if _, err := r.Pool.Exec(ctx, query, donationBalanceID); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to reset donation total", err)
	}
	return nil
}
