package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	"github.com/SscSPs/cims_finance/internal/models"
	"github.com/SscSPs/cims_finance/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const latestExchangeRateQuery = `
	SELECT exchange_rate_id, rate, source, recorded_at, recorded_by
	FROM exchange_rates
	ORDER BY recorded_at DESC, seq DESC
	LIMIT 1;
`

// PgxExchangeRateRepository implements portsrepo.ExchangeRateRepositoryFacade using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// SaveExchangeRate appends a rate. There is no update path.
func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (exchange_rate_id, rate, source, recorded_at, recorded_by)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := r.Pool.Exec(ctx, query, m.ExchangeRateID, m.Rate, m.Source, m.RecordedAt, m.RecordedBy); err != nil {
		return translatePgError(err, "failed to save exchange rate")
	}
	return nil
}

func scanExchangeRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var m models.ExchangeRate
	if err := row.Scan(&m.ExchangeRateID, &m.Rate, &m.Source, &m.RecordedAt, &m.RecordedBy); err != nil {
		return nil, err
	}
	d := mapping.ToDomainExchangeRate(m)
	return &d, nil
}

// FindLatestExchangeRate returns the most recently recorded rate.
func (r *PgxExchangeRateRepository) FindLatestExchangeRate(ctx context.Context) (*domain.ExchangeRate, error) {
	rate, err := scanExchangeRate(r.Pool.QueryRow(ctx, latestExchangeRateQuery))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no exchange rate recorded")
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find latest exchange rate", err)
	}
	return rate, nil
}

// ListExchangeRates returns up to limit rates, newest first.
func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, limit int) ([]domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, rate, source, recorded_at, recorded_by
		FROM exchange_rates
		ORDER BY recorded_at DESC, seq DESC
		LIMIT $1;
	`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list exchange rates", err)
	}
	defer rows.Close()

	rates := make([]domain.ExchangeRate, 0, limit)
	for rows.Next() {
		rate, err := scanExchangeRate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan exchange rate", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to iterate exchange rates", err)
	}
	return rates, nil
}
