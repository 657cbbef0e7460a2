package mapping

import (
	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/SscSPs/cims_finance/internal/models"
)

// ToModelExchangeRate converts a domain ExchangeRate to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRate) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID: d.ExchangeRateID,
		Rate:           d.Rate,
		Source:         string(d.Source),
		RecordedAt:     d.RecordedAt,
		RecordedBy:     d.RecordedBy,
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRate
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: m.ExchangeRateID,
		Rate:           m.Rate,
		Source:         domain.ExchangeRateSource(m.Source),
		RecordedAt:     m.RecordedAt,
		RecordedBy:     m.RecordedBy,
	}
}

// ToDomainExchangeRates converts a slice of model rates
func ToDomainExchangeRates(ms []models.ExchangeRate) []domain.ExchangeRate {
	ds := make([]domain.ExchangeRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExchangeRate(m)
	}
	return ds
}
