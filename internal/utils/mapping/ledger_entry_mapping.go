package mapping

import (
	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/SscSPs/cims_finance/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:              d.EntryID,
		EntryType:            string(d.EntryType),
		Recurrence:           string(d.Recurrence),
		Account:              string(d.Account),
		ServiceLabel:         d.ServiceLabel,
		Amount:               d.Amount,
		Currency:             string(d.Currency),
		DonationAmount:       d.DonationAmount,
		DonationPercentage:   d.DonationPercentage,
		TaxPercentage:        d.TaxPercentage,
		ExchangeRateSnapshot: d.ExchangeRateSnapshot,
		TransactionStatus:    string(d.TransactionStatus),
		EventDate:            d.EventDate,
		InitialDate:          d.InitialDate,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:              m.EntryID,
		EntryType:            domain.EntryType(m.EntryType),
		Recurrence:           domain.Recurrence(m.Recurrence),
		Account:              domain.Account(m.Account),
		ServiceLabel:         m.ServiceLabel,
		Amount:               m.Amount,
		Currency:             domain.Currency(m.Currency),
		DonationAmount:       m.DonationAmount,
		DonationPercentage:   m.DonationPercentage,
		TaxPercentage:        m.TaxPercentage,
		ExchangeRateSnapshot: m.ExchangeRateSnapshot,
		TransactionStatus:    domain.TransactionStatus(m.TransactionStatus),
		EventDate:            m.EventDate,
		InitialDate:          m.InitialDate,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntries converts a slice of model entries
func ToDomainLedgerEntries(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
