package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEventType names a committed ledger change.
type LedgerEventType string

const (
	EventEntryCreated  LedgerEventType = "ledger_entry_created"
	EventEntryUpdated  LedgerEventType = "ledger_entry_updated"
	EventEntryDeleted  LedgerEventType = "ledger_entry_deleted"
	EventTransfer      LedgerEventType = "ledger_transfer"
	EventDonationReset LedgerEventType = "donation_reset"
	EventRateRecorded  LedgerEventType = "exchange_rate_recorded"
)

// LedgerEvent describes a change after it has been committed.
type LedgerEvent struct {
	Type       LedgerEventType `json:"type"`
	EntryIDs   []string        `json:"entryIDs,omitempty"`
	Account    string          `json:"account,omitempty"`
	ToAccount  string          `json:"toAccount,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	Donation   decimal.Decimal `json:"donation"`
	ActorID    string          `json:"actorID"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// EventPublisher delivers ledger events to downstream consumers.
// Publishing happens after commit; a failure never rolls back the ledger.
type EventPublisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
}
