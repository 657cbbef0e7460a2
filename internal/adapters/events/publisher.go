// Package events fans ledger events out to the configured publishers.
package events

import (
	"context"
	"errors"

	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
)

// Multi publishes to every publisher and joins their errors.
type Multi []portssvc.EventPublisher

var _ portssvc.EventPublisher = (Multi)(nil)

// Publish implements portssvc.EventPublisher.
func (m Multi) Publish(ctx context.Context, event portssvc.LedgerEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop discards events.
type Noop struct{}

// Publish implements portssvc.EventPublisher.
func (Noop) Publish(context.Context, portssvc.LedgerEvent) error { return nil }
