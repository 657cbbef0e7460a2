package services

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/middleware"
	"github.com/SscSPs/cims_finance/internal/utils/accounting"
)

// Clock tells services what time it is and which calendar day that is for the business.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a wall clock reading dates in loc. A nil loc means UTC.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// Instant returns the current time in UTC.
func (c Clock) Instant() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

// Today returns the current business date as UTC midnight.
func (c Clock) Today() time.Time {
	return accounting.TruncateToDate(c.Instant(), c.Location)
}

// BaseService provides common functionality for all services
type BaseService struct {
	Clock     Clock
	Publisher portssvc.EventPublisher
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// publish hands a committed change to the publisher. Failures are logged only;
// the ledger write has already been committed.
func (s *BaseService) publish(ctx context.Context, event portssvc.LedgerEvent) {
	if s.Publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.Clock.Instant()
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event", slog.String("event_type", string(event.Type)))
	}
}
