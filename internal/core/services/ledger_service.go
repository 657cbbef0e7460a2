package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/SscSPs/cims_finance/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopUpServiceLabel is the service label given to top-up entries.
const TopUpServiceLabel = "Top Up"

// TransferServiceLabel prefixes the service label of both transfer legs.
const TransferServiceLabel = "Transfer"

// ledgerService records ledger entries and keeps the donation accumulator in step with them.
type ledgerService struct {
	BaseService
	entryRepo portsrepo.LedgerEntryRepositoryFacade
	rates     portssvc.ExchangeRateReaderSvc
}

// LedgerServiceOption configures the ledger service.
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock sets the clock that decides "today".
func WithLedgerClock(c Clock) LedgerServiceOption {
	return func(s *ledgerService) { s.Clock = c }
}

// WithLedgerPublisher sets where committed changes are announced.
func WithLedgerPublisher(p portssvc.EventPublisher) LedgerServiceOption {
	return func(s *ledgerService) { s.Publisher = p }
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(entryRepo portsrepo.LedgerEntryRepositoryFacade, rates portssvc.ExchangeRateReaderSvc, opts ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		BaseService: BaseService{Clock: NewClock(nil)},
		entryRepo:   entryRepo,
		rates:       rates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// entryInput is a request after parsing, before any rate-dependent field is computed.
type entryInput struct {
	entryType          domain.EntryType
	recurrence         domain.Recurrence
	account            domain.Account
	currency           domain.Currency
	serviceLabel       string
	amount             decimal.Decimal
	donationPercentage decimal.Decimal
	taxPercentage      *decimal.Decimal
	status             domain.TransactionStatus
	eventDate          time.Time
}

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

// toStoredPlaces rounds d to the two places the ledger columns hold.
func toStoredPlaces(d decimal.Decimal) decimal.Decimal {
	return d.Round(accounting.MoneyPlaces)
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationErrorf("amount must be positive after rounding to %d places, got %s", accounting.MoneyPlaces, amount.String())
	}
	return nil
}

func validatePercent(field string, p decimal.Decimal) error {
	if err := accounting.ValidatePercentage(p); err != nil {
		return validationErrorf("%s: %v", field, err)
	}
	return nil
}

func parseEntryInput(req dto.LedgerEntryRequest) (entryInput, error) {
	if !req.EntryType.IsValid() {
		return entryInput{}, validationErrorf("unknown entry type %q", req.EntryType)
	}
	if !req.Recurrence.IsValid() {
		return entryInput{}, validationErrorf("unknown recurrence %q", req.Recurrence)
	}
	if !req.TransactionStatus.IsValid() {
		return entryInput{}, validationErrorf("unknown transaction status %q", req.TransactionStatus)
	}
	currency, err := req.Account.Currency()
	if err != nil {
		return entryInput{}, validationErrorf("%v", err)
	}
	amount := toStoredPlaces(req.Amount)
	if err := validateAmount(amount); err != nil {
		return entryInput{}, err
	}
	donationPct := toStoredPlaces(req.DonationPercentage)
	if err := validatePercent("donation percentage", donationPct); err != nil {
		return entryInput{}, err
	}
	var taxPct *decimal.Decimal
	if req.TaxPercentage != nil {
		rounded := toStoredPlaces(*req.TaxPercentage)
		if err := validatePercent("tax percentage", rounded); err != nil {
			return entryInput{}, err
		}
		taxPct = &rounded
	}
	eventDate, err := time.Parse(dto.DateLayout, req.EventDate)
	if err != nil {
		return entryInput{}, validationErrorf("event date %q is not YYYY-MM-DD", req.EventDate)
	}

	return entryInput{
		entryType:          req.EntryType,
		recurrence:         req.Recurrence,
		account:            req.Account,
		currency:           currency,
		serviceLabel:       strings.TrimSpace(req.ServiceLabel),
		amount:             amount,
		donationPercentage: donationPct,
		taxPercentage:      taxPct,
		status:             req.TransactionStatus,
		eventDate:          eventDate.UTC(),
	}, nil
}

// currentRate is the rate snapshot for a new write. It never calls the live provider.
func (s *ledgerService) currentRate(ctx context.Context) (decimal.Decimal, error) {
	rate, isFallback, err := s.rates.GetCurrentRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if isFallback {
		s.LogInfo(ctx, "Using fallback exchange rate for ledger write", slog.String("rate", rate.String()))
	}
	return rate, nil
}

// apply fills the computed fields of entry from in, using rate as the snapshot.
func (in entryInput) apply(entry *domain.LedgerEntry, rate decimal.Decimal) error {
	donation, err := accounting.DonationAmount(in.entryType, in.amount, in.donationPercentage, in.currency, rate)
	if err != nil {
		return validationErrorf("%v", err)
	}
	entry.EntryType = in.entryType
	entry.Recurrence = in.recurrence
	entry.Account = in.account
	entry.Currency = in.currency
	entry.ServiceLabel = in.serviceLabel
	entry.Amount = in.amount
	entry.DonationPercentage = in.donationPercentage
	entry.TaxPercentage = in.taxPercentage
	entry.TransactionStatus = in.status
	entry.EventDate = in.eventDate
	entry.ExchangeRateSnapshot = rate
	entry.DonationAmount = donation
	return nil
}

func (s *ledgerService) newEntry(in entryInput, rate decimal.Decimal, actor domain.Actor) (domain.LedgerEntry, error) {
	now := s.Clock.Instant()
	entry := domain.LedgerEntry{
		EntryID: uuid.NewString(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := in.apply(&entry, rate); err != nil {
		return domain.LedgerEntry{}, err
	}
	if in.recurrence == domain.Monthly {
		initial := in.eventDate
		entry.InitialDate = &initial
	}
	return entry, nil
}

func entryEvent(t portssvc.LedgerEventType, e domain.LedgerEntry, actor domain.Actor) portssvc.LedgerEvent {
	return portssvc.LedgerEvent{
		Type:     t,
		EntryIDs: []string{e.EntryID},
		Account:  string(e.Account),
		Amount:   e.Amount,
		Currency: string(e.Currency),
		Donation: e.DonationAmount,
		ActorID:  actor.UserID,
	}
}

// CreateEntry validates req, snapshots the current rate and stores the entry
// together with its donation in one repository call.
func (s *ledgerService) CreateEntry(ctx context.Context, req dto.LedgerEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	in, err := parseEntryInput(req)
	if err != nil {
		return nil, err
	}
	rate, err := s.currentRate(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := s.newEntry(in, rate, actor)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save ledger entry")
		return nil, fmt.Errorf("failed to create ledger entry: %w", err)
	}

	s.LogInfo(ctx, "Ledger entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("account", string(entry.Account)),
		slog.String("amount", entry.Amount.String()),
		slog.String("donation", entry.DonationAmount.String()))
	s.publish(ctx, entryEvent(portssvc.EventEntryCreated, entry, actor))
	return &entry, nil
}

// GetEntry retrieves a ledger entry by ID.
func (s *ledgerService) GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry %s: %w", entryID, err)
	}
	return entry, nil
}

// UpdateEntry replaces every caller-supplied field of an entry and recomputes
// its donation and rate snapshot. The accumulator moves by new-old in the same
// unit of work. initial_date survives updates and is only filled in when a
// monthly entry does not have one yet.
func (s *ledgerService) UpdateEntry(ctx context.Context, entryID string, req dto.LedgerEntryRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	in, err := parseEntryInput(req)
	if err != nil {
		return nil, err
	}
	rate, err := s.currentRate(ctx)
	if err != nil {
		return nil, err
	}

	var previousDonation decimal.Decimal
	updated, err := s.entryRepo.UpdateEntry(ctx, entryID, func(existing domain.LedgerEntry) (domain.LedgerEntry, error) {
		previousDonation = existing.DonationAmount
		next := existing
		if err := in.apply(&next, rate); err != nil {
			return domain.LedgerEntry{}, err
		}
		if next.Recurrence == domain.Monthly && next.InitialDate == nil {
			initial := in.eventDate
			next.InitialDate = &initial
		}
		next.LastUpdatedAt = s.Clock.Instant()
		next.LastUpdatedBy = actor.UserID
		return next, nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to update ledger entry", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to update ledger entry %s: %w", entryID, err)
	}

	s.LogInfo(ctx, "Ledger entry updated",
		slog.String("entry_id", entryID),
		slog.String("previous_donation", previousDonation.String()),
		slog.String("donation", updated.DonationAmount.String()))
	s.publish(ctx, entryEvent(portssvc.EventEntryUpdated, *updated, actor))
	return updated, nil
}

// DeleteEntry removes an entry and subtracts its donation in one unit of work.
func (s *ledgerService) DeleteEntry(ctx context.Context, entryID string, actor domain.Actor) error {
	deleted, err := s.entryRepo.DeleteEntry(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete ledger entry", slog.String("entry_id", entryID))
		}
		return fmt.Errorf("failed to delete ledger entry %s: %w", entryID, err)
	}

	s.LogInfo(ctx, "Ledger entry deleted",
		slog.String("entry_id", entryID),
		slog.String("donation", deleted.DonationAmount.String()))
	s.publish(ctx, entryEvent(portssvc.EventEntryDeleted, *deleted, actor))
	return nil
}

// TopUp records a one-time income on an account, dated today.
func (s *ledgerService) TopUp(ctx context.Context, req dto.TopUpRequest, actor domain.Actor) (*domain.LedgerEntry, error) {
	zeroTax := decimal.Zero
	return s.CreateEntry(ctx, dto.LedgerEntryRequest{
		EntryType:          domain.Income,
		Recurrence:         domain.OneTime,
		Account:            req.Account,
		ServiceLabel:       TopUpServiceLabel,
		Amount:             req.Amount,
		DonationPercentage: req.DonationPercentage,
		TaxPercentage:      &zeroTax,
		TransactionStatus:  req.TransactionStatus,
		EventDate:          s.Clock.Today().Format(dto.DateLayout),
	}, actor)
}

// Transfer writes an OUTCOME for the full amount on the source account and an
// INCOME for the taxed, converted amount on the destination, atomically.
func (s *ledgerService) Transfer(ctx context.Context, req dto.TransferRequest, actor domain.Actor) (*domain.TransferResult, error) {
	if req.FromAccount == req.ToAccount {
		return nil, validationErrorf("cannot transfer from %s to itself", req.FromAccount)
	}
	fromCurrency, err := req.FromAccount.Currency()
	if err != nil {
		return nil, validationErrorf("from account: %v", err)
	}
	toCurrency, err := req.ToAccount.Currency()
	if err != nil {
		return nil, validationErrorf("to account: %v", err)
	}
	amount := toStoredPlaces(req.Amount)
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	taxPct := decimal.Zero
	if req.TaxPercentage != nil {
		taxPct = toStoredPlaces(*req.TaxPercentage)
	}
	if err := validatePercent("tax percentage", taxPct); err != nil {
		return nil, err
	}

	rate, err := s.currentRate(ctx)
	if err != nil {
		return nil, err
	}
	tax, net := accounting.TransferTax(amount, taxPct)
	converted, err := accounting.ConvertForTransfer(net, fromCurrency, toCurrency, rate)
	if err != nil {
		return nil, validationErrorf("%v", err)
	}
	if !converted.IsPositive() {
		return nil, validationErrorf("transferred amount rounds to %s after tax and conversion", converted.String())
	}

	now := s.Clock.Instant()
	today := s.Clock.Today()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: actor.UserID, LastUpdatedAt: now, LastUpdatedBy: actor.UserID}
	leg := func(t domain.EntryType, account domain.Account, currency domain.Currency, amount decimal.Decimal, label string) domain.LedgerEntry {
		tp := taxPct
		return domain.LedgerEntry{
			EntryID:              uuid.NewString(),
			EntryType:            t,
			Recurrence:           domain.OneTime,
			Account:              account,
			ServiceLabel:         label,
			Amount:               amount,
			Currency:             currency,
			DonationAmount:       decimal.Zero,
			DonationPercentage:   decimal.Zero,
			TaxPercentage:        &tp,
			ExchangeRateSnapshot: rate,
			TransactionStatus:    domain.StatusReal,
			EventDate:            today,
			AuditFields:          audit,
		}
	}
	debit := leg(domain.Outcome, req.FromAccount, fromCurrency, amount,
		fmt.Sprintf("%s to %s", TransferServiceLabel, req.ToAccount.DisplayName()))
	credit := leg(domain.Income, req.ToAccount, toCurrency, converted,
		fmt.Sprintf("%s from %s", TransferServiceLabel, req.FromAccount.DisplayName()))

	if err := s.entryRepo.SaveTransfer(ctx, debit, credit); err != nil {
		s.LogError(ctx, err, "Failed to save transfer")
		return nil, fmt.Errorf("failed to record transfer: %w", err)
	}

	s.LogInfo(ctx, "Transfer recorded",
		slog.String("from_entry_id", debit.EntryID),
		slog.String("to_entry_id", credit.EntryID),
		slog.String("amount", amount.String()),
		slog.String("converted", converted.String()))
	s.publish(ctx, portssvc.LedgerEvent{
		Type:      portssvc.EventTransfer,
		EntryIDs:  []string{debit.EntryID, credit.EntryID},
		Account:   string(req.FromAccount),
		ToAccount: string(req.ToAccount),
		Amount:    amount,
		Currency:  string(fromCurrency),
		ActorID:   actor.UserID,
	})

	return &domain.TransferResult{
		FromEntry:       debit,
		ToEntry:         credit,
		TaxAmount:       tax,
		ConvertedAmount: converted,
	}, nil
}

// ListEntries returns a filtered page of entries, newest event date first.
func (s *ledgerService) ListEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	filter, err := entryFilterFromParams(params)
	if err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

func parseOptionalDate(field string, v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, *v)
	if err != nil {
		return nil, validationErrorf("%s %q is not YYYY-MM-DD", field, *v)
	}
	return &t, nil
}

func entryFilterFromParams(p dto.ListLedgerEntriesParams) (domain.LedgerEntryFilter, error) {
	f := domain.LedgerEntryFilter{ServiceSearch: strings.TrimSpace(p.Search)}
	if p.EntryType != nil {
		t := domain.EntryType(*p.EntryType)
		if !t.IsValid() {
			return f, validationErrorf("unknown entry type %q", *p.EntryType)
		}
		f.EntryType = &t
	}
	if p.Recurrence != nil {
		r := domain.Recurrence(*p.Recurrence)
		if !r.IsValid() {
			return f, validationErrorf("unknown recurrence %q", *p.Recurrence)
		}
		f.Recurrence = &r
	}
	if p.Account != nil {
		a := domain.Account(*p.Account)
		if !a.IsValid() {
			return f, validationErrorf("unknown account %q", *p.Account)
		}
		f.Account = &a
	}
	if p.Currency != nil {
		c := domain.Currency(*p.Currency)
		if !c.IsValid() {
			return f, validationErrorf("unknown currency %q", *p.Currency)
		}
		f.Currency = &c
	}
	if p.TransactionStatus != nil {
		st := domain.TransactionStatus(*p.TransactionStatus)
		if !st.IsValid() {
			return f, validationErrorf("unknown transaction status %q", *p.TransactionStatus)
		}
		f.TransactionStatus = &st
	}
	var err error
	if f.DateFrom, err = parseOptionalDate("dateFrom", p.DateFrom); err != nil {
		return f, err
	}
	if f.DateTo, err = parseOptionalDate("dateTo", p.DateTo); err != nil {
		return f, err
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return f, validationErrorf("dateFrom is after dateTo")
	}
	return f, nil
}
