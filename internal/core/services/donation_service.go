package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/cims_finance/internal/apperrors"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	portsrepo "github.com/SscSPs/cims_finance/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cims_finance/internal/core/ports/services"
	"github.com/SscSPs/cims_finance/internal/dto"
	"github.com/SscSPs/cims_finance/internal/utils"
)

// donationService reads and resets the donation accumulator.
type donationService struct {
	BaseService
	repo       portsrepo.DonationRepository
	resetRoles map[string]struct{}
}

// DonationServiceOption configures the donation service.
type DonationServiceOption func(*donationService)

// WithResetRoles restricts ResetDonationTotal to the given roles.
// With no roles configured any caller may reset.
func WithResetRoles(roles []string) DonationServiceOption {
	return func(s *donationService) {
		s.resetRoles = make(map[string]struct{}, len(roles))
		for _, r := range roles {
			if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
				s.resetRoles[r] = struct{}{}
			}
		}
	}
}

// WithDonationPublisher sets where reset events go.
func WithDonationPublisher(p portssvc.EventPublisher) DonationServiceOption {
	return func(s *donationService) { s.Publisher = p }
}

// WithDonationClock sets the clock used to timestamp events.
func WithDonationClock(c Clock) DonationServiceOption {
	return func(s *donationService) { s.Clock = c }
}

// NewDonationService creates a new DonationService.
func NewDonationService(repo portsrepo.DonationRepository, opts ...DonationServiceOption) portssvc.DonationSvc {
	s := &donationService{
		BaseService: BaseService{Clock: NewClock(nil)},
		repo:        repo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.DonationSvc = (*donationService)(nil)

func (s *donationService) GetDonationTotal(ctx context.Context) (*dto.DonationTotalResponse, error) {
	total, err := s.repo.GetDonationTotal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read donation total: %w", err)
	}
	return &dto.DonationTotalResponse{
		TotalDonation: total,
		Formatted:     utils.FormatMoney(total, domain.CurrencyUZS),
	}, nil
}

// ResetDonationTotal zeroes the accumulator without touching any entry, so the
// total stops matching the entries' donations until they are written again.
func (s *donationService) ResetDonationTotal(ctx context.Context, actor domain.Actor) error {
	if len(s.resetRoles) > 0 {
		if _, ok := s.resetRoles[strings.ToLower(actor.Role)]; !ok {
			s.GetLogger(ctx).Warn("Donation reset refused", slog.String("user_id", actor.UserID), slog.String("role", actor.Role))
			return fmt.Errorf("%w: role %q may not reset the donation total", apperrors.ErrForbidden, actor.Role)
		}
	}

	if err := s.repo.ResetDonationTotal(ctx); err != nil {
		s.LogError(ctx, err, "Failed to reset donation total")
		return fmt.Errorf("failed to reset donation total: %w", err)
	}

	s.LogInfo(ctx, "Donation total reset", slog.String("user_id", actor.UserID))
	s.publish(ctx, portssvc.LedgerEvent{Type: portssvc.EventDonationReset, ActorID: actor.UserID})
	return nil
}
