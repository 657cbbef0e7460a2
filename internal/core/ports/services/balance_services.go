package services

import (
	"context"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/SscSPs/cims_finance/internal/dto"
)

// BalanceSvc exposes the balance projection.
type BalanceSvc interface {
	// GetBalances projects real and potential balances from the whole ledger.
	GetBalances(ctx context.Context) (*domain.Balances, error)

	// GetDashboard returns balances, the donation total and the current rate with display strings.
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

// DonationSvc reads and resets the donation accumulator.
type DonationSvc interface {
	GetDonationTotal(ctx context.Context) (*dto.DonationTotalResponse, error)

	// ResetDonationTotal zeroes the accumulator. It does not reconcile against entries.
	ResetDonationTotal(ctx context.Context, actor domain.Actor) error
}
