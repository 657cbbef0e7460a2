package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultProjectionWindowDays is the look-ahead used when none is configured.
const DefaultProjectionWindowDays = 30

type projection struct {
	balances         map[domain.Account]decimal.Decimal
	potentialIncome  decimal.Decimal
	potentialOutcome decimal.Decimal
}

// post adds a net contribution to the real balance of its account.
// ACCOUNT_3 accumulates in USD, the others in UZS.
func (p *projection) post(account domain.Account, net, netLocal decimal.Decimal) error {
	switch account {
	case domain.Account1, domain.Account2:
		p.balances[account] = p.balances[account].Add(netLocal)
	case domain.Account3:
		p.balances[account] = p.balances[account].Add(net)
	default:
		return fmt.Errorf("unknown account %q", string(account))
	}
	return nil
}

func (p *projection) forecast(entryType domain.EntryType, netLocal decimal.Decimal) error {
	switch entryType {
	case domain.Income:
		p.potentialIncome = p.potentialIncome.Add(netLocal)
	case domain.Outcome:
		p.potentialOutcome = p.potentialOutcome.Add(netLocal.Abs())
	default:
		return fmt.Errorf("unknown entry type %q", string(entryType))
	}
	return nil
}

// ProjectBalances recomputes real and potential balances from the full ledger.
//
// today must be a calendar date as produced by TruncateToDate. Cross-account
// figures use currentRate, while each USD entry's donation is restated with
// the entry's own snapshot rate. Monthly entries are simulated from their
// initial date: an occurrence due today posts to the real balance when the
// entry is REAL, and every occurrence within [today, today+windowDays] counts
// toward the potential figures regardless of status.
func ProjectBalances(entries []domain.LedgerEntry, currentRate decimal.Decimal, today time.Time, windowDays int) (domain.Balances, error) {
	if windowDays < 0 {
		return domain.Balances{}, fmt.Errorf("projection window must not be negative, got %d", windowDays)
	}
	if !currentRate.IsPositive() {
		return domain.Balances{}, fmt.Errorf("current exchange rate must be positive, got %s", currentRate.String())
	}
	horizon := today.AddDate(0, 0, windowDays)

	p := &projection{balances: map[domain.Account]decimal.Decimal{
		domain.Account1: decimal.Zero,
		domain.Account2: decimal.Zero,
		domain.Account3: decimal.Zero,
	}}

	for _, e := range entries {
		net, err := NetContribution(e)
		if err != nil {
			return domain.Balances{}, err
		}
		netLocal, err := ToLocal(net, e.Currency, currentRate)
		if err != nil {
			return domain.Balances{}, fmt.Errorf("entry %s: %w", e.EntryID, err)
		}

		switch e.TransactionStatus {
		case domain.StatusReal:
			if err := p.post(e.Account, net, netLocal); err != nil {
				return domain.Balances{}, fmt.Errorf("entry %s: %w", e.EntryID, err)
			}
		case domain.StatusStatistical:
			if e.EventDate.After(today) && !e.EventDate.After(horizon) {
				if err := p.forecast(e.EntryType, netLocal); err != nil {
					return domain.Balances{}, fmt.Errorf("entry %s: %w", e.EntryID, err)
				}
			}
		default:
			return domain.Balances{}, fmt.Errorf("entry %s: unknown transaction status %q", e.EntryID, string(e.TransactionStatus))
		}

		switch e.Recurrence {
		case domain.OneTime:
			continue
		case domain.Monthly:
		default:
			return domain.Balances{}, fmt.Errorf("entry %s: unknown recurrence %q", e.EntryID, string(e.Recurrence))
		}
		if e.InitialDate == nil {
			continue
		}
		for _, occ := range MonthlyOccurrences(*e.InitialDate, today, horizon) {
			if occ.Equal(today) && e.TransactionStatus == domain.StatusReal {
				if err := p.post(e.Account, net, netLocal); err != nil {
					return domain.Balances{}, fmt.Errorf("entry %s: %w", e.EntryID, err)
				}
			}
			if err := p.forecast(e.EntryType, netLocal); err != nil {
				return domain.Balances{}, fmt.Errorf("entry %s: %w", e.EntryID, err)
			}
		}
	}

	b := domain.Balances{
		Account1:         p.balances[domain.Account1],
		Account2:         p.balances[domain.Account2],
		Account3:         p.balances[domain.Account3],
		PotentialIncome:  p.potentialIncome,
		PotentialOutcome: p.potentialOutcome,
	}
	b.Total = b.Account1.Add(b.Account2).Add(b.Account3.Mul(currentRate))
	b.Potential = b.Total.Add(b.PotentialIncome).Sub(b.PotentialOutcome)
	return b, nil
}
