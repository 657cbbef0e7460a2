package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/SscSPs/cims_finance/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount as a display string in currency, e.g. "$1,234.50".
// Amounts are rounded half away from zero to the currency's minor unit.
// Unknown currencies fall back to the plain decimal with two places.
func FormatMoney(amount decimal.Decimal, currency domain.Currency) string {
	cur := money.GetCurrency(string(currency))
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
