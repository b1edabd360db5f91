package settlement

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a property has no configured currency
const DefaultCurrency = money.SGD

// Truncate cuts an amount to the currency's minor unit without rounding.
// Only presentation code calls this; the engine keeps full precision.
func Truncate(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Truncate(int32(lookupCurrency(currency).Fraction))
}

// Display formats an amount for people, e.g. "$1,234.50" or "-$300.00"
func Display(amount decimal.Decimal, currency string) string {
	cur := lookupCurrency(currency)
	minor := amount.Shift(int32(cur.Fraction)).IntPart()
	return cur.Formatter().Format(minor)
}

// DisplayPercentage formats a share such as 33.3333 as "33.33%"
func DisplayPercentage(p decimal.Decimal) string {
	return p.Truncate(2).String() + "%"
}

func lookupCurrency(code string) *money.Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	if cur := money.GetCurrency(code); cur != nil {
		return cur
	}
	return money.GetCurrency(DefaultCurrency)
}
