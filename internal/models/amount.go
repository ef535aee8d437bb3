package models

import "github.com/shopspring/decimal"

// Amount bounds. Ledger amounts are money, so anything past these is a
// typo or hostile input rather than a real value.
const (
	MaxAmountScale = 8
	maxAmountExp   = 15
)

// MaxAmount is the exclusive upper bound on the magnitude of an amount.
var MaxAmount = decimal.New(1, maxAmountExp)

// AmountInRange reports whether d has at most MaxAmountScale decimal places
// and a magnitude below MaxAmount. The exponent is checked before any
// comparison, so values like 1e1000000000 are rejected without being
// expanded.
func AmountInRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	exp := d.Exponent()
	if exp < -MaxAmountScale || exp > maxAmountExp {
		return false
	}
	return d.Abs().LessThan(MaxAmount)
}
