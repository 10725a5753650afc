package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency formate un montant avec symbole, séparateur de milliers et 2 décimales (R18,499.99)
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + symbol + b.String() + "." + frac
}
