// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MNT is the only currency the wallet operates in.
const MNT = "MNT"

// Format renders d with two decimal places and comma thousands separators,
// e.g. 400000000 -> "400,000,000.00".
func Format(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	sb.WriteString(sign)

	lead := len(whole) % 3
	if lead > 0 {
		sb.WriteString(whole[:lead])
		if len(whole) > lead {
			sb.WriteByte(',')
		}
	}

	for i := lead; i < len(whole); i += 3 {
		sb.WriteString(whole[i : i+3])
		if i+3 < len(whole) {
			sb.WriteByte(',')
		}
	}

	sb.WriteByte('.')
	sb.WriteString(frac)

	return sb.String()
}

// WithSymbol renders d as a display amount with the currency code attached.
func WithSymbol(d decimal.Decimal) string {
	return Format(d) + " " + MNT
}
