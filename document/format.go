package document

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with thousands grouping and two decimals,
// prefixed by the currency code when one is given: "SAR 1,234.50".
func FormatMoney(d decimal.Decimal, currency string) string {
	s := FormatAmount(d)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// FormatAmount is FormatMoney without the currency code.
func FormatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return fmt.Sprintf("%s%s.%02d", sign, humanize.Comma(whole.IntPart()), cents)
}

// FormatQuantity drops trailing zeros: 2 → "2", 2.50 → "2.5".
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}

// FormatDimension always shows two decimals: 1.5 → "1.50".
func FormatDimension(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPercent renders a rate such as 15 as "15%".
func FormatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}
