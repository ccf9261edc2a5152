// Package money formats GBP amounts for display. Engines keep raw
// numeric values; only the display layers go through these helpers.
package money

import (
	"fmt"
	"math"
	"strings"
)

// FormatGBP renders a whole-pound amount with thousands separators,
// e.g. 1250000 -> "£1,250,000".
func FormatGBP(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "£" + group(fmt.Sprintf("%d", amount))
}

// FormatGBP2 renders a fractional amount with two decimal places,
// e.g. 1234.5 -> "£1,234.50".
func FormatGBP2(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	whole := int(amount)
	pence := int(math.Round((amount - float64(whole)) * 100))
	if pence == 100 {
		whole++
		pence = 0
	}
	return sign + "£" + group(fmt.Sprintf("%d", whole)) + fmt.Sprintf(".%02d", pence)
}

func group(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
