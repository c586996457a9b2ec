package action

import (
	"fmt"
	"strings"
)

// formatAmount renders a monetary value with thousands separators and two
// decimal places, matching the result strings users see ("2,500.00 NGN").
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// money pairs an amount with the state's currency code for result strings.
func money(v float64, currency string) string {
	return formatAmount(v) + " " + currency
}
