package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney форматирует сумму с разделителями тысяч: 1 234 567.89
func FormatMoney(amount float64) string {
	s := decimal.NewFromFloat(amount).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + frac
}
