// Package report выгружает графики аннуитета в CSV и PDF.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/calculations"
)

// WriteMonthlyCSV пишет помесячный график
func WriteMonthlyCSV(out io.Writer, months []calculations.MonthlyRecord) error {
	w := csv.NewWriter(out)

	header := []string{
		"month",
		"start_balance",
		"interest_payment",
		"withdrawal",
		"end_balance",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, m := range months {
		row := []string{
			strconv.Itoa(i + 1),
			fmtMoney(m.StartBalance),
			fmtMoney(m.InterestPayment),
			fmtMoney(m.Withdrawal),
			fmtMoney(m.EndBalance),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteAnnualCSV пишет годовую свертку
func WriteAnnualCSV(out io.Writer, annual []calculations.AnnualRecord) error {
	w := csv.NewWriter(out)

	header := []string{
		"period",
		"months",
		"start_balance",
		"interest_payment",
		"withdrawal",
		"end_balance",
		"drawdown_percent",
		"total_interest_to_date",
		"total_withdrawn_to_date",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range annual {
		row := []string{
			strconv.Itoa(r.PeriodIndex),
			strconv.Itoa(r.Months),
			fmtMoney(r.StartBalance),
			fmtMoney(r.InterestPayment),
			fmtMoney(r.Withdrawal),
			fmtMoney(r.EndBalance),
			strconv.FormatFloat(r.DrawdownPercent, 'f', 2, 64),
			fmtMoney(r.TotalInterestToDate),
			fmtMoney(r.TotalWithdrawnToDate),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
