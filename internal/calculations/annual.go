package calculations

// AggregateAnnual сворачивает помесячные строки в годовые окна по 12 месяцев.
// Последнее окно может быть короче. Накопительные итоги не сбрасываются между годами.
func AggregateAnnual(months []MonthlyRecord, startingPeriod int) []AnnualRecord {
	annual := make([]AnnualRecord, 0, (len(months)+11)/12)

	totalInterest := 0.0
	totalWithdrawn := 0.0

	var current AnnualRecord
	count := 0

	for i, item := range months {
		totalInterest += item.InterestPayment
		totalWithdrawn += item.Withdrawal

		if count == 0 {
			current = AnnualRecord{
				PeriodIndex:  startingPeriod + len(annual),
				StartBalance: item.StartBalance,
			}
		}
		current.InterestPayment += item.InterestPayment
		current.Withdrawal += item.Withdrawal
		count++

		if (i+1)%12 == 0 || i+1 == len(months) {
			current.EndBalance = item.EndBalance
			current.TotalInterestToDate = totalInterest
			current.TotalWithdrawnToDate = totalWithdrawn
			current.Months = count
			if current.StartBalance > 0 {
				current.DrawdownPercent = current.Withdrawal / current.StartBalance * 100.0
			}
			annual = append(annual, current)
			count = 0
		}
	}

	return annual
}

// Totals возвращает суммы снятий и процентов по всем месяцам
func Totals(months []MonthlyRecord) (withdrawn, interest float64) {
	for _, item := range months {
		withdrawn += item.Withdrawal
		interest += item.InterestPayment
	}
	return withdrawn, interest
}
