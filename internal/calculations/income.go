package calculations

import "math"

// IncomeRule определяет, сколько снимать в месяц и как пересчитывать сумму на годовщину
type IncomeRule interface {
	// Initial возвращает ежемесячный доход первого года
	Initial(principal float64) float64
	// Next возвращает доход следующего года по текущему доходу и балансу на годовщину
	Next(current, balance float64) float64
}

// DrawdownRule снимает фиксированный процент от баланса, пересчитывая сумму раз в год
type DrawdownRule struct {
	AnnualPercent float64
}

// Initial реализует IncomeRule
func (r DrawdownRule) Initial(principal float64) float64 {
	return MonthlyDrawdown(r.AnnualPercent, principal)
}

// Next реализует IncomeRule
func (r DrawdownRule) Next(_, balance float64) float64 {
	return MonthlyDrawdown(r.AnnualPercent, balance)
}

// EscalatingIncomeRule выплачивает заданный доход, увеличивая его раз в год и удерживая
// в коридоре [MinDrawdownPercent, MaxDrawdownPercent] от текущего баланса.
type EscalatingIncomeRule struct {
	MonthlyIncome         float64
	AnnualIncreasePercent float64
	MinDrawdownPercent    float64
	MaxDrawdownPercent    float64
}

// Initial реализует IncomeRule
func (r EscalatingIncomeRule) Initial(principal float64) float64 {
	return r.capped(r.MonthlyIncome, principal)
}

// Next реализует IncomeRule
func (r EscalatingIncomeRule) Next(current, balance float64) float64 {
	return r.capped(current*(1.0+r.AnnualIncreasePercent/100.0), balance)
}

func (r EscalatingIncomeRule) capped(monthlyIncome, balance float64) float64 {
	dd := balance / 12.0 / 100.0
	return math.Max(math.Min(monthlyIncome, r.MaxDrawdownPercent*dd), r.MinDrawdownPercent*dd)
}

// MonthlyDrawdown возвращает ежемесячную выплату при годовом проценте изъятия
func MonthlyDrawdown(annualPercent, balance float64) float64 {
	return balance * annualPercent / 100.0 / 12.0
}
