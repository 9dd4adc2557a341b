package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-living-annuity-go/pkg/utils"
)

// SafetyCeilingYears ограничивает горизонт симуляции независимо от входных данных
const SafetyCeilingYears = 1000

// Simulate прогоняет помесячную симуляцию снятия средств с начислением процентов.
// Симуляция завершается на горизонте или на годовщине, когда баланс опустился
// ниже MinimumBalance; оба исхода штатные.
func Simulate(params CalculationParameters, rule IncomeRule) ([]MonthlyRecord, error) {
	m, months, err := prepare(params, rule)
	if err != nil {
		return nil, err
	}

	results := make([]MonthlyRecord, 0, min(months, 12*50))
	balance := params.Principal
	monthlyIncome := rule.Initial(balance)

	for i := 0; i < months; i++ {
		if i%12 == 0 {
			if balance < params.MinimumBalance {
				break
			}
			if i > 0 {
				monthlyIncome = rule.Next(monthlyIncome, balance)
			}
		}

		startBalance := balance

		interestPayment := balance * m
		balance += interestPayment

		withdrawal := math.Min(balance, monthlyIncome)
		balance -= withdrawal

		results = append(results, MonthlyRecord{
			StartBalance:    startBalance,
			InterestPayment: interestPayment,
			Withdrawal:      withdrawal,
			EndBalance:      balance,
		})
	}

	return results, nil
}

// FinalBalance выполняет ту же рекурсию без записи помесячных строк и без
// досрочной остановки, возвращая баланс на конец горизонта. Используется как
// целевая функция при подборе параметров.
func FinalBalance(params CalculationParameters, rule IncomeRule) (float64, error) {
	m, months, err := prepare(params, rule)
	if err != nil {
		return 0, err
	}

	balance := params.Principal
	monthlyIncome := rule.Initial(balance)

	for i := 0; i < months; i++ {
		if i > 0 && i%12 == 0 {
			monthlyIncome = rule.Next(monthlyIncome, balance)
		}

		balance += balance * m
		balance -= math.Min(balance, monthlyIncome)
	}

	return balance, nil
}

// HorizonMonths возвращает число месяцев симуляции с учетом SafetyCeilingYears
func HorizonMonths(horizonYearsCap int) int {
	return min(horizonYearsCap, SafetyCeilingYears) * 12
}

func prepare(params CalculationParameters, rule IncomeRule) (float64, int, error) {
	if rule == nil {
		return 0, 0, fmt.Errorf("%w: не задано правило дохода", ErrPrecondition)
	}
	if !utils.IsFinite(params.Principal) {
		return 0, 0, fmt.Errorf("%w: principal", ErrPrecondition)
	}
	if !utils.IsFinite(params.AnnualInterestRate) {
		return 0, 0, fmt.Errorf("%w: annual_interest_rate", ErrPrecondition)
	}
	if !utils.IsFinite(params.MinimumBalance) {
		return 0, 0, fmt.Errorf("%w: minimum_balance", ErrPrecondition)
	}
	if params.CompoundingFrequency <= 0 {
		return 0, 0, fmt.Errorf("%w: compounding_frequency должна быть положительной", ErrPrecondition)
	}
	if params.HorizonYearsCap <= 0 {
		return 0, 0, fmt.Errorf("%w: horizon_years_cap должен быть положительным", ErrPrecondition)
	}

	m := MonthlyRate(params.AnnualInterestRate, params.CompoundingFrequency, params.Convention)
	return m, HorizonMonths(params.HorizonYearsCap), nil
}
