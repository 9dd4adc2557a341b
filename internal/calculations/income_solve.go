package calculations

import (
	"fmt"
	"math"

	"github.com/cloud-ru/mcp-living-annuity-go/pkg/utils"
)

// incomeSolveIncrement начальный шаг подбора ежемесячного дохода
const incomeSolveIncrement = 100.0

// MonthlyIncomeSchedule подбирает стартовый ежемесячный доход, растущий на
// annualIncrease процентов в год, при котором к концу termYears баланс фонда
// опускается ровно до минимального.
func MonthlyIncomeSchedule(cfg ConfigInterface, principal, annualRatePercent float64, compound, termYears int,
	annualIncrease float64, convention RateConvention, startingPeriod int) (*IncomeResult, error) {

	if cfg == nil {
		return nil, fmt.Errorf("%w: не задана конфигурация", ErrPrecondition)
	}
	minBalance := cfg.MinBalance()
	if !(minBalance > 0) {
		return nil, fmt.Errorf("%w: минимальный баланс должен быть положительным", ErrPrecondition)
	}
	if !utils.IsFinite(annualIncrease) {
		return nil, fmt.Errorf("%w: annual_increase_percent", ErrPrecondition)
	}

	minDrawdown, maxDrawdown := cfg.DrawdownBand()
	params := CalculationParameters{
		Principal:            principal,
		AnnualInterestRate:   annualRatePercent,
		CompoundingFrequency: compound,
		HorizonYearsCap:      termYears,
		MinimumBalance:       minBalance,
		Convention:           convention,
	}
	ruleFor := func(income float64) EscalatingIncomeRule {
		return EscalatingIncomeRule{
			MonthlyIncome:         income,
			AnnualIncreasePercent: annualIncrease,
			MinDrawdownPercent:    minDrawdown,
			MaxDrawdownPercent:    maxDrawdown,
		}
	}

	// первый прогон поднимает ошибки предусловий до запуска подбора
	if _, err := FinalBalance(params, ruleFor(0)); err != nil {
		return nil, err
	}

	evaluations := 0
	objective := func(income float64) float64 {
		evaluations++
		finalBalance, err := FinalBalance(params, ruleFor(income))
		if err != nil {
			return math.NaN()
		}
		return finalBalance / minBalance
	}

	m := MonthlyRate(annualRatePercent, compound, convention)
	solution, err := SolveMoneyParameter(objective, incomeSolveIncrement, principal*m)
	if err != nil {
		return nil, err
	}
	income := solution.Value

	months, err := Simulate(params, ruleFor(income))
	if err != nil {
		return nil, err
	}

	totalWithdrawn, totalInterest := Totals(months)
	initialAnnualIncome := income * float64(min(12, len(months)))
	drawdown := initialAnnualIncome / math.Max(principal, initialAnnualIncome) * 100.0

	finalBalance := principal
	if len(months) > 0 {
		finalBalance = months[len(months)-1].EndBalance
	}

	summary := IncomeSummary{
		Principal:             utils.Round2(principal),
		AnnualRatePercent:     annualRatePercent,
		CompoundingFrequency:  compound,
		AnnuityTermYears:      termYears,
		AnnualIncreasePercent: annualIncrease,
		MonthlyRate:           m,
		MonthlyIncome:         income,
		InitialAnnualIncome:   utils.Round2(initialAnnualIncome),
		DrawdownPercent:       math.Round(drawdown*10) / 10,
		Months:                len(months),
		TotalWithdrawn:        utils.Round2(totalWithdrawn),
		TotalInterest:         utils.Round2(totalInterest),
		FinalBalance:          utils.Round2(finalBalance),
		SolverEvaluations:     evaluations,
		SolverTolerance:       solution.Tolerance,
		SolverRatio:           solution.Ratio,
		ToleranceWidened:      solution.Widened(),
	}

	return &IncomeResult{
		Summary: summary,
		Annual:  AggregateAnnual(months, startingPeriod),
		Monthly: months,
	}, nil
}
