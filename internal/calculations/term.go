package calculations

import (
	"fmt"

	"github.com/cloud-ru/mcp-living-annuity-go/pkg/utils"
)

// ConfigInterface определяет интерфейс для получения ограничений калькулятора
type ConfigInterface interface {
	MinBalance() float64
	DrawdownBand() (minPercent, maxPercent float64)
	MaxAnnuityTerm() int
}

// AnnuityTerm рассчитывает, сколько проживет фонд при ежегодном снятии
// annualDrawdown процентов от текущего баланса
func AnnuityTerm(cfg ConfigInterface, principal, annualRatePercent float64, compound int,
	annualDrawdown float64, convention RateConvention, startingPeriod int) (*TermResult, error) {

	if cfg == nil {
		return nil, fmt.Errorf("%w: не задана конфигурация", ErrPrecondition)
	}
	if !utils.IsFinite(annualDrawdown) {
		return nil, fmt.Errorf("%w: annual_drawdown_percent", ErrPrecondition)
	}

	params := CalculationParameters{
		Principal:             principal,
		AnnualInterestRate:    annualRatePercent,
		CompoundingFrequency:  compound,
		AnnualDrawdownPercent: annualDrawdown,
		HorizonYearsCap:       cfg.MaxAnnuityTerm(),
		MinimumBalance:        cfg.MinBalance(),
		Convention:            convention,
	}

	months, err := Simulate(params, DrawdownRule{AnnualPercent: annualDrawdown})
	if err != nil {
		return nil, err
	}

	totalWithdrawn, totalInterest := Totals(months)
	reachedCap := len(months) == HorizonMonths(params.HorizonYearsCap)
	termYears := float64(len(months)) / 12.0

	finalBalance := principal
	if len(months) > 0 {
		finalBalance = months[len(months)-1].EndBalance
	}

	termLabel := fmt.Sprintf("%.1f лет", termYears)
	if reachedCap {
		termLabel = fmt.Sprintf("%d+ лет", params.HorizonYearsCap)
	}

	summary := TermSummary{
		Principal:             utils.Round2(principal),
		AnnualRatePercent:     annualRatePercent,
		CompoundingFrequency:  compound,
		AnnualDrawdownPercent: annualDrawdown,
		MonthlyRate:           MonthlyRate(annualRatePercent, compound, convention),
		Months:                len(months),
		TermYears:             utils.Round2(termYears),
		ReachedCap:            reachedCap,
		TermLabel:             termLabel,
		InitialMonthlyIncome:  utils.Round2(MonthlyDrawdown(annualDrawdown, principal)),
		TotalWithdrawn:        utils.Round2(totalWithdrawn),
		TotalInterest:         utils.Round2(totalInterest),
		FinalBalance:          utils.Round2(finalBalance),
	}

	return &TermResult{
		Summary: summary,
		Annual:  AggregateAnnual(months, startingPeriod),
		Monthly: months,
	}, nil
}
