package calculations

import (
	"fmt"
	"math"
)

// RateConvention задает способ пересчета номинальной ставки в месячную
type RateConvention string

const (
	// ConventionPeriodic: ставка делится на число периодов, затем
	// периодический рост приводится к месяцу.
	ConventionPeriodic RateConvention = "periodic"
	// ConventionEffectiveAnnual: ставка трактуется как эффективная годовая,
	// сначала выводится периодическая ставка, затем месячная.
	ConventionEffectiveAnnual RateConvention = "effective_annual"
)

// CompoundingFrequencies перечисляет частоты капитализации в порядке выбора в калькуляторе
var CompoundingFrequencies = []int{12, 2, 4, 24, 26, 52, 365}

// ParseRateConvention разбирает название конвенции, пустая строка означает periodic
func ParseRateConvention(value string) (RateConvention, error) {
	switch RateConvention(value) {
	case "", ConventionPeriodic:
		return ConventionPeriodic, nil
	case ConventionEffectiveAnnual:
		return ConventionEffectiveAnnual, nil
	default:
		return "", fmt.Errorf("неизвестная конвенция ставки %q", value)
	}
}

// CompoundFromIndex возвращает частоту капитализации по индексу из списка калькулятора
func CompoundFromIndex(index int) (int, error) {
	if index < 0 || index >= len(CompoundingFrequencies) {
		return 0, fmt.Errorf("%w: неизвестный индекс капитализации %d", ErrPrecondition, index)
	}
	return CompoundingFrequencies[index], nil
}

// IsSupportedCompounding проверяет, что частота есть в списке калькулятора
func IsSupportedCompounding(compound int) bool {
	for _, c := range CompoundingFrequencies {
		if c == compound {
			return true
		}
	}
	return false
}

// MonthlyRate пересчитывает номинальную годовую ставку (в процентах) и частоту
// капитализации в эффективную месячную ставку.
func MonthlyRate(annualRatePercent float64, compound int, convention RateConvention) float64 {
	c := float64(compound)
	cc := c / 12.0

	var periodic float64
	switch convention {
	case ConventionEffectiveAnnual:
		periodic = math.Pow(1.0+annualRatePercent/100.0, 1.0/c) - 1.0
	default:
		periodic = annualRatePercent / 100.0 / c
	}

	return math.Pow(1.0+periodic, cc) - 1.0
}
