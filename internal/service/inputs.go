package service

import (
	"fmt"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
)

// TermInput входные данные расчета срока аннуитета
type TermInput struct {
	Principal             *float64 `json:"principal" jsonschema:"размер пенсионного фонда"`
	AnnualRatePercent     *float64 `json:"annual_rate_percent" jsonschema:"годовая доходность в процентах (0-100)"`
	CompoundingFrequency  *int     `json:"compounding_frequency" jsonschema:"периодов капитализации в год: 12, 2, 4, 24, 26, 52 или 365"`
	AnnualDrawdownPercent *float64 `json:"annual_drawdown_percent" jsonschema:"годовой процент изъятия от баланса (2.5-17.5)"`
	RetirementAge         *int     `json:"retirement_age,omitempty" jsonschema:"возраст выхода на пенсию; нумерует годовые строки"`
	IncludeMonthly        bool     `json:"include_monthly,omitempty" jsonschema:"вернуть помесячный график"`
}

// IncomeInput входные данные подбора ежемесячного дохода
type IncomeInput struct {
	Principal             *float64 `json:"principal" jsonschema:"размер пенсионного фонда"`
	AnnualRatePercent     *float64 `json:"annual_rate_percent" jsonschema:"годовая доходность в процентах (0-100)"`
	CompoundingFrequency  *int     `json:"compounding_frequency" jsonschema:"периодов капитализации в год: 12, 2, 4, 24, 26, 52 или 365"`
	AnnuityTermYears      *int     `json:"annuity_term_years" jsonschema:"срок выплат в годах"`
	AnnualIncreasePercent *float64 `json:"annual_increase_percent" jsonschema:"ежегодная индексация дохода в процентах"`
	RetirementAge         *int     `json:"retirement_age,omitempty" jsonschema:"возраст выхода на пенсию; нумерует годовые строки"`
	IncludeMonthly        bool     `json:"include_monthly,omitempty" jsonschema:"вернуть помесячный график"`
}

func missingFields(fields map[string]bool) error {
	var missing []string
	for _, name := range fieldOrder {
		if present, ok := fields[name]; ok && !present {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.New(apperrors.CodePrecondition, fmt.Sprintf("не заданы обязательные поля: %v", missing))
}

var fieldOrder = []string{
	"principal",
	"annual_rate_percent",
	"compounding_frequency",
	"annual_drawdown_percent",
	"annuity_term_years",
	"annual_increase_percent",
}

func (in TermInput) precondition() error {
	return missingFields(map[string]bool{
		"principal":               in.Principal != nil,
		"annual_rate_percent":     in.AnnualRatePercent != nil,
		"compounding_frequency":   in.CompoundingFrequency != nil,
		"annual_drawdown_percent": in.AnnualDrawdownPercent != nil,
	})
}

func (in IncomeInput) precondition() error {
	return missingFields(map[string]bool{
		"principal":               in.Principal != nil,
		"annual_rate_percent":     in.AnnualRatePercent != nil,
		"compounding_frequency":   in.CompoundingFrequency != nil,
		"annuity_term_years":      in.AnnuityTermYears != nil,
		"annual_increase_percent": in.AnnualIncreasePercent != nil,
	})
}

func startingPeriod(age *int) int {
	if age == nil {
		return 1
	}
	return *age
}
