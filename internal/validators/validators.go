package validators

import (
	"errors"
	"fmt"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/calculations"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/config"
	"github.com/cloud-ru/mcp-living-annuity-go/pkg/utils"
)

// FieldError ошибка проверки конкретного поля
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func fieldError(name, format string, args ...any) error {
	return &FieldError{Field: name, Message: fmt.Sprintf(format, args...)}
}

// ValidatePositiveNumber проверяет, что число конечное и в допустимом диапазоне
func ValidatePositiveNumber(name string, value float64, minInclusive, maxInclusive float64) error {
	if !utils.IsFinite(value) {
		return fieldError(name, "значение не является конечным числом")
	}
	if value < minInclusive {
		return fieldError(name, "значение должно быть ≥ %g", minInclusive)
	}
	if value > maxInclusive {
		return fieldError(name, "значение слишком велико (>%g)", maxInclusive)
	}
	return nil
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(name string, value int, minInclusive, maxInclusive int) error {
	if value < minInclusive || value > maxInclusive {
		return fieldError(name, "значение должно быть в диапазоне [%d; %d]", minInclusive, maxInclusive)
	}
	return nil
}

// CheckPrincipal проверяет размер фонда: строго больше минимального баланса
func CheckPrincipal(cfg *config.Config, principal float64) error {
	if !utils.IsFinite(principal) {
		return fieldError("principal", "значение не является конечным числом")
	}
	if principal <= cfg.MinBalance() {
		return fieldError("principal", "сумма должна быть больше %.0f", cfg.MinBalance())
	}
	if principal > cfg.Limits.MaxPrincipal {
		return fieldError("principal", "значение слишком велико (>%g)", cfg.Limits.MaxPrincipal)
	}
	return nil
}

// CheckRate проверяет процентную ставку
func CheckRate(cfg *config.Config, rate float64) error {
	return ValidatePositiveNumber("annual_rate_percent", rate, 0.0, cfg.Limits.MaxRate)
}

// CheckCompounding проверяет частоту капитализации
func CheckCompounding(compound int) error {
	if !calculations.IsSupportedCompounding(compound) {
		return fieldError("compounding_frequency", "допустимые значения: %v", calculations.CompoundingFrequencies)
	}
	return nil
}

// CheckDrawdown проверяет годовой процент изъятия
func CheckDrawdown(cfg *config.Config, drawdown float64) error {
	lo, hi := cfg.DrawdownBand()
	if !utils.IsFinite(drawdown) || drawdown < lo || drawdown > hi {
		return fieldError("annual_drawdown_percent", "значение должно быть между %g%% и %g%%", lo, hi)
	}
	return nil
}

// CheckAnnuityTerm проверяет срок аннуитета в годах
func CheckAnnuityTerm(cfg *config.Config, years int) error {
	return ValidateIntRange("annuity_term_years", years, 1, cfg.MaxAnnuityTerm())
}

// CheckAnnualIncrease проверяет ежегодную индексацию дохода
func CheckAnnualIncrease(cfg *config.Config, increase float64) error {
	return ValidatePositiveNumber("annual_increase_percent", increase, 0.0, cfg.Limits.MaxAnnualIncrease)
}

// CheckRetirementAge проверяет возраст выхода на пенсию
func CheckRetirementAge(cfg *config.Config, age int) error {
	if age < cfg.Limits.MinRetirementAge {
		return fieldError("retirement_age", "возраст должен быть не меньше %d", cfg.Limits.MinRetirementAge)
	}
	return nil
}

// Collect прогоняет результаты проверок и собирает все нарушения в один список
func Collect(errs ...error) []apperrors.Violation {
	var violations []apperrors.Violation
	for _, err := range errs {
		if err == nil {
			continue
		}
		var fe *FieldError
		if errors.As(err, &fe) {
			violations = append(violations, apperrors.Violation{Field: fe.Field, Message: fe.Message})
			continue
		}
		violations = append(violations, apperrors.Violation{Message: err.Error()})
	}
	return violations
}

// TermInput значения для расчета срока аннуитета
type TermInput struct {
	Principal             float64
	AnnualRatePercent     float64
	CompoundingFrequency  int
	AnnualDrawdownPercent float64
	RetirementAge         *int
}

// IncomeInput значения для подбора ежемесячного дохода
type IncomeInput struct {
	Principal             float64
	AnnualRatePercent     float64
	CompoundingFrequency  int
	AnnuityTermYears      int
	AnnualIncreasePercent float64
	RetirementAge         *int
}

// ValidateTerm возвращает все нарушения для расчета срока
func ValidateTerm(cfg *config.Config, in TermInput) []apperrors.Violation {
	return Collect(
		CheckPrincipal(cfg, in.Principal),
		CheckRate(cfg, in.AnnualRatePercent),
		CheckCompounding(in.CompoundingFrequency),
		CheckDrawdown(cfg, in.AnnualDrawdownPercent),
		checkOptionalAge(cfg, in.RetirementAge),
	)
}

// ValidateIncome возвращает все нарушения для подбора дохода
func ValidateIncome(cfg *config.Config, in IncomeInput) []apperrors.Violation {
	return Collect(
		CheckPrincipal(cfg, in.Principal),
		CheckRate(cfg, in.AnnualRatePercent),
		CheckCompounding(in.CompoundingFrequency),
		CheckAnnuityTerm(cfg, in.AnnuityTermYears),
		CheckAnnualIncrease(cfg, in.AnnualIncreasePercent),
		checkOptionalAge(cfg, in.RetirementAge),
	)
}

func checkOptionalAge(cfg *config.Config, age *int) error {
	if age == nil {
		return nil
	}
	return CheckRetirementAge(cfg, *age)
}
