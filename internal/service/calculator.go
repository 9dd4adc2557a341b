// Package service выполняет расчеты живого аннуитета: проверка входа,
// вызов движка, кэш, метрики, трейсинг и логирование.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/cache"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/calculations"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/config"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/logging"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/metrics"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/validators"
)

const (
	// TermCalculation имя расчета срока аннуитета
	TermCalculation = "living_annuity_term"
	// IncomeCalculation имя подбора ежемесячного дохода
	IncomeCalculation = "living_annuity_income"
)

// Calculator выполняет расчеты. Общего изменяемого состояния между
// запросами нет, кроме кэша.
type Calculator struct {
	cfg    *config.Config
	logger *zap.Logger
	tracer trace.Tracer
	cache  cache.Repository
}

// NewCalculator создает калькулятор; logger, tracer и repo могут быть nil
func NewCalculator(cfg *config.Config, logger *zap.Logger, tracer trace.Tracer, repo cache.Repository) *Calculator {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Calculator{
		cfg:    cfg,
		logger: logging.OrNop(logger),
		tracer: tracer,
		cache:  repo,
	}
}

// Config возвращает конфигурацию калькулятора
func (c *Calculator) Config() *config.Config {
	return c.cfg
}

// AnnuityTerm рассчитывает, на сколько лет хватит фонда
func (c *Calculator) AnnuityTerm(ctx context.Context, in TermInput) (*calculations.TermResult, error) {
	ctx, span := c.tracer.Start(ctx, TermCalculation)
	defer span.End()

	if err := in.precondition(); err != nil {
		return nil, c.fail(span, TermCalculation, err)
	}

	span.SetAttributes(
		attribute.Float64("principal", *in.Principal),
		attribute.Float64("annual_rate_percent", *in.AnnualRatePercent),
		attribute.Int("compounding_frequency", *in.CompoundingFrequency),
		attribute.Float64("annual_drawdown_percent", *in.AnnualDrawdownPercent),
	)

	violations := validators.ValidateTerm(c.cfg, validators.TermInput{
		Principal:             *in.Principal,
		AnnualRatePercent:     *in.AnnualRatePercent,
		CompoundingFrequency:  *in.CompoundingFrequency,
		AnnualDrawdownPercent: *in.AnnualDrawdownPercent,
		RetirementAge:         in.RetirementAge,
	})
	if len(violations) > 0 {
		return nil, c.fail(span, TermCalculation, apperrors.Invalid(violations))
	}

	key := c.cacheKey(TermCalculation, in)
	var result calculations.TermResult
	if c.lookup(ctx, key, &result) {
		span.SetAttributes(
			attribute.Bool("cache_hit", true),
			attribute.Int("months", result.Summary.Months),
		)
		c.logger.Info("расчет срока аннуитета выдан из кэша",
			zap.Float64("principal", *in.Principal),
			zap.Float64("annual_drawdown_percent", *in.AnnualDrawdownPercent),
			zap.Int("months", result.Summary.Months),
			zap.Bool("reached_cap", result.Summary.ReachedCap),
			zap.Bool("cache_hit", true),
		)
		return &result, nil
	}

	computed, err := calculations.AnnuityTerm(c.cfg,
		*in.Principal,
		*in.AnnualRatePercent,
		*in.CompoundingFrequency,
		*in.AnnualDrawdownPercent,
		c.cfg.Convention(),
		startingPeriod(in.RetirementAge),
	)
	if err != nil {
		return nil, c.fail(span, TermCalculation, engineError(err))
	}
	if !in.IncludeMonthly {
		computed.Monthly = nil
	}

	metrics.SimulatedMonths.WithLabelValues(TermCalculation).Observe(float64(computed.Summary.Months))
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("months", computed.Summary.Months),
		attribute.Bool("reached_cap", computed.Summary.ReachedCap),
	)
	c.logger.Info("расчет срока аннуитета выполнен",
		zap.Float64("principal", *in.Principal),
		zap.Float64("annual_drawdown_percent", *in.AnnualDrawdownPercent),
		zap.Int("months", computed.Summary.Months),
		zap.Bool("reached_cap", computed.Summary.ReachedCap),
	)

	c.store(ctx, key, computed)
	return computed, nil
}

// MonthlyIncome подбирает стартовый ежемесячный доход на заданный срок
func (c *Calculator) MonthlyIncome(ctx context.Context, in IncomeInput) (*calculations.IncomeResult, error) {
	ctx, span := c.tracer.Start(ctx, IncomeCalculation)
	defer span.End()

	if err := in.precondition(); err != nil {
		return nil, c.fail(span, IncomeCalculation, err)
	}

	span.SetAttributes(
		attribute.Float64("principal", *in.Principal),
		attribute.Float64("annual_rate_percent", *in.AnnualRatePercent),
		attribute.Int("compounding_frequency", *in.CompoundingFrequency),
		attribute.Int("annuity_term_years", *in.AnnuityTermYears),
		attribute.Float64("annual_increase_percent", *in.AnnualIncreasePercent),
	)

	violations := validators.ValidateIncome(c.cfg, validators.IncomeInput{
		Principal:             *in.Principal,
		AnnualRatePercent:     *in.AnnualRatePercent,
		CompoundingFrequency:  *in.CompoundingFrequency,
		AnnuityTermYears:      *in.AnnuityTermYears,
		AnnualIncreasePercent: *in.AnnualIncreasePercent,
		RetirementAge:         in.RetirementAge,
	})
	if len(violations) > 0 {
		return nil, c.fail(span, IncomeCalculation, apperrors.Invalid(violations))
	}

	key := c.cacheKey(IncomeCalculation, in)
	var result calculations.IncomeResult
	if c.lookup(ctx, key, &result) {
		span.SetAttributes(
			attribute.Bool("cache_hit", true),
			attribute.Float64("monthly_income", result.Summary.MonthlyIncome),
		)
		c.logger.Info("подбор ежемесячного дохода выдан из кэша",
			zap.Float64("principal", *in.Principal),
			zap.Int("annuity_term_years", *in.AnnuityTermYears),
			zap.Float64("monthly_income", result.Summary.MonthlyIncome),
			zap.Bool("cache_hit", true),
		)
		return &result, nil
	}

	computed, err := calculations.MonthlyIncomeSchedule(c.cfg,
		*in.Principal,
		*in.AnnualRatePercent,
		*in.CompoundingFrequency,
		*in.AnnuityTermYears,
		*in.AnnualIncreasePercent,
		c.cfg.Convention(),
		startingPeriod(in.RetirementAge),
	)
	if err != nil {
		return nil, c.fail(span, IncomeCalculation, engineError(err))
	}
	if !in.IncludeMonthly {
		computed.Monthly = nil
	}

	metrics.SimulatedMonths.WithLabelValues(IncomeCalculation).Observe(float64(computed.Summary.Months))
	metrics.SolverEvaluations.Observe(float64(computed.Summary.SolverEvaluations))
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Float64("monthly_income", computed.Summary.MonthlyIncome),
		attribute.Int("solver_evaluations", computed.Summary.SolverEvaluations),
		attribute.Float64("solver_tolerance", computed.Summary.SolverTolerance),
	)
	if computed.Summary.ToleranceWidened {
		c.logger.Warn("доход подобран с расширенным допуском",
			zap.Float64("principal", *in.Principal),
			zap.Int("annuity_term_years", *in.AnnuityTermYears),
			zap.Float64("solver_tolerance", computed.Summary.SolverTolerance),
			zap.Float64("solver_ratio", computed.Summary.SolverRatio),
		)
	}
	c.logger.Info("подбор ежемесячного дохода выполнен",
		zap.Float64("principal", *in.Principal),
		zap.Int("annuity_term_years", *in.AnnuityTermYears),
		zap.Float64("monthly_income", computed.Summary.MonthlyIncome),
		zap.Int("solver_evaluations", computed.Summary.SolverEvaluations),
	)

	c.store(ctx, key, computed)
	return computed, nil
}

func engineError(err error) error {
	switch {
	case errors.Is(err, calculations.ErrConvergence):
		return apperrors.Wrap(apperrors.CodeCalculation, err.Error(), err)
	case errors.Is(err, calculations.ErrPrecondition):
		return apperrors.Wrap(apperrors.CodePrecondition, err.Error(), err)
	default:
		return apperrors.Wrap(apperrors.CodeInternal, err.Error(), err)
	}
}

func (c *Calculator) fail(span trace.Span, name string, err error) error {
	code := apperrors.CodeOf(err)
	errorType := strings.ToLower(strings.TrimSuffix(string(code), "_FAILED"))

	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))
	span.SetAttributes(attribute.String("error", errorType))
	metrics.CalculationErrors.WithLabelValues(name, errorType).Inc()

	if code == apperrors.CodeInternal || code == apperrors.CodePrecondition {
		c.logger.Error("ошибка расчета", zap.String("calculation", name), zap.Error(err))
	} else {
		c.logger.Warn("расчет отклонен", zap.String("calculation", name), zap.Error(err))
	}
	return err
}

type cacheInput struct {
	Input      any                         `json:"input"`
	Limits     config.Limits               `json:"limits"`
	Convention calculations.RateConvention `json:"convention"`
}

func (c *Calculator) cacheKey(kind string, in any) string {
	if c.cache == nil {
		return ""
	}
	key, err := cache.Key(kind, cacheInput{Input: in, Limits: c.cfg.Limits, Convention: c.cfg.Convention()})
	if err != nil {
		c.logger.Warn("не удалось построить ключ кэша", zap.Error(err))
		return ""
	}
	return key
}

func (c *Calculator) lookup(ctx context.Context, key string, target any) bool {
	if key == "" {
		return false
	}
	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("кэш недоступен", zap.Error(err))
		return false
	}
	if !ok {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("повреждена запись кэша", zap.String("key", key), zap.Error(err))
		return false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return true
}

func (c *Calculator) store(ctx context.Context, key string, value any) {
	if key == "" {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("не удалось сериализовать результат", zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, raw); err != nil {
		c.logger.Warn("не удалось записать в кэш", zap.Error(err))
	}
}
