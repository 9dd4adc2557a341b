package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/cache"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Transport:      "stdio",
		RateConvention: "periodic",
		Limits: config.Limits{
			MinBalance:            125000,
			MinDrawdownPercent:    2.5,
			MaxDrawdownPercent:    17.5,
			MaxAnnuityTerm:        50,
			CalculationLimitYears: 1000,
			MaxRate:               100,
			MaxPrincipal:          1e12,
			MinRetirementAge:      55,
			MaxAnnualIncrease:     100,
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func validTermInput() TermInput {
	return TermInput{
		Principal:             ptr(1000000.0),
		AnnualRatePercent:     ptr(0.0),
		CompoundingFrequency:  ptr(12),
		AnnualDrawdownPercent: ptr(17.5),
	}
}

func validIncomeInput() IncomeInput {
	return IncomeInput{
		Principal:             ptr(1000000.0),
		AnnualRatePercent:     ptr(5.0),
		CompoundingFrequency:  ptr(12),
		AnnuityTermYears:      ptr(20),
		AnnualIncreasePercent: ptr(5.0),
	}
}

func TestAnnuityTerm(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(*TermInput)
		wantCode apperrors.Code
		check    func(*testing.T, *TermInput, error)
	}{
		{
			name:   "valid input",
			modify: func(*TermInput) {},
		},
		{
			name:     "missing principal",
			modify:   func(in *TermInput) { in.Principal = nil },
			wantCode: apperrors.CodePrecondition,
		},
		{
			name: "violations are collected",
			modify: func(in *TermInput) {
				in.Principal = ptr(1000.0)
				in.AnnualDrawdownPercent = ptr(50.0)
				in.RetirementAge = ptr(30)
			},
			wantCode: apperrors.CodeValidation,
			check: func(t *testing.T, _ *TermInput, err error) {
				var appErr *apperrors.Error
				if !errors.As(err, &appErr) {
					t.Fatalf("expected *apperrors.Error, got %T", err)
				}
				if len(appErr.Violations) != 3 {
					t.Errorf("expected 3 violations, got %v", appErr.Violations)
				}
			},
		},
	}

	calc := NewCalculator(testConfig(), zap.NewNop(), nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validTermInput()
			tt.modify(&in)

			result, err := calc.AnnuityTerm(context.Background(), in)
			if tt.wantCode != "" {
				if apperrors.CodeOf(err) != tt.wantCode {
					t.Fatalf("AnnuityTerm() error = %v, want code %s", err, tt.wantCode)
				}
				if tt.check != nil {
					tt.check(t, &in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AnnuityTerm() error = %v", err)
			}
			if result.Summary.Months != 132 {
				t.Errorf("expected 132 months, got %d", result.Summary.Months)
			}
			if result.Monthly != nil {
				t.Error("monthly schedule should be omitted by default")
			}
			if result.Annual[0].PeriodIndex != 1 {
				t.Errorf("expected first period 1, got %d", result.Annual[0].PeriodIndex)
			}
		})
	}
}

func TestAnnuityTermIncludesMonthlyAndAge(t *testing.T) {
	calc := NewCalculator(testConfig(), nil, nil, nil)

	in := validTermInput()
	in.IncludeMonthly = true
	in.RetirementAge = ptr(65)

	result, err := calc.AnnuityTerm(context.Background(), in)
	if err != nil {
		t.Fatalf("AnnuityTerm() error = %v", err)
	}
	if len(result.Monthly) != result.Summary.Months {
		t.Errorf("expected %d monthly rows, got %d", result.Summary.Months, len(result.Monthly))
	}
	if result.Annual[0].PeriodIndex != 65 {
		t.Errorf("expected first period 65, got %d", result.Annual[0].PeriodIndex)
	}
}

func TestMonthlyIncome(t *testing.T) {
	calc := NewCalculator(testConfig(), zap.NewNop(), nil, nil)

	result, err := calc.MonthlyIncome(context.Background(), validIncomeInput())
	if err != nil {
		t.Fatalf("MonthlyIncome() error = %v", err)
	}
	if result.Summary.MonthlyIncome <= 0 {
		t.Errorf("expected positive income, got %f", result.Summary.MonthlyIncome)
	}
	if len(result.Annual) != 20 {
		t.Errorf("expected 20 annual records, got %d", len(result.Annual))
	}
}

func TestMonthlyIncomeConvergenceFailure(t *testing.T) {
	calc := NewCalculator(testConfig(), zap.NewNop(), nil, nil)

	in := validIncomeInput()
	in.AnnuityTermYears = ptr(1)

	_, err := calc.MonthlyIncome(context.Background(), in)
	if apperrors.CodeOf(err) != apperrors.CodeCalculation {
		t.Fatalf("MonthlyIncome() error = %v, want %s", err, apperrors.CodeCalculation)
	}
	if apperrors.As(err).UserMessage() == "" {
		t.Error("expected user message for convergence failure")
	}
}

func TestMonthlyIncomeMissingFields(t *testing.T) {
	calc := NewCalculator(testConfig(), zap.NewNop(), nil, nil)

	_, err := calc.MonthlyIncome(context.Background(), IncomeInput{Principal: ptr(1e6)})
	if apperrors.CodeOf(err) != apperrors.CodePrecondition {
		t.Fatalf("MonthlyIncome() error = %v, want %s", err, apperrors.CodePrecondition)
	}
}

func TestCalculatorUsesCache(t *testing.T) {
	repo := cache.NewMemoryCache(time.Minute, 0)
	calc := NewCalculator(testConfig(), zap.NewNop(), nil, repo)
	ctx := context.Background()

	first, err := calc.AnnuityTerm(ctx, validTermInput())
	if err != nil {
		t.Fatalf("AnnuityTerm() error = %v", err)
	}
	if repo.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", repo.Len())
	}

	second, err := calc.AnnuityTerm(ctx, validTermInput())
	if err != nil {
		t.Fatalf("AnnuityTerm() error = %v", err)
	}
	if second.Summary != first.Summary {
		t.Errorf("cached summary differs: %+v != %+v", second.Summary, first.Summary)
	}

	other := validTermInput()
	other.AnnualDrawdownPercent = ptr(10.0)
	if _, err := calc.AnnuityTerm(ctx, other); err != nil {
		t.Fatalf("AnnuityTerm() error = %v", err)
	}
	if repo.Len() != 2 {
		t.Errorf("expected two cached entries, got %d", repo.Len())
	}
}

func TestCacheHitIsLogged(t *testing.T) {
	tests := []struct {
		name    string
		message string
		call    func(context.Context, *Calculator) error
	}{
		{
			name:    "annuity term",
			message: "расчет срока аннуитета выдан из кэша",
			call: func(ctx context.Context, calc *Calculator) error {
				_, err := calc.AnnuityTerm(ctx, validTermInput())
				return err
			},
		},
		{
			name:    "monthly income",
			message: "подбор ежемесячного дохода выдан из кэша",
			call: func(ctx context.Context, calc *Calculator) error {
				_, err := calc.MonthlyIncome(ctx, validIncomeInput())
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			calc := NewCalculator(testConfig(), zap.New(core), nil, cache.NewMemoryCache(time.Minute, 0))
			ctx := context.Background()

			if err := tt.call(ctx, calc); err != nil {
				t.Fatalf("first call error = %v", err)
			}
			if n := logs.FilterMessage(tt.message).Len(); n != 0 {
				t.Fatalf("computed result logged as cache hit %d times", n)
			}

			if err := tt.call(ctx, calc); err != nil {
				t.Fatalf("second call error = %v", err)
			}
			hits := logs.FilterMessage(tt.message).All()
			if len(hits) != 1 {
				t.Fatalf("expected one cache hit log line, got %d", len(hits))
			}
			if hit, _ := hits[0].ContextMap()["cache_hit"].(bool); !hit {
				t.Errorf("cache_hit field = %v, want true", hits[0].ContextMap()["cache_hit"])
			}
		})
	}
}

func TestMonthlyIncomeWarnsOnWidenedTolerance(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	calc := NewCalculator(testConfig(), zap.New(core), nil, nil)

	in := validIncomeInput()
	in.Principal = ptr(200000.0)
	in.AnnualRatePercent = ptr(0.0)
	in.AnnuityTermYears = ptr(50)
	in.AnnualIncreasePercent = ptr(0.0)

	result, err := calc.MonthlyIncome(context.Background(), in)
	if err != nil {
		t.Fatalf("MonthlyIncome() error = %v", err)
	}
	if !result.Summary.ToleranceWidened {
		t.Errorf("expected widened tolerance, got %v", result.Summary.SolverTolerance)
	}
	if n := logs.FilterMessage("доход подобран с расширенным допуском").Len(); n != 1 {
		t.Errorf("expected one warning, got %d", n)
	}
}
