package calculations

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func baseParams() CalculationParameters {
	return CalculationParameters{
		Principal:             1000000,
		AnnualInterestRate:    6,
		CompoundingFrequency:  12,
		AnnualDrawdownPercent: 8,
		HorizonYearsCap:       50,
		MinimumBalance:        125000,
		Convention:            ConventionPeriodic,
	}
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*CalculationParameters)
		rule      func(CalculationParameters) IncomeRule
		wantError bool
		check     func(*testing.T, []MonthlyRecord)
	}{
		{
			name: "zero growth fund at the floor stops at first anniversary",
			modify: func(p *CalculationParameters) {
				p.Principal = 125000
				p.AnnualInterestRate = 0
				p.AnnualDrawdownPercent = 2.5
			},
			check: func(t *testing.T, months []MonthlyRecord) {
				if len(months) != 12 {
					t.Fatalf("expected 12 months, got %d", len(months))
				}
				for _, m := range months {
					if math.Abs(m.Withdrawal-125000*0.025/12) > 1e-9 {
						t.Errorf("expected withdrawal 260.4166..., got %f", m.Withdrawal)
					}
					if m.InterestPayment != 0 {
						t.Errorf("expected zero interest, got %f", m.InterestPayment)
					}
				}
			},
		},
		{
			name: "zero growth fund without floor runs to the cap",
			modify: func(p *CalculationParameters) {
				p.Principal = 125000
				p.AnnualInterestRate = 0
				p.AnnualDrawdownPercent = 2.5
				p.MinimumBalance = 0
			},
			check: func(t *testing.T, months []MonthlyRecord) {
				if len(months) != 600 {
					t.Fatalf("expected 600 months, got %d", len(months))
				}
				for i := 0; i < 12; i++ {
					if math.Abs(months[i].Withdrawal-260.41666666666667) > 1e-9 {
						t.Errorf("month %d: expected withdrawal 260.4166..., got %f", i, months[i].Withdrawal)
					}
				}
			},
		},
		{
			name: "principal below the floor yields empty schedule",
			modify: func(p *CalculationParameters) {
				p.Principal = 124999.99
			},
			check: func(t *testing.T, months []MonthlyRecord) {
				if len(months) != 0 {
					t.Errorf("expected empty schedule, got %d months", len(months))
				}
			},
		},
		{
			name: "principal exactly at the floor simulates first year",
			modify: func(p *CalculationParameters) {
				p.Principal = 125000
			},
			check: func(t *testing.T, months []MonthlyRecord) {
				if len(months) < 12 {
					t.Errorf("expected at least 12 months, got %d", len(months))
				}
			},
		},
		{
			name: "max drawdown exhausts the fund in 11 years",
			modify: func(p *CalculationParameters) {
				p.AnnualInterestRate = 0
				p.AnnualDrawdownPercent = 17.5
			},
			check: func(t *testing.T, months []MonthlyRecord) {
				if len(months) != 132 {
					t.Errorf("expected 132 months, got %d", len(months))
				}
			},
		},
		{
			name: "income is recomputed only on anniversaries",
			check: func(t *testing.T, months []MonthlyRecord) {
				for i := 1; i < len(months); i++ {
					if i%12 != 0 && months[i].Withdrawal != months[i-1].Withdrawal {
						t.Fatalf("withdrawal changed mid-year at month %d", i)
					}
				}
				if months[12].Withdrawal == months[11].Withdrawal {
					t.Error("withdrawal should be recomputed at month 12")
				}
			},
		},
		{
			name: "withdrawal never exceeds available balance",
			rule: func(p CalculationParameters) IncomeRule {
				return DrawdownRule{AnnualPercent: 1200 * 2}
			},
			modify: func(p *CalculationParameters) {
				p.MinimumBalance = 0
				p.HorizonYearsCap = 1
			},
			check: func(t *testing.T, months []MonthlyRecord) {
				if months[0].EndBalance != 0 {
					t.Errorf("expected balance exhausted in first month, got %f", months[0].EndBalance)
				}
				for _, m := range months {
					if m.EndBalance < 0 {
						t.Fatalf("negative balance %f", m.EndBalance)
					}
				}
			},
		},
		{
			name: "nil rule",
			rule: func(CalculationParameters) IncomeRule {
				return nil
			},
			wantError: true,
		},
		{
			name: "NaN principal",
			modify: func(p *CalculationParameters) {
				p.Principal = math.NaN()
			},
			wantError: true,
		},
		{
			name: "zero compounding",
			modify: func(p *CalculationParameters) {
				p.CompoundingFrequency = 0
			},
			wantError: true,
		},
		{
			name: "zero horizon",
			modify: func(p *CalculationParameters) {
				p.HorizonYearsCap = 0
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := baseParams()
			if tt.modify != nil {
				tt.modify(&params)
			}
			var rule IncomeRule = DrawdownRule{AnnualPercent: params.AnnualDrawdownPercent}
			if tt.rule != nil {
				rule = tt.rule(params)
			}

			months, err := Simulate(params, rule)
			if (err != nil) != tt.wantError {
				t.Fatalf("Simulate() error = %v, wantError %v", err, tt.wantError)
			}
			if tt.wantError {
				if !errors.Is(err, ErrPrecondition) {
					t.Errorf("expected ErrPrecondition, got %v", err)
				}
				return
			}
			if tt.check != nil {
				tt.check(t, months)
			}
		})
	}
}

func TestSimulateMonthlyInvariants(t *testing.T) {
	params := baseParams()
	months, err := Simulate(params, DrawdownRule{AnnualPercent: 12})
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(months) == 0 {
		t.Fatal("expected non-empty schedule")
	}

	if months[0].StartBalance != params.Principal {
		t.Errorf("first start balance = %f, want %f", months[0].StartBalance, params.Principal)
	}
	for i, m := range months {
		if math.Abs(m.StartBalance+m.InterestPayment-m.Withdrawal-m.EndBalance) > 1e-6 {
			t.Errorf("month %d: balance identity broken", i)
		}
		if m.Withdrawal > m.StartBalance+m.InterestPayment {
			t.Errorf("month %d: withdrawal exceeds available funds", i)
		}
		if m.EndBalance < 0 {
			t.Errorf("month %d: negative end balance", i)
		}
		if i > 0 && m.StartBalance != months[i-1].EndBalance {
			t.Errorf("month %d: start balance does not chain from previous month", i)
		}
	}
	if len(months) > HorizonMonths(params.HorizonYearsCap) {
		t.Errorf("schedule exceeds horizon: %d", len(months))
	}
}

func TestSimulateIdempotent(t *testing.T) {
	params := baseParams()
	rule := DrawdownRule{AnnualPercent: params.AnnualDrawdownPercent}

	first, err := Simulate(params, rule)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	second, err := Simulate(params, rule)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated simulation produced different schedules")
	}
}

func TestSimulateDrawdownMonotonicity(t *testing.T) {
	params := baseParams()
	previous := math.MaxInt
	for _, drawdown := range []float64{2.5, 5, 7.5, 10, 12.5, 15, 17.5} {
		months, err := Simulate(params, DrawdownRule{AnnualPercent: drawdown})
		if err != nil {
			t.Fatalf("Simulate() error = %v", err)
		}
		if len(months) > previous {
			t.Errorf("drawdown %.1f%%: term %d months grew from %d", drawdown, len(months), previous)
		}
		previous = len(months)
	}
}

func TestFinalBalance(t *testing.T) {
	params := baseParams()
	params.MinimumBalance = 0
	params.HorizonYearsCap = 10
	rule := DrawdownRule{AnnualPercent: 8}

	months, err := Simulate(params, rule)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	final, err := FinalBalance(params, rule)
	if err != nil {
		t.Fatalf("FinalBalance() error = %v", err)
	}
	if math.Abs(final-months[len(months)-1].EndBalance) > 1e-6 {
		t.Errorf("FinalBalance() = %f, want %f", final, months[len(months)-1].EndBalance)
	}

	// быстрый режим не останавливается на минимальном балансе
	params.MinimumBalance = 1e9
	continued, err := FinalBalance(params, rule)
	if err != nil {
		t.Fatalf("FinalBalance() error = %v", err)
	}
	if continued != final {
		t.Errorf("FinalBalance() should ignore minimum balance: %f != %f", continued, final)
	}

	if _, err := FinalBalance(params, nil); !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrPrecondition for nil rule, got %v", err)
	}
}

func TestHorizonMonths(t *testing.T) {
	if got := HorizonMonths(50); got != 600 {
		t.Errorf("HorizonMonths(50) = %d, want 600", got)
	}
	if got := HorizonMonths(5000); got != SafetyCeilingYears*12 {
		t.Errorf("HorizonMonths(5000) = %d, want %d", got, SafetyCeilingYears*12)
	}
}
