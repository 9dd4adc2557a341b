package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/calculations"
)

// Limits содержит ограничения калькулятора, которые можно переопределить профилем
type Limits struct {
	MinBalance            float64 `json:"min_balance" yaml:"min_balance" env:"MIN_BALANCE" envDefault:"125000"`
	MinDrawdownPercent    float64 `json:"min_drawdown_percent" yaml:"min_drawdown_percent" env:"MIN_DRAWDOWN_PERCENT" envDefault:"2.5"`
	MaxDrawdownPercent    float64 `json:"max_drawdown_percent" yaml:"max_drawdown_percent" env:"MAX_DRAWDOWN_PERCENT" envDefault:"17.5"`
	MaxAnnuityTerm        int     `json:"max_annuity_term" yaml:"max_annuity_term" env:"MAX_ANNUITY_TERM" envDefault:"50"`
	CalculationLimitYears int     `json:"calculation_limit_years" yaml:"calculation_limit_years" env:"CALCULATION_LIMIT_YEARS" envDefault:"1000"`
	MaxRate               float64 `json:"max_rate" yaml:"max_rate" env:"MAX_RATE" envDefault:"100"`
	MaxPrincipal          float64 `json:"max_principal" yaml:"max_principal" env:"MAX_PRINCIPAL" envDefault:"1e12"`
	MinRetirementAge      int     `json:"min_retirement_age" yaml:"min_retirement_age" env:"MIN_RETIREMENT_AGE" envDefault:"55"`
	MaxAnnualIncrease     float64 `json:"max_annual_increase" yaml:"max_annual_increase" env:"MAX_ANNUAL_INCREASE" envDefault:"100"`
}

// Config содержит конфигурацию сервера
type Config struct {
	Port              int           `env:"PORT" envDefault:"8000"`
	Transport         string        `env:"TRANSPORT" envDefault:"stdio"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"INFO"`
	OTELEndpoint      string        `env:"OTEL_ENDPOINT"`
	OTELServiceName   string        `env:"OTEL_SERVICE_NAME" envDefault:"mcp-living-annuity"`
	RedisAddr         string        `env:"REDIS_ADDR"`
	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	CacheMaxEntries   int           `env:"CACHE_MAX_ENTRIES" envDefault:"1000"`
	CORSOrigins       []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	RateConvention    string        `env:"RATE_CONVENTION" envDefault:"periodic"`
	CalculatorProfile string        `env:"CALCULATOR_PROFILE"`

	Limits Limits
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.CalculatorProfile != "" {
		profile, err := LoadProfile(cfg.CalculatorProfile)
		if err != nil {
			return nil, err
		}
		cfg.Limits = MergeLimits(cfg.Limits, profile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type profileWrapper struct {
	Limits Limits `yaml:"limits"`
}

// LoadProfile читает YAML профиль калькулятора
func LoadProfile(path string) (Limits, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("read profile: %w", err)
	}
	var w profileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return Limits{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return w.Limits, nil
}

// MergeLimits накладывает ненулевые поля override на base
func MergeLimits(base, override Limits) Limits {
	out := base
	if override.MinBalance != 0 {
		out.MinBalance = override.MinBalance
	}
	if override.MinDrawdownPercent != 0 {
		out.MinDrawdownPercent = override.MinDrawdownPercent
	}
	if override.MaxDrawdownPercent != 0 {
		out.MaxDrawdownPercent = override.MaxDrawdownPercent
	}
	if override.MaxAnnuityTerm != 0 {
		out.MaxAnnuityTerm = override.MaxAnnuityTerm
	}
	if override.CalculationLimitYears != 0 {
		out.CalculationLimitYears = override.CalculationLimitYears
	}
	if override.MaxRate != 0 {
		out.MaxRate = override.MaxRate
	}
	if override.MaxPrincipal != 0 {
		out.MaxPrincipal = override.MaxPrincipal
	}
	if override.MinRetirementAge != 0 {
		out.MinRetirementAge = override.MinRetirementAge
	}
	if override.MaxAnnualIncrease != 0 {
		out.MaxAnnualIncrease = override.MaxAnnualIncrease
	}
	return out
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("конфигурация не задана")
	}
	switch c.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("TRANSPORT: неизвестный транспорт %q", c.Transport)
	}
	if _, err := calculations.ParseRateConvention(c.RateConvention); err != nil {
		return fmt.Errorf("RATE_CONVENTION: %w", err)
	}

	l := c.Limits
	if l.MinBalance < 0 {
		return errors.New("MIN_BALANCE: значение не может быть отрицательным")
	}
	if l.MinDrawdownPercent <= 0 || l.MinDrawdownPercent > l.MaxDrawdownPercent {
		return fmt.Errorf("коридор изъятия [%.2f; %.2f] задан неверно", l.MinDrawdownPercent, l.MaxDrawdownPercent)
	}
	if l.CalculationLimitYears <= 0 || l.CalculationLimitYears > calculations.SafetyCeilingYears {
		return fmt.Errorf("CALCULATION_LIMIT_YEARS: значение должно быть в диапазоне [1; %d]", calculations.SafetyCeilingYears)
	}
	if l.MaxAnnuityTerm <= 0 || l.MaxAnnuityTerm > l.CalculationLimitYears {
		return fmt.Errorf("MAX_ANNUITY_TERM: значение должно быть в диапазоне [1; %d]", l.CalculationLimitYears)
	}
	if l.MaxRate <= 0 || l.MaxPrincipal <= l.MinBalance {
		return errors.New("MAX_RATE и MAX_PRINCIPAL заданы неверно")
	}
	return nil
}

// MinBalance возвращает минимальный допустимый баланс фонда
func (c *Config) MinBalance() float64 {
	return c.Limits.MinBalance
}

// DrawdownBand возвращает допустимый коридор годового изъятия в процентах
func (c *Config) DrawdownBand() (float64, float64) {
	return c.Limits.MinDrawdownPercent, c.Limits.MaxDrawdownPercent
}

// MaxAnnuityTerm возвращает предельный срок расчета аннуитета в годах
func (c *Config) MaxAnnuityTerm() int {
	return min(c.Limits.MaxAnnuityTerm, c.Limits.CalculationLimitYears)
}

// Convention возвращает конвенцию пересчета ставки
func (c *Config) Convention() calculations.RateConvention {
	convention, err := calculations.ParseRateConvention(c.RateConvention)
	if err != nil {
		return calculations.ConventionPeriodic
	}
	return convention
}
