package calculations

// CalculationParameters описывает входные данные одного прогона симуляции
type CalculationParameters struct {
	Principal             float64        `json:"principal"`
	AnnualInterestRate    float64        `json:"annual_interest_rate"`
	CompoundingFrequency  int            `json:"compounding_frequency"`
	AnnualDrawdownPercent float64        `json:"annual_drawdown_percent"`
	HorizonYearsCap       int            `json:"horizon_years_cap"`
	MinimumBalance        float64        `json:"minimum_balance"`
	Convention            RateConvention `json:"rate_convention,omitempty"`
}

// MonthlyRecord представляет один месяц симуляции
type MonthlyRecord struct {
	StartBalance    float64 `json:"start_balance"`
	InterestPayment float64 `json:"interest_payment"`
	Withdrawal      float64 `json:"withdrawal"`
	EndBalance      float64 `json:"end_balance"`
}

// AnnualRecord представляет свертку до 12 месяцев симуляции
type AnnualRecord struct {
	PeriodIndex          int     `json:"period_index"`
	StartBalance         float64 `json:"start_balance"`
	EndBalance           float64 `json:"end_balance"`
	InterestPayment      float64 `json:"interest_payment"`
	Withdrawal           float64 `json:"withdrawal"`
	TotalInterestToDate  float64 `json:"total_interest_to_date"`
	TotalWithdrawnToDate float64 `json:"total_withdrawn_to_date"`
	DrawdownPercent      float64 `json:"drawdown_percent"`
	Months               int     `json:"months"`
}

// TermSummary представляет сводку по сроку жизни аннуитета
type TermSummary struct {
	Principal             float64 `json:"principal"`
	AnnualRatePercent     float64 `json:"annual_rate_percent"`
	CompoundingFrequency  int     `json:"compounding_frequency"`
	AnnualDrawdownPercent float64 `json:"annual_drawdown_percent"`
	MonthlyRate           float64 `json:"monthly_rate"`
	Months                int     `json:"months"`
	TermYears             float64 `json:"term_years"`
	ReachedCap            bool    `json:"reached_cap"`
	TermLabel             string  `json:"term_label"`
	InitialMonthlyIncome  float64 `json:"initial_monthly_income"`
	TotalWithdrawn        float64 `json:"total_withdrawn"`
	TotalInterest         float64 `json:"total_interest"`
	FinalBalance          float64 `json:"final_balance"`
}

// IncomeSummary представляет сводку по подобранному ежемесячному доходу
type IncomeSummary struct {
	Principal             float64 `json:"principal"`
	AnnualRatePercent     float64 `json:"annual_rate_percent"`
	CompoundingFrequency  int     `json:"compounding_frequency"`
	AnnuityTermYears      int     `json:"annuity_term_years"`
	AnnualIncreasePercent float64 `json:"annual_increase_percent"`
	MonthlyRate           float64 `json:"monthly_rate"`
	MonthlyIncome         float64 `json:"monthly_income"`
	InitialAnnualIncome   float64 `json:"initial_annual_income"`
	DrawdownPercent       float64 `json:"drawdown_percent"`
	Months                int     `json:"months"`
	TotalWithdrawn        float64 `json:"total_withdrawn"`
	TotalInterest         float64 `json:"total_interest"`
	FinalBalance          float64 `json:"final_balance"`
	SolverEvaluations     int     `json:"solver_evaluations"`
	// SolverTolerance допуск, с которым принят доход; больше 1e-10 при
	// недостижимой цели
	SolverTolerance  float64 `json:"solver_tolerance"`
	SolverRatio      float64 `json:"solver_ratio"`
	ToleranceWidened bool    `json:"tolerance_widened"`
}

// TermResult представляет результат расчета срока аннуитета
type TermResult struct {
	Summary TermSummary     `json:"summary"`
	Annual  []AnnualRecord  `json:"annual"`
	Monthly []MonthlyRecord `json:"monthly,omitempty"`
}

// IncomeResult представляет результат подбора ежемесячного дохода
type IncomeResult struct {
	Summary IncomeSummary   `json:"summary"`
	Annual  []AnnualRecord  `json:"annual"`
	Monthly []MonthlyRecord `json:"monthly,omitempty"`
}
