package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls счетчик вызовов инструментов
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Общее количество вызовов инструментов",
		},
		[]string{"tool_name", "status"},
	)

	// CalculationErrors счетчик ошибок расчетов
	CalculationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculation_errors_total",
			Help: "Количество ошибок расчетов",
		},
		[]string{"tool_name", "error_type"},
	)

	// APICalls счетчик вызовов API
	APICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_calls_total",
			Help: "Вызовы API инструментов",
		},
		[]string{"service", "endpoint", "status"},
	)

	// SolverEvaluations число вычислений целевой функции за один подбор
	SolverEvaluations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solver_objective_evaluations",
			Help:    "Количество вычислений целевой функции при подборе параметра",
			Buckets: prometheus.ExponentialBuckets(4, 4, 9),
		},
	)

	// SimulatedMonths длина помесячной симуляции
	SimulatedMonths = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "simulated_months",
			Help:    "Количество месяцев в результате симуляции",
			Buckets: []float64{12, 60, 120, 240, 360, 480, 600},
		},
		[]string{"tool_name"},
	)

	// CacheLookups счетчик обращений к кэшу результатов
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Обращения к кэшу результатов расчета",
		},
		[]string{"result"},
	)
)
