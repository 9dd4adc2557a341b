package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/calculations"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/metrics"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/service"
)

const (
	serverName    = "mcp-living-annuity"
	serverVersion = "1.0.0"
)

// NewServer создает MCP сервер с зарегистрированными инструментами калькулятора
func NewServer(calc *service.Calculator) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	Register(server, calc)
	return server
}

// Register добавляет инструменты калькулятора на сервер
func Register(server *mcp.Server, calc *service.Calculator) {
	mcp.AddTool(server, TermTool(), TermHandler(calc))
	mcp.AddTool(server, IncomeTool(), IncomeHandler(calc))
}

// TermTool описывает инструмент расчета срока аннуитета
func TermTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        service.TermCalculation,
		Description: "Рассчитывает, на сколько лет хватит пенсионного фонда при ежегодном изъятии процента от баланса",
	}
}

// IncomeTool описывает инструмент подбора ежемесячного дохода
func IncomeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        service.IncomeCalculation,
		Description: "Подбирает стартовый ежемесячный доход с ежегодной индексацией, который фонд выдержит заданное число лет",
	}
}

// TermHandler обрабатывает запрос на расчет срока аннуитета
func TermHandler(calc *service.Calculator) mcp.ToolHandlerFor[service.TermInput, calculations.TermResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input service.TermInput) (*mcp.CallToolResult, calculations.TermResult, error) {
		metrics.APICalls.WithLabelValues("mcp", service.TermCalculation, "started").Inc()

		result, err := calc.AnnuityTerm(ctx, input)
		if err != nil {
			return nil, calculations.TermResult{}, toolError(service.TermCalculation, err)
		}

		metrics.ToolCalls.WithLabelValues(service.TermCalculation, "success").Inc()
		metrics.APICalls.WithLabelValues("mcp", service.TermCalculation, "success").Inc()
		return nil, *result, nil
	}
}

// IncomeHandler обрабатывает запрос на подбор ежемесячного дохода
func IncomeHandler(calc *service.Calculator) mcp.ToolHandlerFor[service.IncomeInput, calculations.IncomeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input service.IncomeInput) (*mcp.CallToolResult, calculations.IncomeResult, error) {
		metrics.APICalls.WithLabelValues("mcp", service.IncomeCalculation, "started").Inc()

		result, err := calc.MonthlyIncome(ctx, input)
		if err != nil {
			return nil, calculations.IncomeResult{}, toolError(service.IncomeCalculation, err)
		}

		metrics.ToolCalls.WithLabelValues(service.IncomeCalculation, "success").Inc()
		metrics.APICalls.WithLabelValues("mcp", service.IncomeCalculation, "success").Inc()
		return nil, *result, nil
	}
}

// toolError превращает ошибку расчета в сообщение для модели
func toolError(toolName string, err error) error {
	appErr := apperrors.As(err)
	status := "error"
	if appErr.Code == apperrors.CodeValidation {
		status = "validation_error"
	}
	metrics.ToolCalls.WithLabelValues(toolName, status).Inc()
	metrics.APICalls.WithLabelValues("mcp", toolName, "error").Inc()
	return fmt.Errorf("%s: %w", appErr.UserMessage(), err)
}
