package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/api/models"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/calculations"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/report"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/service"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatPDF  = "pdf"
)

// AnnuityHandler обрабатывает запросы калькулятора аннуитета
type AnnuityHandler struct {
	calc *service.Calculator
}

// NewAnnuityHandler создает обработчик
func NewAnnuityHandler(calc *service.Calculator) *AnnuityHandler {
	return &AnnuityHandler{calc: calc}
}

// Term обрабатывает POST /api/v1/annuity/term
func (h *AnnuityHandler) Term(c *gin.Context) {
	var req service.TermInput
	if !bindJSON(c, &req) {
		return
	}
	format, schedule, ok := exportOptions(c)
	if !ok {
		return
	}
	if schedule == "monthly" {
		req.IncludeMonthly = true
	}

	result, err := h.calc.AnnuityTerm(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	switch format {
	case formatCSV:
		writeCSV(c, "annuity-term", schedule, result.Annual, result.Monthly)
	case formatPDF:
		data, err := report.TermPDF(result)
		if err != nil {
			writeError(c, err)
			return
		}
		writeAttachment(c, "annuity-term.pdf", "application/pdf", data)
	default:
		c.JSON(http.StatusOK, result)
	}
}

// Income обрабатывает POST /api/v1/annuity/income
func (h *AnnuityHandler) Income(c *gin.Context) {
	var req service.IncomeInput
	if !bindJSON(c, &req) {
		return
	}
	format, schedule, ok := exportOptions(c)
	if !ok {
		return
	}
	if schedule == "monthly" {
		req.IncludeMonthly = true
	}

	result, err := h.calc.MonthlyIncome(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	switch format {
	case formatCSV:
		writeCSV(c, "annuity-income", schedule, result.Annual, result.Monthly)
	case formatPDF:
		data, err := report.IncomePDF(result)
		if err != nil {
			writeError(c, err)
			return
		}
		writeAttachment(c, "annuity-income.pdf", "application/pdf", data)
	default:
		c.JSON(http.StatusOK, result)
	}
}

// Limits обрабатывает GET /api/v1/annuity/limits
func (h *AnnuityHandler) Limits(c *gin.Context) {
	cfg := h.calc.Config()
	c.JSON(http.StatusOK, models.LimitsResponse{
		Limits:                 cfg.Limits,
		CompoundingFrequencies: calculations.CompoundingFrequencies,
		RateConvention:         string(cfg.Convention()),
	})
}

func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "Некорректное тело запроса",
				Details: err.Error(),
			},
		})
		return false
	}
	return true
}

func exportOptions(c *gin.Context) (format, schedule string, ok bool) {
	format = c.DefaultQuery("format", formatJSON)
	schedule = c.DefaultQuery("schedule", "annual")

	switch format {
	case formatJSON, formatCSV, formatPDF:
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_FORMAT",
				Message: "format должен быть json, csv или pdf",
			},
		})
		return "", "", false
	}
	if schedule != "annual" && schedule != "monthly" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_SCHEDULE",
				Message: "schedule должен быть annual или monthly",
			},
		})
		return "", "", false
	}
	return format, schedule, true
}

func writeCSV(c *gin.Context, name, schedule string, annual []calculations.AnnualRecord, monthly []calculations.MonthlyRecord) {
	var buf bytes.Buffer
	var err error
	if schedule == "monthly" {
		err = report.WriteMonthlyCSV(&buf, monthly)
	} else {
		err = report.WriteAnnualCSV(&buf, annual)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	writeAttachment(c, fmt.Sprintf("%s-%s.csv", name, schedule), "text/csv; charset=utf-8", buf.Bytes())
}

func writeAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func writeError(c *gin.Context, err error) {
	c.JSON(apperrors.CodeOf(err).HTTPStatus(), models.NewErrorResponse(err))
}
