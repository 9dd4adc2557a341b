package models

import (
	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/config"
)

// ErrorResponse ответ с ошибкой
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail описание ошибки
type ErrorDetail struct {
	Code       string                `json:"code"`
	Message    string                `json:"message"`
	Details    string                `json:"details,omitempty"`
	Violations []apperrors.Violation `json:"violations,omitempty"`
}

// LimitsResponse ограничения калькулятора для клиентских форм
type LimitsResponse struct {
	Limits                 config.Limits `json:"limits"`
	CompoundingFrequencies []int         `json:"compounding_frequencies"`
	RateConvention         string        `json:"rate_convention"`
}

// NewErrorResponse строит ответ из ошибки калькулятора
func NewErrorResponse(err error) ErrorResponse {
	appErr := apperrors.As(err)
	detail := ErrorDetail{
		Code:       string(appErr.Code),
		Message:    appErr.UserMessage(),
		Violations: appErr.Violations,
	}
	if appErr.Code != apperrors.CodeInternal {
		detail.Details = appErr.Message
	}
	return ErrorResponse{Error: detail}
}
