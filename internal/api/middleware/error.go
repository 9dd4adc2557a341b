package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/api/models"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/apperrors"
)

// ErrorHandler перехватывает панику в обработчиках и отвечает внутренней ошибкой
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    string(apperrors.CodeInternal),
				Message: apperrors.CodeInternal.UserMessage(),
			},
		})
	})
}
