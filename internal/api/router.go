// Package api HTTP интерфейс калькулятора: REST, выгрузка отчетов, метрики и MCP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-living-annuity-go/internal/api/handlers"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/api/middleware"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/logging"
	"github.com/cloud-ru/mcp-living-annuity-go/internal/service"
)

// NewRouter собирает gin роутер. mcpServer может быть nil, тогда /mcp не регистрируется.
func NewRouter(calc *service.Calculator, mcpServer *mcp.Server, logger *zap.Logger) *gin.Engine {
	logger = logging.OrNop(logger)

	router := gin.New()
	// Logger до recovery: запрос с паникой тоже попадает в лог и метрики
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(calc.Config().CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	annuityHandler := handlers.NewAnnuityHandler(calc)

	api := router.Group("/api/v1")
	{
		api.GET("/annuity/limits", annuityHandler.Limits)
		api.POST("/annuity/term", annuityHandler.Term)
		api.POST("/annuity/income", annuityHandler.Income)
	}

	if mcpServer != nil {
		mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return mcpServer
		}, nil)
		router.Any("/mcp", gin.WrapH(mcpHandler))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	return router
}
