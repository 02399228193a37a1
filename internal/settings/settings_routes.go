package settings

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	settings := r.Group("/settings")
	settings.Use(middleware.ContextLogger(logger))
	{
		settings.GET("/calculation", middleware.RateLimitByIP(5, 20), handler.Get)
		settings.PUT("/calculation", middleware.RateLimitByIP(0.5, 2), handler.Update)
		settings.GET("/calculation/variables", middleware.RateLimitByIP(5, 20), handler.GetFormulaVariables)
	}
}
