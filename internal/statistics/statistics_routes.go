package statistics

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
	stats := r.Group("/statistics")
	stats.Use(middleware.ContextLogger(logger))
	{
		stats.GET("/:year", middleware.RateLimitByIP(5, 20), handler.GetYear)
	}
}
