package export

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	exports := r.Group("/exports")
	exports.Use(middleware.ContextLogger(logger))
	{
		exports.POST("/payslips",
			middleware.RateLimitByIP(1, 5),
			middleware.Idempotency(rdb),
			handler.RequestPayslip,
		)
		exports.GET("/summaries.csv", middleware.RateLimitByIP(1, 5), handler.PeriodCSV)
	}
}
