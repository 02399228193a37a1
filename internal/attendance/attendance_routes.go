package attendance

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
	attendance := r.Group("/attendance")
	attendance.Use(middleware.ContextLogger(logger))
	{
		attendance.GET("", middleware.RateLimitByIP(5, 20), handler.GetMonth)
		attendance.GET("/:id/logs", middleware.RateLimitByIP(5, 20), handler.GetLogs)
		attendance.POST("", middleware.RateLimitByIP(2, 10), middleware.Idempotency(rdb), handler.Upsert)
		attendance.PUT("/:id", middleware.RateLimitByIP(2, 10), middleware.Idempotency(rdb), handler.Edit)
		attendance.POST("/:id/toggle", middleware.RateLimitByIP(2, 10), handler.Toggle)
		attendance.POST("/:id/swap", middleware.RateLimitByIP(1, 5), handler.SwapTimes)
		attendance.POST("/:id/revert", middleware.RateLimitByIP(1, 5), handler.Revert)
		attendance.POST("/import", middleware.RateLimitByIP(0.2, 1), middleware.Idempotency(rdb), handler.Import)
	}
}
