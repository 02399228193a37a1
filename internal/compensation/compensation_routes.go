package compensation

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
	compensation := r.Group("/compensation")
	compensation.Use(middleware.ContextLogger(logger))
	{
		compensation.GET("", middleware.RateLimitByIP(5, 20), handler.GetMonth)
		compensation.PUT("/:id", middleware.RateLimitByIP(2, 10), middleware.Idempotency(rdb), handler.Override)
		compensation.DELETE("/:id/override", middleware.RateLimitByIP(2, 10), handler.ClearOverride)
		compensation.POST("/recompute", middleware.RateLimitByIP(0.5, 2), middleware.Idempotency(rdb), handler.Recompute)
		compensation.POST("/recompute-all", middleware.RateLimitByIP(0.2, 1), middleware.Idempotency(rdb), handler.RecomputeAll)
	}
}
