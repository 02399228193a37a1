package deduction

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
	deductions := r.Group("/deductions")
	deductions.Use(middleware.ContextLogger(logger))
	{
		deductions.GET("", middleware.RateLimitByIP(5, 20), handler.GetAll)
		deductions.GET("/:id", middleware.RateLimitByIP(5, 20), handler.GetByID)
		deductions.GET("/:id/applications", middleware.RateLimitByIP(5, 20), handler.GetApplications)
		deductions.POST("", middleware.RateLimitByIP(2, 10), middleware.Idempotency(rdb), handler.Create)
		deductions.PUT("/:id", middleware.RateLimitByIP(2, 10), handler.Update)
		deductions.POST("/:id/approve", middleware.RateLimitByIP(1, 5), handler.Approve)
		deductions.POST("/credit-back", middleware.RateLimitByIP(0.5, 2), middleware.Idempotency(rdb), handler.CreditBack)
		deductions.DELETE("/:id", middleware.RateLimitByIP(0.5, 2), handler.Delete)
	}
}
