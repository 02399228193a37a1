package payroll

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
	payroll := r.Group("/payroll-summaries")
	payroll.Use(middleware.ContextLogger(logger))
	{
		payroll.GET("", middleware.RateLimitByIP(5, 20), handler.GetAll)
		payroll.GET("/:id", middleware.RateLimitByIP(5, 20), handler.GetByID)
		payroll.POST("/generate", middleware.RateLimitByIP(1, 5), middleware.Idempotency(rdb), handler.Generate)
		payroll.POST("/generate-all", middleware.RateLimitByIP(0.2, 1), middleware.Idempotency(rdb), handler.GenerateAll)
		payroll.POST("/credit-back", middleware.RateLimitByIP(0.5, 2), middleware.Idempotency(rdb), handler.CreditBack)
		payroll.DELETE("/:id", middleware.RateLimitByIP(0.5, 2), handler.Delete)
	}
}
