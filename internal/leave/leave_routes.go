package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("", middleware.RateLimitByIP(3, 10), handler.GetAll)
		leaves.GET("/:id", middleware.RateLimitByIP(3, 10), handler.GetById)
		leaves.POST("", middleware.RateLimitByIP(1, 5), handler.Create)
		leaves.POST("/:id/approve", middleware.RateLimitByIP(1, 5), handler.Approve)
		leaves.POST("/:id/reject", middleware.RateLimitByIP(1, 5), handler.Reject)
		leaves.DELETE("/:id", middleware.RateLimitByIP(0.5, 2), handler.Delete)
	}
}
