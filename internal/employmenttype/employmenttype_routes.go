package employmenttype

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
	types := r.Group("/employment-types")
	types.Use(middleware.ContextLogger(logger))
	{
		types.GET("", middleware.RateLimitByIP(3, 10), handler.GetAll)
		types.GET("/:id", middleware.RateLimitByIP(3, 10), handler.GetById)
		types.GET("/:id/schedule", middleware.RateLimitByIP(5, 20), handler.ResolveSchedule)
		types.POST("", middleware.RateLimitByIP(0.5, 2), handler.Create)
		types.PUT("/:id", middleware.RateLimitByIP(0.5, 2), handler.Update)
		types.DELETE("/:id", middleware.RateLimitByIP(0.2, 1), handler.Delete)
	}
}
