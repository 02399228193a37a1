package employee

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
	employees := r.Group("/employees")
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("", middleware.RateLimitByIP(3, 10), handler.GetAll)
		employees.GET("/options", middleware.RateLimitByIP(5, 20), handler.GetOptions)
		employees.GET("/:id", middleware.RateLimitByIP(3, 10), handler.GetById)
		employees.POST("", middleware.RateLimitByIP(0.5, 2), handler.Create)
		employees.PUT("/:id", middleware.RateLimitByIP(0.5, 2), handler.Update)
		employees.POST("/:id/deactivate", middleware.RateLimitByIP(0.2, 1), handler.Deactivate)
	}
}
