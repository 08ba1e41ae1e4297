package checkout

import (
	"eventhive/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCheckoutRoutes configures checkout routes
func SetupCheckoutRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc, limiter gin.HandlerFunc) {
	orders := rg.Group("/checkout")
	orders.Use(authMiddleware, middleware.RequireRoles("USER", "ADMIN"))
	if limiter != nil {
		orders.Use(limiter)
	}
	{
		orders.POST("/orders", controller.OpenOrder) // POST /api/v1/checkout/orders
	}
}
