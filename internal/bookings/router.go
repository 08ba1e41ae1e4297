package bookings

import (
	"eventhive/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures booking and settlement routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, authMiddleware gin.HandlerFunc, webhookLimiter gin.HandlerFunc) {
	paymentsGroup := rg.Group("/payments")
	paymentsGroup.Use(authMiddleware, middleware.RequireRoles("USER", "ADMIN"))
	if webhookLimiter != nil {
		paymentsGroup.Use(webhookLimiter)
	}
	{
		paymentsGroup.POST("/verify", controller.VerifyPayment) // POST /api/v1/payments/verify
	}

	bookingsGroup := rg.Group("/bookings")
	bookingsGroup.Use(authMiddleware, middleware.RequireRoles("USER", "ADMIN"))
	{
		bookingsGroup.GET("", controller.GetUserBookings)
		bookingsGroup.GET("/:id", controller.GetBooking)
		bookingsGroup.GET("/ref/:ref", controller.GetBookingByRef)
		bookingsGroup.POST("/:id/resend-tickets", controller.ResendTickets)
	}
}
