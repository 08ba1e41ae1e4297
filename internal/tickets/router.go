package tickets

import (
	"github.com/gin-gonic/gin"
)

// SetupTicketRoutes configures the public ticket verification route.
// Registered at the engine root, not under the API prefix, so the URL in
// the QR code stays short.
func SetupTicketRoutes(engine *gin.Engine, controller *Controller) {
	engine.GET("/verify-ticket/:token", controller.VerifyTicket)
}
