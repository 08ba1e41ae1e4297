package catalog

import (
	"github.com/gin-gonic/gin"
)

// SetupCatalogRoutes configures public catalog read routes
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller) {
	events := rg.Group("/events")
	{
		events.GET("", controller.ListEvents)              // GET /api/v1/events
		events.GET("/:id", controller.GetEvent)            // GET /api/v1/events/:id
		events.GET("/:id/tiers", controller.GetEventTiers) // GET /api/v1/events/:id/tiers
	}
}
