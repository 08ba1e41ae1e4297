package catalog

import (
	"net/http"
	"strconv"

	"eventhive/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListEvents handles GET /api/v1/events
func (c *Controller) ListEvents(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}

	events, totalCount, err := c.service.ListEvents(ctx.Request.Context(), page, limit)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list events", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Events retrieved successfully", gin.H{
		"events":      events,
		"total_count": totalCount,
		"page":        page,
		"limit":       limit,
	})
}

// GetEvent handles GET /api/v1/events/:id
func (c *Controller) GetEvent(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	event, err := c.service.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusNotFound, "Event not found", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Event retrieved successfully", event.ToResponse())
}

// GetEventTiers handles GET /api/v1/events/:id/tiers
func (c *Controller) GetEventTiers(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid event ID", nil)
		return
	}

	tiers, err := c.service.GetEventTiers(ctx.Request.Context(), eventID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list ticket tiers", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Ticket tiers retrieved successfully", tiers)
}
