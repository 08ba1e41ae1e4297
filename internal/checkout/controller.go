package checkout

import (
	"errors"
	"net/http"

	"eventhive/internal/catalog"
	"eventhive/internal/shared/middleware"
	"eventhive/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// OpenOrder handles POST /api/v1/checkout/orders
func (c *Controller) OpenOrder(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var req OpenOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := c.service.OpenOrder(ctx.Request.Context(), userID, req)
	if err != nil {
		status := classifyError(err)
		response.Error(ctx, status, "Failed to open order", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Order opened successfully", resp)
}

// classifyError maps cart validation failures to client-correctable
// statuses; anything else is a server fault.
func classifyError(err error) int {
	switch {
	case errors.Is(err, catalog.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTierNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTierInactive),
		errors.Is(err, ErrQuantityExceedsCap),
		errors.Is(err, ErrInsufficientInventory),
		errors.Is(err, ErrEventNotBookable),
		errors.Is(err, ErrCurrencyMismatch),
		errors.Is(err, ErrEmptyCart):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
