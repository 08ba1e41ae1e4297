package bookings

import (
	"errors"
	"net/http"
	"strconv"

	"eventhive/internal/payments"
	"eventhive/internal/shared/middleware"
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

// VerifyPayment handles POST /api/v1/payments/verify. This is the gateway
// callback endpoint: the client posts the checkout result here and the
// whole settlement pipeline runs behind it.
func (c *Controller) VerifyPayment(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	var callback payments.CallbackPayload
	if err := ctx.ShouldBindJSON(&callback); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid callback payload", err.Error())
		return
	}

	resp, err := c.service.SettleCallback(ctx.Request.Context(), userID, callback, ctx.ClientIP())
	if err != nil {
		status, message := classifySettlementError(err)
		response.Error(ctx, status, message, err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking confirmed", resp)
}

// classifySettlementError maps the settlement error taxonomy onto HTTP.
// Verification failures and stale orders are the caller's problem; a
// duplicate callback is a conflict; an oversold attempt is reported as
// unprocessable with refund guidance since the money already moved.
func classifySettlementError(err error) (int, string) {
	switch {
	case errors.Is(err, payments.ErrVerificationFailed):
		return http.StatusBadRequest, "Payment verification failed"
	case errors.Is(err, payments.ErrStaleOrder):
		return http.StatusGone, "Order is unknown or has expired"
	case errors.Is(err, payments.ErrDuplicateCallback):
		return http.StatusConflict, "Payment was already processed"
	case errors.Is(err, ErrOversoldAttempt):
		return http.StatusUnprocessableEntity, "Tickets sold out during payment; a refund will be initiated"
	default:
		return http.StatusInternalServerError, "Failed to process payment"
	}
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	isAdmin := middleware.CurrentUserRole(ctx) == "ADMIN"
	booking, err := c.service.GetBooking(ctx.Request.Context(), userID, isAdmin, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get booking", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// GetBookingByRef handles GET /api/v1/bookings/ref/:ref
func (c *Controller) GetBookingByRef(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	ref := ctx.Param("ref")
	isAdmin := middleware.CurrentUserRole(ctx) == "ADMIN"
	booking, err := c.service.GetBookingByRef(ctx.Request.Context(), userID, isAdmin, ref)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get booking", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// GetUserBookings handles GET /api/v1/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	bookingRows, total, err := c.service.GetUserBookings(ctx.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list bookings", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings": bookingRows,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// ResendTickets handles POST /api/v1/bookings/:id/resend-tickets
func (c *Controller) ResendTickets(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	isAdmin := middleware.CurrentUserRole(ctx) == "ADMIN"
	count, err := c.service.ResendTickets(ctx.Request.Context(), userID, isAdmin, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to resend tickets", err.Error())
		return
	}

	response.Success(ctx, http.StatusOK, "Tickets queued for delivery", gin.H{"tickets": count})
}
