package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one validated (tier, quantity) pair. The cart is validated
// once at the order boundary and carried as an immutable value through the
// rest of the pipeline.
type CartItem struct {
	TierID   uuid.UUID `json:"tier_id"`
	Quantity int       `json:"quantity"`
}

// Attendee is the contact snapshot captured at purchase time. It is copied
// onto the booking and every ticket rather than referencing the live user
// profile.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Session is the priced cart stashed in Redis between order-open and the
// gateway callback, keyed by the gateway order id. It holds no inventory;
// its TTL bounds how long callbacks for the order are accepted.
type Session struct {
	OrderID   string          `json:"order_id"`
	Receipt   string          `json:"receipt"`
	EventID   uuid.UUID       `json:"event_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Attendee  Attendee        `json:"attendee"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// OpenOrderRequest is the checkout request body
type OpenOrderRequest struct {
	EventID  string            `json:"event_id" binding:"required,uuid"`
	Attendee AttendeeRequest   `json:"attendee" binding:"required"`
	Items    []CartItemRequest `json:"items" binding:"required,min=1,dive"`
}

type AttendeeRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=255"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,min=7,max=20"`
}

type CartItemRequest struct {
	TierID   string `json:"tier_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// OpenOrderResponse is returned after a gateway order is opened. For a free
// cart no gateway order exists and Booking carries the settled result.
type OpenOrderResponse struct {
	OrderID     string              `json:"order_id,omitempty"`
	AmountMinor int64               `json:"amount,omitempty"`
	Currency    string              `json:"currency"`
	Receipt     string              `json:"receipt,omitempty"`
	KeyID       string              `json:"key_id,omitempty"`
	Booking     *FreeBookingSummary `json:"booking,omitempty"`
}

// FreeBookingSummary is the settled result of a zero-price cart
type FreeBookingSummary struct {
	BookingID  string `json:"booking_id"`
	BookingRef string `json:"booking_ref"`
	Status     string `json:"status"`
}
