package bookings

import "errors"

var (
	// ErrOversoldAttempt means the payment was captured at the gateway but a
	// faster concurrent buyer exhausted the tier inside the settlement
	// transaction. No booking exists; the captured amount must be refunded
	// via reconciliation.
	ErrOversoldAttempt = errors.New("inventory exhausted after payment capture")

	ErrBookingNotFound = errors.New("booking not found")
)
