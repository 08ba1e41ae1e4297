package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketNotification is the "send these tickets" contract handed to the
// dispatcher after settlement. Re-sending the same payload is harmless.
type TicketNotification struct {
	ID             uuid.UUID       `json:"id"`
	RecipientEmail string          `json:"recipient_email"`
	RecipientName  string          `json:"recipient_name"`
	BookingRef     string          `json:"booking_ref"`
	EventTitle     string          `json:"event_title"`
	Venue          string          `json:"venue"`
	StartDate      time.Time       `json:"start_date"`
	Tickets        []TicketPayload `json:"tickets"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TicketPayload is one ticket inside a notification
type TicketPayload struct {
	TicketNumber    string `json:"ticket_number"`
	VerificationURL string `json:"verification_url"`
	ScanCode        string `json:"scan_code"`
	AttendeeName    string `json:"attendee_name"`
}

// ReconciliationEvent records a captured payment that could not be settled
// (oversold race). Consumed by ops tooling to initiate refunds.
type ReconciliationEvent struct {
	ID               uuid.UUID       `json:"id"`
	GatewayOrderID   string          `json:"gateway_order_id"`
	GatewayPaymentID string          `json:"gateway_payment_id"`
	EventID          uuid.UUID       `json:"event_id"`
	UserID           uuid.UUID       `json:"user_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Reason           string          `json:"reason"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// ToJSON serializes the notification for the wire
func (n *TicketNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// FromJSON deserializes a notification from the wire
func FromJSON(data []byte) (*TicketNotification, error) {
	var n TicketNotification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetPartitionKey routes all of a recipient's notifications to one
// partition so delivery order is stable per buyer.
func (n *TicketNotification) GetPartitionKey() string {
	return n.RecipientEmail
}
