package bookings

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementResponse is returned to the buyer after a verified callback is
// committed. Tickets may be empty when issuance failed; the booking itself
// is still final.
type SettlementResponse struct {
	BookingID     string          `json:"booking_id"`
	BookingRef    string          `json:"booking_ref"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Tickets       []TicketSummary `json:"tickets"`
}

// TicketSummary is the buyer-facing view of one issued ticket
type TicketSummary struct {
	TicketNumber    string `json:"ticket_number"`
	VerificationURL string `json:"verification_url"`
	ScanCode        string `json:"scan_code"`
	AttendeeName    string `json:"attendee_name"`
}

// BookingResponse is the read shape for booking lookups
type BookingResponse struct {
	ID            string             `json:"id"`
	BookingRef    string             `json:"booking_ref"`
	EventID       string             `json:"event_id"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"payment_status"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	FinalAmount   decimal.Decimal    `json:"final_amount"`
	Currency      string             `json:"currency"`
	AttendeeName  string             `json:"attendee_name"`
	AttendeeEmail string             `json:"attendee_email"`
	LineItems     []LineItemResponse `json:"line_items"`
	CreatedAt     time.Time          `json:"created_at"`
}

// LineItemResponse is the read shape for one booking line item
type LineItemResponse struct {
	ID         string          `json:"id"`
	TierID     string          `json:"tier_id"`
	TierName   string          `json:"tier_name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// ToResponse converts a booking (with preloaded line items) to its read shape
func (b *Booking) ToResponse() BookingResponse {
	items := make([]LineItemResponse, 0, len(b.LineItems))
	for i := range b.LineItems {
		item := &b.LineItems[i]
		items = append(items, LineItemResponse{
			ID:         item.ID.String(),
			TierID:     item.TierID.String(),
			TierName:   item.TierName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}

	return BookingResponse{
		ID:            b.ID.String(),
		BookingRef:    b.BookingRef,
		EventID:       b.EventID.String(),
		Status:        b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
		Subtotal:      b.Subtotal,
		Discount:      b.Discount,
		FinalAmount:   b.FinalAmount,
		Currency:      b.Currency,
		AttendeeName:  b.AttendeeName,
		AttendeeEmail: b.AttendeeEmail,
		LineItems:     items,
		CreatedAt:     b.CreatedAt,
	}
}
