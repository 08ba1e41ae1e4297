package tickets

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is one admission unit minted for a settled booking. Tickets are
// derived deterministically from the booking's line items, so re-issuance
// always reproduces the same set.
type Ticket struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID         uuid.UUID `gorm:"type:uuid;index;not null" json:"booking_id"`
	LineItemID        uuid.UUID `gorm:"type:uuid;index;not null" json:"line_item_id"`
	TierID            uuid.UUID `gorm:"type:uuid;not null" json:"tier_id"`
	TicketNumber      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"ticket_number"`
	VerificationToken string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"verification_token"`
	ScanCode          string    `gorm:"type:varchar(16);not null" json:"scan_code"`
	AttendeeName      string    `gorm:"size:255" json:"attendee_name"`
	AttendeeEmail     string    `gorm:"size:255" json:"attendee_email"`
	AttendeePhone     string    `gorm:"size:20" json:"attendee_phone"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// IssueRequest carries everything the issuer needs from a just-committed
// booking. Declared here so the bookings package depends on tickets, not
// the other way around.
type IssueRequest struct {
	BookingID   uuid.UUID
	BookingUUID uuid.UUID
	Attendee    IssueAttendee
	Items       []IssueLineItem
}

type IssueAttendee struct {
	Name  string
	Email string
	Phone string
}

type IssueLineItem struct {
	LineItemID uuid.UUID
	TierID     uuid.UUID
	Quantity   int
}

// VerificationResult is returned to door staff scanning a ticket
type VerificationResult struct {
	Valid         bool      `json:"valid"`
	TicketNumber  string    `json:"ticket_number,omitempty"`
	BookingID     string    `json:"booking_id,omitempty"`
	AttendeeName  string    `json:"attendee_name,omitempty"`
	AttendeeEmail string    `json:"attendee_email,omitempty"`
	IssuedAt      time.Time `json:"issued_at,omitempty"`
}
