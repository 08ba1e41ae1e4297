package bookings

import (
	"time"

	"eventhive/internal/payments"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is the durable record of a settled purchase. It is only ever
// created inside the settlement transaction, together with its line items
// and payment record; a Booking row therefore always has paid-for,
// decremented inventory behind it.
type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PublicID   uuid.UUID `json:"publicId" gorm:"type:uuid;uniqueIndex;not null"`
	BookingRef string    `json:"bookingRef" gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID     uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	EventID    uuid.UUID `json:"eventId" gorm:"type:uuid;index;not null"`

	Subtotal    decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	Discount    decimal.Decimal `json:"discount" gorm:"type:numeric(12,2);not null;default:0"`
	FinalAmount decimal.Decimal `json:"finalAmount" gorm:"type:numeric(12,2);not null"`
	Currency    string          `json:"currency" gorm:"type:varchar(3);not null;default:'INR'"`

	Status        Status                 `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaymentStatus payments.PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'PENDING'"`

	// Attendee snapshot taken at checkout time; later profile edits must
	// not rewrite history on issued tickets.
	AttendeeName  string `json:"attendeeName" gorm:"type:varchar(255);not null"`
	AttendeeEmail string `json:"attendeeEmail" gorm:"type:varchar(255);not null"`
	AttendeePhone string `json:"attendeePhone" gorm:"type:varchar(32)"`

	LineItems []BookingLineItem       `json:"lineItems,omitempty" gorm:"foreignKey:BookingID"`
	Payment   *payments.PaymentRecord `json:"payment,omitempty" gorm:"foreignKey:BookingID"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BookingLineItem freezes the unit price read under the inventory row lock.
// The stored price can legitimately differ from the live tier price later.
type BookingLineItem struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	BookingID  uuid.UUID       `json:"bookingId" gorm:"type:uuid;index;not null"`
	TierID     uuid.UUID       `json:"tierId" gorm:"type:uuid;not null"`
	TierName   string          `json:"tierName" gorm:"type:varchar(100);not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unitPrice" gorm:"type:numeric(12,2);not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:numeric(12,2);not null"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (BookingLineItem) TableName() string {
	return "booking_line_items"
}

// TotalQuantity returns the number of tickets across all line items
func (b *Booking) TotalQuantity() int {
	total := 0
	for _, item := range b.LineItems {
		total += item.Quantity
	}
	return total
}
