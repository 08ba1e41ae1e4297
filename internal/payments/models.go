package payments

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentRecord is one settled payment attempt, linked 1:1 to a booking.
// The composite unique index on the two gateway identifiers is what turns a
// redelivered callback into a constraint violation instead of a second
// booking.
type PaymentRecord struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"booking_id"`
	UserID           uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	Gateway          string          `gorm:"type:varchar(20);default:'RAZORPAY'" json:"gateway"`
	GatewayOrderID   string          `gorm:"type:varchar(64);uniqueIndex:idx_gateway_order_payment;not null" json:"gateway_order_id"`
	GatewayPaymentID string          `gorm:"type:varchar(64);uniqueIndex:idx_gateway_order_payment;not null" json:"gateway_payment_id"`
	GatewaySignature string          `gorm:"type:varchar(128)" json:"-"`
	Amount           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency         string          `gorm:"type:varchar(3);default:'INR'" json:"currency"`
	Status           PaymentStatus   `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	Method           string          `gorm:"type:varchar(50);default:'ONLINE'" json:"method"`
	GatewayResponse  json.RawMessage `gorm:"type:jsonb" json:"-"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}

func (p *PaymentRecord) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

// CallbackPayload is the gateway's callback as delivered to the webhook.
// Field names follow the Razorpay checkout callback contract.
type CallbackPayload struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required,gatewaysig"`
}
