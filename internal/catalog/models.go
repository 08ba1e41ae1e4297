package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string      `json:"title" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Venue       string      `json:"venue" gorm:"not null;size:255"`
	StartDate   time.Time   `json:"start_date" gorm:"not null"`
	EndDate     time.Time   `json:"end_date"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
	ImageURL    string      `json:"image_url" gorm:"size:500"`

	TicketTiers []TicketTier `json:"ticket_tiers,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TicketTier is a purchasable ticket category for one event.
// RemainingQuantity is written only by the booking settlement transaction;
// TotalQuantity is immutable once sales start.
type TicketTier struct {
	ID                uuid.UUID       `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID           uuid.UUID       `json:"event_id" gorm:"type:uuid;index;not null"`
	Name              string          `json:"name" gorm:"not null;size:100"`
	Price             decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Currency          string          `json:"currency" gorm:"type:varchar(3);default:'INR'"`
	TotalQuantity     int             `json:"total_quantity" gorm:"not null;check:total_quantity > 0"`
	RemainingQuantity int             `json:"remaining_quantity" gorm:"not null;check:remaining_quantity >= 0"`
	MaxPerUser        int             `json:"max_per_user" gorm:"default:10"`
	IsActive          bool            `json:"is_active" gorm:"default:true"`
	SaleStart         time.Time       `json:"sale_start"`
	SaleEnd           time.Time       `json:"sale_end"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (TicketTier) TableName() string {
	return "ticket_tiers"
}

// OnSaleAt reports whether the tier can be sold at the given instant.
func (t *TicketTier) OnSaleAt(now time.Time) bool {
	if !t.IsActive {
		return false
	}
	if !t.SaleStart.IsZero() && now.Before(t.SaleStart) {
		return false
	}
	if !t.SaleEnd.IsZero() && now.After(t.SaleEnd) {
		return false
	}
	return true
}

// IsFree reports whether the tier has a zero price
func (t *TicketTier) IsFree() bool {
	return t.Price.IsZero()
}

// EventResponse is the public read shape for an event
type EventResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Venue       string         `json:"venue"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	Status      EventStatus    `json:"status"`
	ImageURL    string         `json:"image_url"`
	TicketTiers []TierResponse `json:"ticket_tiers"`
}

// TierResponse is the public read shape for a ticket tier
type TierResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Currency          string          `json:"currency"`
	RemainingQuantity int             `json:"remaining_quantity"`
	MaxPerUser        int             `json:"max_per_user"`
	OnSale            bool            `json:"on_sale"`
}

// ToResponse converts an Event (with preloaded tiers) to its public shape
func (e *Event) ToResponse() EventResponse {
	now := time.Now()
	tiers := make([]TierResponse, 0, len(e.TicketTiers))
	for i := range e.TicketTiers {
		t := &e.TicketTiers[i]
		tiers = append(tiers, TierResponse{
			ID:                t.ID.String(),
			Name:              t.Name,
			Price:             t.Price,
			Currency:          t.Currency,
			RemainingQuantity: t.RemainingQuantity,
			MaxPerUser:        t.MaxPerUser,
			OnSale:            t.OnSaleAt(now),
		})
	}

	return EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Status:      e.Status,
		ImageURL:    e.ImageURL,
		TicketTiers: tiers,
	}
}
