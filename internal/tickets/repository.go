package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrTicketNotFound = errors.New("ticket not found")

type Repository interface {
	// UpsertTickets inserts the derived ticket set, skipping rows whose
	// ticket number already exists. Re-issuing a booking's tickets is a
	// no-op for already-persisted units.
	UpsertTickets(ctx context.Context, ticketRows []Ticket) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error)
	GetByVerificationToken(ctx context.Context, token string) (*Ticket, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertTickets(ctx context.Context, ticketRows []Ticket) error {
	if len(ticketRows) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticket_number"}},
			DoNothing: true,
		}).
		Create(&ticketRows).Error
	if err != nil {
		return fmt.Errorf("failed to persist tickets: %w", err)
	}
	return nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	var ticketRows []Ticket
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("ticket_number ASC").
		Find(&ticketRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return ticketRows, nil
}

func (r *repository) GetByVerificationToken(ctx context.Context, token string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to look up ticket: %w", err)
	}
	return &ticket, nil
}
