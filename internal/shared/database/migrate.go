package database

import (
	"fmt"

	"eventhive/internal/bookings"
	"eventhive/internal/catalog"
	"eventhive/internal/payments"
	"eventhive/internal/tickets"
	"eventhive/internal/users"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all models. Constraints the
// pipeline depends on (composite uniqueness on gateway ids, non-negative
// inventory) come from the model tags; extra guard rails are added below.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	err := db.AutoMigrate(
		&users.User{},
		&catalog.Event{},
		&catalog.TicketTier{},
		&bookings.Booking{},
		&bookings.BookingLineItem{},
		&payments.PaymentRecord{},
		&tickets.Ticket{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Inventory can never exceed what was put on sale
	err = db.Exec(`
		ALTER TABLE ticket_tiers
		DROP CONSTRAINT IF EXISTS chk_remaining_within_total;
		ALTER TABLE ticket_tiers
		ADD CONSTRAINT chk_remaining_within_total
		CHECK (remaining_quantity <= total_quantity)
	`).Error
	if err != nil {
		return fmt.Errorf("failed to add inventory constraint: %w", err)
	}

	return nil
}
