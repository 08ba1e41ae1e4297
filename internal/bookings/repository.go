package bookings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"eventhive/internal/catalog"
	"eventhive/internal/checkout"
	"eventhive/internal/payments"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	// CommitBooking runs the settlement transaction: re-validate and
	// decrement inventory under row locks, then persist the booking, its
	// line items and the payment record atomically. Returns
	// ErrOversoldAttempt when a tier no longer covers the cart and
	// payments.ErrDuplicateCallback when the gateway pair was already
	// settled. On either the transaction rolls back completely.
	CommitBooking(ctx context.Context, booking *Booking, payment *payments.PaymentRecord, items []checkout.CartItem) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Booking, error)
	GetByRef(ctx context.Context, ref string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error)
}

type repository struct {
	db      *gorm.DB
	catalog catalog.Repository
}

func NewRepository(db *gorm.DB, catalogRepo catalog.Repository) Repository {
	return &repository{db: db, catalog: catalogRepo}
}

func (r *repository) CommitBooking(ctx context.Context, booking *Booking, payment *payments.PaymentRecord, items []checkout.CartItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Cheap duplicate check before taking any locks. The composite
		// unique index below still backstops the race where two
		// redeliveries pass this check concurrently.
		var count int64
		err := tx.Model(&payments.PaymentRecord{}).
			Where("gateway_order_id = ? AND gateway_payment_id = ?", payment.GatewayOrderID, payment.GatewayPaymentID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check for duplicate payment: %w", err)
		}
		if count > 0 {
			return payments.ErrDuplicateCallback
		}

		// Lock tiers in a deterministic order so two settlements touching
		// the same tiers cannot deadlock each other.
		sorted := make([]checkout.CartItem, len(items))
		copy(sorted, items)
		sort.Slice(sorted, func(a, b int) bool {
			return bytes.Compare(sorted[a].TierID[:], sorted[b].TierID[:]) < 0
		})

		subtotal := decimal.Zero
		lineItems := make([]BookingLineItem, 0, len(sorted))
		for _, item := range sorted {
			tier, err := r.catalog.GetTierForUpdate(tx, item.TierID)
			if err != nil {
				return err
			}
			if tier.EventID != booking.EventID {
				return catalog.ErrTierNotFound
			}

			// The authoritative inventory check. The payment is already
			// captured at this point; losing here means a refund, not a
			// retry.
			if tier.RemainingQuantity < item.Quantity {
				return ErrOversoldAttempt
			}

			err = tx.Model(&catalog.TicketTier{}).
				Where("id = ?", tier.ID).
				UpdateColumn("remaining_quantity", gorm.Expr("remaining_quantity - ?", item.Quantity)).Error
			if err != nil {
				return fmt.Errorf("failed to decrement tier inventory: %w", err)
			}

			// Unit price frozen from the locked read, not from the cart
			total := tier.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			lineItems = append(lineItems, BookingLineItem{
				ID:         uuid.New(),
				TierID:     tier.ID,
				TierName:   tier.Name,
				Quantity:   item.Quantity,
				UnitPrice:  tier.Price,
				TotalPrice: total,
			})
			subtotal = subtotal.Add(total)
		}

		if booking.ID == uuid.Nil {
			booking.ID = uuid.New()
		}
		booking.Subtotal = subtotal
		booking.FinalAmount = subtotal.Sub(booking.Discount)
		booking.Status = StatusConfirmed

		if err := tx.Omit("LineItems", "Payment").Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		for i := range lineItems {
			lineItems[i].BookingID = booking.ID
		}
		if err := tx.Create(&lineItems).Error; err != nil {
			return fmt.Errorf("failed to create booking line items: %w", err)
		}
		booking.LineItems = lineItems

		payment.ID = uuid.New()
		payment.BookingID = booking.ID
		if err := tx.Create(payment).Error; err != nil {
			if isDuplicateKey(err) {
				return payments.ErrDuplicateCallback
			}
			return fmt.Errorf("failed to create payment record: %w", err)
		}
		booking.Payment = payment

		return nil
	})
}

// isDuplicateKey detects a unique constraint violation on insert
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "SQLSTATE 23505")
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *repository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Booking, error) {
	return r.getOne(ctx, "public_id = ?", publicID)
}

func (r *repository) GetByRef(ctx context.Context, ref string) (*Booking, error) {
	return r.getOne(ctx, "booking_ref = ?", ref)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Payment").
		Where(query, arg).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	var bookingRows []Booking
	var totalCount int64

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Preload("LineItems").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookingRows).Error

	return bookingRows, totalCount, err
}
