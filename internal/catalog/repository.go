package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrTierNotFound  = errors.New("ticket tier not found")
)

type Repository interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetEventWithTiers(ctx context.Context, id uuid.UUID) (*Event, error)
	ListPublishedEvents(ctx context.Context, page, limit int) ([]Event, int64, error)
	GetTierByID(ctx context.Context, id uuid.UUID) (*TicketTier, error)
	GetTiersByEventID(ctx context.Context, eventID uuid.UUID) ([]TicketTier, error)

	// GetTierForUpdate reads a tier inside the given transaction holding a
	// row lock until the transaction ends. Only the booking settlement
	// transaction may use this to decrement remaining quantity.
	GetTierForUpdate(tx *gorm.DB, id uuid.UUID) (*TicketTier, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEventByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *repository) GetEventWithTiers(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("TicketTiers").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event with tiers: %w", err)
	}
	return &event, nil
}

func (r *repository) ListPublishedEvents(ctx context.Context, page, limit int) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("status = ?", EventStatusPublished)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := baseQuery.
		Preload("TicketTiers").
		Order("start_date ASC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) GetTierByID(ctx context.Context, id uuid.UUID) (*TicketTier, error) {
	var tier TicketTier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("failed to get ticket tier: %w", err)
	}
	return &tier, nil
}

func (r *repository) GetTiersByEventID(ctx context.Context, eventID uuid.UUID) ([]TicketTier, error) {
	var tiers []TicketTier
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("price ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket tiers: %w", err)
	}
	return tiers, nil
}

func (r *repository) GetTierForUpdate(tx *gorm.DB, id uuid.UUID) (*TicketTier, error) {
	var tier TicketTier
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&tier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("failed to lock ticket tier: %w", err)
	}
	return &tier, nil
}
