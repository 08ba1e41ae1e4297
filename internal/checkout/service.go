package checkout

import (
	"context"
	"fmt"
	"time"

	"eventhive/internal/catalog"
	"eventhive/internal/payments"
	"eventhive/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Committer settles a zero-price cart directly, skipping the gateway.
// Implemented by the bookings settlement service; declared here to avoid a
// circular dependency.
type Committer interface {
	CommitFreeBooking(ctx context.Context, session *Session) (*FreeBookingSummary, error)
}

// Service is the Order Service: it prices the cart server-side, opens the
// gateway order, and stashes the checkout session. Nothing is persisted to
// the database here - an abandoned checkout leaves no row behind.
type Service interface {
	OpenOrder(ctx context.Context, userID uuid.UUID, req OpenOrderRequest) (*OpenOrderResponse, error)
}

type service struct {
	catalog   catalog.Service
	gateway   payments.Gateway
	sessions  SessionStore
	committer Committer
	keyID     string
	log       *logger.Logger
}

// NewService creates a new checkout service instance
func NewService(catalogService catalog.Service, gateway payments.Gateway, sessions SessionStore, committer Committer, gatewayKeyID string) Service {
	return &service{
		catalog:   catalogService,
		gateway:   gateway,
		sessions:  sessions,
		committer: committer,
		keyID:     gatewayKeyID,
		log:       logger.GetDefault(),
	}
}

func (s *service) OpenOrder(ctx context.Context, userID uuid.UUID, req OpenOrderRequest) (*OpenOrderResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	event, err := s.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.Status.IsBookable() {
		return nil, ErrEventNotBookable
	}

	items, total, currency, err := s.validateCart(ctx, event, userID, req.Items)
	if err != nil {
		return nil, err
	}

	attendee := Attendee{
		Name:  req.Attendee.Name,
		Email: req.Attendee.Email,
		Phone: req.Attendee.Phone,
	}

	// Free tickets skip the gateway and the verifier entirely; they still go
	// through the same settlement transaction for inventory safety.
	if total.IsZero() {
		session := &Session{
			OrderID:   fmt.Sprintf("free_%s", uuid.New().String()),
			EventID:   eventID,
			UserID:    userID,
			Attendee:  attendee,
			Items:     items,
			Total:     total,
			Currency:  currency,
			CreatedAt: time.Now(),
		}

		summary, err := s.committer.CommitFreeBooking(ctx, session)
		if err != nil {
			return nil, err
		}

		return &OpenOrderResponse{
			Currency: currency,
			Booking:  summary,
		}, nil
	}

	// Receipt embeds event, buyer and timestamp for auditing and support
	// lookups - it is not a security control.
	receipt := fmt.Sprintf("receipt_%s_%s_%d", eventID, userID, time.Now().UnixMilli())

	order, err := s.gateway.CreateOrder(ctx, payments.CreateOrderRequest{
		Amount:   total,
		Currency: currency,
		Receipt:  receipt,
		Notes: map[string]string{
			"event_id":       eventID.String(),
			"user_id":        userID.String(),
			"attendee_name":  attendee.Name,
			"attendee_email": attendee.Email,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gateway order: %w", err)
	}

	session := &Session{
		OrderID:   order.OrderID,
		Receipt:   receipt,
		EventID:   eventID,
		UserID:    userID,
		Attendee:  attendee,
		Items:     items,
		Total:     total,
		Currency:  currency,
		CreatedAt: time.Now(),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.log.LogOrderOpened(ctx, order.OrderID, eventID.String(), userID.String(), total.String())

	return &OpenOrderResponse{
		OrderID:     order.OrderID,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
		Receipt:     receipt,
		KeyID:       s.keyID,
	}, nil
}

// validateCart re-fetches every tier and prices the cart from current
// catalog data. Client-supplied amounts are never trusted. The inventory
// check here is soft; the settlement transaction re-validates under lock.
func (s *service) validateCart(ctx context.Context, event *catalog.Event, userID uuid.UUID, reqItems []CartItemRequest) ([]CartItem, decimal.Decimal, string, error) {
	if len(reqItems) == 0 {
		return nil, decimal.Zero, "", ErrEmptyCart
	}

	// Merge duplicate tier entries so per-user caps apply to the summed
	// quantity.
	quantities := make(map[uuid.UUID]int, len(reqItems))
	order := make([]uuid.UUID, 0, len(reqItems))
	for _, item := range reqItems {
		tierID, err := uuid.Parse(item.TierID)
		if err != nil {
			return nil, decimal.Zero, "", fmt.Errorf("invalid tier ID %q: %w", item.TierID, err)
		}
		if _, seen := quantities[tierID]; !seen {
			order = append(order, tierID)
		}
		quantities[tierID] += item.Quantity
	}

	now := time.Now()
	total := decimal.Zero
	currency := ""
	items := make([]CartItem, 0, len(order))

	for _, tierID := range order {
		quantity := quantities[tierID]

		tier, err := s.catalog.GetTier(ctx, tierID)
		if err != nil {
			return nil, decimal.Zero, "", ErrTierNotFound
		}
		if tier.EventID != event.ID {
			return nil, decimal.Zero, "", ErrTierNotFound
		}
		if !tier.OnSaleAt(now) {
			return nil, decimal.Zero, "", fmt.Errorf("%w: %s", ErrTierInactive, tier.Name)
		}
		if tier.MaxPerUser > 0 && quantity > tier.MaxPerUser {
			return nil, decimal.Zero, "", fmt.Errorf("%w: %s allows at most %d", ErrQuantityExceedsCap, tier.Name, tier.MaxPerUser)
		}
		if quantity > tier.RemainingQuantity {
			return nil, decimal.Zero, "", fmt.Errorf("%w: %s has %d left", ErrInsufficientInventory, tier.Name, tier.RemainingQuantity)
		}

		if currency == "" {
			currency = tier.Currency
		} else if currency != tier.Currency {
			return nil, decimal.Zero, "", ErrCurrencyMismatch
		}

		total = total.Add(tier.Price.Mul(decimal.NewFromInt(int64(quantity))))
		items = append(items, CartItem{TierID: tierID, Quantity: quantity})
	}

	return items, total, currency, nil
}
