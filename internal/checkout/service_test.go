package checkout

import (
	"context"
	"testing"

	"eventhive/internal/catalog"
	"eventhive/internal/payments"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) GetEvent(ctx context.Context, eventID uuid.UUID) (*catalog.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Event), args.Error(1)
}

func (m *mockCatalogService) ListEvents(ctx context.Context, page, limit int) ([]catalog.EventResponse, int64, error) {
	args := m.Called(ctx, page, limit)
	return nil, 0, args.Error(2)
}

func (m *mockCatalogService) GetTier(ctx context.Context, tierID uuid.UUID) (*catalog.TicketTier, error) {
	args := m.Called(ctx, tierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.TicketTier), args.Error(1)
}

func (m *mockCatalogService) GetEventTiers(ctx context.Context, eventID uuid.UUID) ([]catalog.TicketTier, error) {
	args := m.Called(ctx, eventID)
	return nil, args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, req payments.CreateOrderRequest) (*payments.GatewayOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.GatewayOrder), args.Error(1)
}

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Save(ctx context.Context, session *Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionStore) Get(ctx context.Context, orderID string) (*Session, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *mockSessionStore) Delete(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type mockCommitter struct {
	mock.Mock
}

func (m *mockCommitter) CommitFreeBooking(ctx context.Context, session *Session) (*FreeBookingSummary, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FreeBookingSummary), args.Error(1)
}

type checkoutFixture struct {
	catalog   *mockCatalogService
	gateway   *mockGateway
	sessions  *mockSessionStore
	committer *mockCommitter
	service   Service

	event   *catalog.Event
	general catalog.TicketTier
	vip     catalog.TicketTier
	userID  uuid.UUID
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		catalog:   new(mockCatalogService),
		gateway:   new(mockGateway),
		sessions:  new(mockSessionStore),
		committer: new(mockCommitter),
		userID:    uuid.New(),
	}
	f.service = NewService(f.catalog, f.gateway, f.sessions, f.committer, "rzp_test_key")

	eventID := uuid.New()
	f.general = catalog.TicketTier{
		ID:                uuid.New(),
		EventID:           eventID,
		Name:              "General",
		Price:             decimal.NewFromInt(499),
		Currency:          "INR",
		TotalQuantity:     500,
		RemainingQuantity: 100,
		MaxPerUser:        6,
		IsActive:          true,
	}
	f.vip = catalog.TicketTier{
		ID:                uuid.New(),
		EventID:           eventID,
		Name:              "VIP",
		Price:             decimal.NewFromInt(1499),
		Currency:          "INR",
		TotalQuantity:     100,
		RemainingQuantity: 10,
		MaxPerUser:        4,
		IsActive:          true,
	}
	f.event = &catalog.Event{
		ID:     eventID,
		Title:  "Bangalore Indie Music Night",
		Status: catalog.EventStatusPublished,
	}
	return f
}

func (f *checkoutFixture) request(items ...CartItemRequest) OpenOrderRequest {
	return OpenOrderRequest{
		EventID:  f.event.ID.String(),
		Attendee: AttendeeRequest{Name: "Asha Rao", Email: "asha@example.com"},
		Items:    items,
	}
}

func TestOpenOrder_PaidCart(t *testing.T) {
	f := newCheckoutFixture()
	f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)
	f.catalog.On("GetTier", mock.Anything, f.general.ID).Return(&f.general, nil)
	f.catalog.On("GetTier", mock.Anything, f.vip.ID).Return(&f.vip, nil)

	// 2 x 499 + 1 x 1499, priced server-side
	expectedTotal := decimal.NewFromInt(2497)
	f.gateway.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req payments.CreateOrderRequest) bool {
		return req.Amount.Equal(expectedTotal) && req.Currency == "INR"
	})).Return(&payments.GatewayOrder{
		OrderID:     "order_abc123",
		AmountMinor: 249700,
		Currency:    "INR",
	}, nil)
	f.sessions.On("Save", mock.Anything, mock.AnythingOfType("*checkout.Session")).Return(nil)

	resp, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
		CartItemRequest{TierID: f.general.ID.String(), Quantity: 2},
		CartItemRequest{TierID: f.vip.ID.String(), Quantity: 1},
	))

	require.NoError(t, err)
	assert.Equal(t, "order_abc123", resp.OrderID)
	assert.Equal(t, int64(249700), resp.AmountMinor)
	assert.Equal(t, "rzp_test_key", resp.KeyID)
	assert.Nil(t, resp.Booking)

	// The session stashed for the callback carries the priced cart
	savedSession := f.sessions.Calls[0].Arguments.Get(1).(*Session)
	assert.Equal(t, "order_abc123", savedSession.OrderID)
	assert.Equal(t, f.userID, savedSession.UserID)
	assert.True(t, savedSession.Total.Equal(expectedTotal))
	assert.Len(t, savedSession.Items, 2)

	f.gateway.AssertExpectations(t)
	f.sessions.AssertExpectations(t)
}

func TestOpenOrder_FreeCartSkipsGateway(t *testing.T) {
	f := newCheckoutFixture()
	free := f.general
	free.ID = uuid.New()
	free.Name = "Community Pass"
	free.Price = decimal.Zero

	f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)
	f.catalog.On("GetTier", mock.Anything, free.ID).Return(&free, nil)
	f.committer.On("CommitFreeBooking", mock.Anything, mock.AnythingOfType("*checkout.Session")).
		Return(&FreeBookingSummary{BookingID: "b-1", BookingRef: "EVT-ABC-1", Status: "CONFIRMED"}, nil)

	resp, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
		CartItemRequest{TierID: free.ID.String(), Quantity: 2},
	))

	require.NoError(t, err)
	require.NotNil(t, resp.Booking)
	assert.Equal(t, "EVT-ABC-1", resp.Booking.BookingRef)
	assert.Empty(t, resp.OrderID)

	f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	f.sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.committer.AssertExpectations(t)
}

func TestOpenOrder_ValidationFailures(t *testing.T) {
	t.Run("event not bookable", func(t *testing.T) {
		f := newCheckoutFixture()
		f.event.Status = catalog.EventStatusDraft
		f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)

		_, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
			CartItemRequest{TierID: f.general.ID.String(), Quantity: 1},
		))
		assert.ErrorIs(t, err, ErrEventNotBookable)
	})

	t.Run("unknown tier", func(t *testing.T) {
		f := newCheckoutFixture()
		unknownID := uuid.New()
		f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)
		f.catalog.On("GetTier", mock.Anything, unknownID).Return(nil, catalog.ErrTierNotFound)

		_, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
			CartItemRequest{TierID: unknownID.String(), Quantity: 1},
		))
		assert.ErrorIs(t, err, ErrTierNotFound)
	})

	t.Run("tier from another event", func(t *testing.T) {
		f := newCheckoutFixture()
		foreign := f.general
		foreign.ID = uuid.New()
		foreign.EventID = uuid.New()
		f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)
		f.catalog.On("GetTier", mock.Anything, foreign.ID).Return(&foreign, nil)

		_, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
			CartItemRequest{TierID: foreign.ID.String(), Quantity: 1},
		))
		assert.ErrorIs(t, err, ErrTierNotFound)
	})

	t.Run("inactive tier", func(t *testing.T) {
		f := newCheckoutFixture()
		f.general.IsActive = false
		f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)
		f.catalog.On("GetTier", mock.Anything, f.general.ID).Return(&f.general, nil)

		_, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
			CartItemRequest{TierID: f.general.ID.String(), Quantity: 1},
		))
		assert.ErrorIs(t, err, ErrTierInactive)
	})

	t.Run("quantity over per-user cap", func(t *testing.T) {
		f := newCheckoutFixture()
		f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)
		f.catalog.On("GetTier", mock.Anything, f.general.ID).Return(&f.general, nil)

		_, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
			CartItemRequest{TierID: f.general.ID.String(), Quantity: 7},
		))
		assert.ErrorIs(t, err, ErrQuantityExceedsCap)
	})

	t.Run("duplicate lines are merged before the cap check", func(t *testing.T) {
		f := newCheckoutFixture()
		f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)
		f.catalog.On("GetTier", mock.Anything, f.general.ID).Return(&f.general, nil)

		// 4 + 3 = 7 exceeds the cap of 6 even though each line is fine
		_, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
			CartItemRequest{TierID: f.general.ID.String(), Quantity: 4},
			CartItemRequest{TierID: f.general.ID.String(), Quantity: 3},
		))
		assert.ErrorIs(t, err, ErrQuantityExceedsCap)
	})

	t.Run("insufficient inventory", func(t *testing.T) {
		f := newCheckoutFixture()
		f.vip.RemainingQuantity = 2
		f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)
		f.catalog.On("GetTier", mock.Anything, f.vip.ID).Return(&f.vip, nil)

		_, err := f.service.OpenOrder(context.Background(), f.userID, f.request(
			CartItemRequest{TierID: f.vip.ID.String(), Quantity: 3},
		))
		assert.ErrorIs(t, err, ErrInsufficientInventory)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newCheckoutFixture()
		f.catalog.On("GetEvent", mock.Anything, f.event.ID).Return(f.event, nil)

		_, err := f.service.OpenOrder(context.Background(), f.userID, f.request())
		assert.ErrorIs(t, err, ErrEmptyCart)
	})
}
