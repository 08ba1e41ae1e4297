package tickets

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) UpsertTickets(ctx context.Context, ticketRows []Ticket) error {
	args := m.Called(ctx, ticketRows)
	return args.Error(0)
}

func (m *mockRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Ticket), args.Error(1)
}

func (m *mockRepository) GetByVerificationToken(ctx context.Context, token string) (*Ticket, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Ticket), args.Error(1)
}

func sampleRequest() IssueRequest {
	return IssueRequest{
		BookingID:   uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		BookingUUID: uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		Attendee:    IssueAttendee{Name: "Asha Rao", Email: "asha@example.com"},
		Items: []IssueLineItem{
			{LineItemID: uuid.MustParse("99999999-8888-7777-6666-555555555555"), TierID: uuid.New(), Quantity: 2},
		},
	}
}

func TestTicketNumber(t *testing.T) {
	bookingID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	lineItemID := uuid.MustParse("99999999-8888-7777-6666-555555555555")

	number := TicketNumber(bookingID, lineItemID, 1)
	assert.Equal(t, "TKT-11111111-99999999-1", number)

	// Same inputs always derive the same number
	assert.Equal(t, number, TicketNumber(bookingID, lineItemID, 1))
	assert.NotEqual(t, number, TicketNumber(bookingID, lineItemID, 2))
}

func TestIssuer_IssueForBooking(t *testing.T) {
	repo := new(mockRepository)
	repo.On("UpsertTickets", mock.Anything, mock.AnythingOfType("[]tickets.Ticket")).Return(nil)

	iss := NewIssuer(repo, "verification-secret", "https://tickets.example.com/")
	req := sampleRequest()

	issued, err := iss.IssueForBooking(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, issued, 2)

	scanCodePattern := regexp.MustCompile(`^\d{12}$`)
	for i, ticket := range issued {
		assert.Equal(t, fmt.Sprintf("TKT-11111111-99999999-%d", i+1), ticket.TicketNumber)
		assert.Len(t, ticket.VerificationToken, 32)
		assert.Regexp(t, scanCodePattern, ticket.ScanCode)
		assert.Equal(t, "Asha Rao", ticket.AttendeeName)
	}

	// Each unit gets its own token and scan code
	assert.NotEqual(t, issued[0].VerificationToken, issued[1].VerificationToken)
	assert.NotEqual(t, issued[0].ScanCode, issued[1].ScanCode)

	repo.AssertExpectations(t)
}

func TestIssuer_DerivationIsStable(t *testing.T) {
	repo := new(mockRepository)
	repo.On("UpsertTickets", mock.Anything, mock.Anything).Return(nil)

	iss := NewIssuer(repo, "verification-secret", "https://tickets.example.com")
	req := sampleRequest()

	first, err := iss.IssueForBooking(context.Background(), req)
	require.NoError(t, err)
	second, err := iss.IssueForBooking(context.Background(), req)
	require.NoError(t, err)

	// A retry derives the identical set instead of minting new units
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].TicketNumber, second[i].TicketNumber)
		assert.Equal(t, first[i].VerificationToken, second[i].VerificationToken)
		assert.Equal(t, first[i].ScanCode, second[i].ScanCode)
	}
}

func TestIssuer_TokensDependOnSecret(t *testing.T) {
	repo := new(mockRepository)
	repo.On("UpsertTickets", mock.Anything, mock.Anything).Return(nil)

	req := sampleRequest()

	a, err := NewIssuer(repo, "secret-a", "https://tickets.example.com").IssueForBooking(context.Background(), req)
	require.NoError(t, err)
	b, err := NewIssuer(repo, "secret-b", "https://tickets.example.com").IssueForBooking(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, a[0].VerificationToken, b[0].VerificationToken)
}

func TestIssuer_VerificationURL(t *testing.T) {
	iss := NewIssuer(new(mockRepository), "secret", "https://tickets.example.com/")
	url := iss.VerificationURL("abc123")
	assert.Equal(t, "https://tickets.example.com/verify-ticket/abc123", url)
}

func TestIssuer_VerifyToken(t *testing.T) {
	t.Run("unknown token is invalid, not an error", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByVerificationToken", mock.Anything, "missing").Return(nil, ErrTicketNotFound)

		iss := NewIssuer(repo, "secret", "https://tickets.example.com")
		result, err := iss.VerifyToken(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, result.Valid)
	})

	t.Run("known token returns ticket details", func(t *testing.T) {
		repo := new(mockRepository)
		ticket := &Ticket{
			BookingID:    uuid.New(),
			TicketNumber: "TKT-11111111-99999999-1",
			AttendeeName: "Asha Rao",
		}
		repo.On("GetByVerificationToken", mock.Anything, "known").Return(ticket, nil)

		iss := NewIssuer(repo, "secret", "https://tickets.example.com")
		result, err := iss.VerifyToken(context.Background(), "known")
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, "TKT-11111111-99999999-1", result.TicketNumber)
		assert.Equal(t, "Asha Rao", result.AttendeeName)
	})
}
