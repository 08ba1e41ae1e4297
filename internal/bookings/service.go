package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhive/internal/catalog"
	"eventhive/internal/checkout"
	"eventhive/internal/notifications"
	"eventhive/internal/payments"
	"eventhive/internal/tickets"
	"eventhive/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const notifyTimeout = 10 * time.Second

type Service interface {
	// SettleCallback processes a gateway payment callback end to end:
	// session lookup, signature verification, the settlement transaction,
	// then ticket issuance and notification dispatch. Everything after the
	// transaction is best effort and never fails the settlement.
	SettleCallback(ctx context.Context, userID uuid.UUID, callback payments.CallbackPayload, clientIP string) (*SettlementResponse, error)

	// CommitFreeBooking settles a zero-price cart through the same
	// transaction, skipping the gateway entirely. Implements
	// checkout.Committer.
	CommitFreeBooking(ctx context.Context, session *checkout.Session) (*checkout.FreeBookingSummary, error)

	GetBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*BookingResponse, error)
	GetBookingByRef(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]BookingResponse, int64, error)
	ResendTickets(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (int, error)
}

type service struct {
	repo     Repository
	catalog  catalog.Repository
	sessions checkout.SessionStore
	verifier *payments.Verifier
	issuer   tickets.Issuer
	producer notifications.Producer
	log      *logger.Logger
}

func NewService(
	repo Repository,
	catalogRepo catalog.Repository,
	sessions checkout.SessionStore,
	verifier *payments.Verifier,
	issuer tickets.Issuer,
	producer notifications.Producer,
) Service {
	return &service{
		repo:     repo,
		catalog:  catalogRepo,
		sessions: sessions,
		verifier: verifier,
		issuer:   issuer,
		producer: producer,
		log:      logger.GetDefault(),
	}
}

func (s *service) SettleCallback(ctx context.Context, userID uuid.UUID, callback payments.CallbackPayload, clientIP string) (*SettlementResponse, error) {
	session, err := s.sessions.Get(ctx, callback.OrderID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		// The callback is signed for somebody else's order
		return nil, payments.ErrStaleOrder
	}

	if err := s.verifier.Verify(callback.OrderID, callback.PaymentID, callback.Signature); err != nil {
		s.log.LogPaymentVerificationFailed(ctx, callback.OrderID, callback.PaymentID, clientIP)
		return nil, err
	}
	s.log.LogPaymentVerified(ctx, callback.OrderID, callback.PaymentID)

	booking := newBookingFromSession(session)
	payment := s.newPaymentRecord(session, callback)

	if err := s.repo.CommitBooking(ctx, booking, payment, session.Items); err != nil {
		switch {
		case errors.Is(err, ErrOversoldAttempt):
			s.log.LogOversoldAttempt(ctx, callback.OrderID, callback.PaymentID, session.EventID.String())
			s.publishReconciliation(ctx, session, callback)
		case errors.Is(err, payments.ErrDuplicateCallback):
			s.log.LogDuplicateCallback(ctx, callback.OrderID, callback.PaymentID)
		}
		return nil, err
	}

	// The session is left to expire with its TTL. A replayed callback must
	// still find it and reach the committer, which answers with the
	// duplicate verdict; deleting here would turn replays into stale-order
	// rejections instead.

	s.log.LogBookingSettled(ctx, booking.ID.String(), booking.BookingRef, booking.EventID.String(), booking.UserID.String())

	issued := s.issueAndNotify(ctx, booking)
	return s.settlementResponse(booking, issued), nil
}

func (s *service) CommitFreeBooking(ctx context.Context, session *checkout.Session) (*checkout.FreeBookingSummary, error) {
	booking := newBookingFromSession(session)

	now := time.Now()
	payment := &payments.PaymentRecord{
		UserID:           session.UserID,
		Gateway:          "FREE",
		GatewayOrderID:   session.OrderID,
		GatewayPaymentID: fmt.Sprintf("free_pay_%s", uuid.New().String()),
		Amount:           decimal.Zero,
		Currency:         session.Currency,
		Status:           payments.PaymentStatusCompleted,
		Method:           "FREE",
		CompletedAt:      &now,
	}

	if err := s.repo.CommitBooking(ctx, booking, payment, session.Items); err != nil {
		if errors.Is(err, ErrOversoldAttempt) {
			// No money moved, so the free path surfaces the loss as a
			// plain inventory error instead of a reconciliation case.
			return nil, checkout.ErrInsufficientInventory
		}
		return nil, err
	}

	s.log.LogBookingSettled(ctx, booking.ID.String(), booking.BookingRef, booking.EventID.String(), booking.UserID.String())
	s.issueAndNotify(ctx, booking)

	return &checkout.FreeBookingSummary{
		BookingID:  booking.ID.String(),
		BookingRef: booking.BookingRef,
		Status:     booking.Status.String(),
	}, nil
}

func (s *service) GetBooking(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBookingByRef(ctx context.Context, userID uuid.UUID, isAdmin bool, ref string) (*BookingResponse, error) {
	booking, err := s.repo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]BookingResponse, int64, error) {
	bookingRows, total, err := s.repo.GetUserBookings(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]BookingResponse, 0, len(bookingRows))
	for i := range bookingRows {
		responses = append(responses, bookingRows[i].ToResponse())
	}
	return responses, total, nil
}

func (s *service) ResendTickets(ctx context.Context, userID uuid.UUID, isAdmin bool, bookingID uuid.UUID) (int, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return 0, err
	}
	if !isAdmin && booking.UserID != userID {
		return 0, ErrBookingNotFound
	}

	issued, err := s.issuer.ReissueForBooking(ctx, booking.ID)
	if err != nil {
		if errors.Is(err, tickets.ErrTicketNotFound) {
			// Issuance failed originally; derive the set now
			issued, err = s.issuer.IssueForBooking(ctx, issueRequest(booking))
		}
		if err != nil {
			return 0, err
		}
	}

	s.dispatchNotification(booking, issued)
	return len(issued), nil
}

// issueAndNotify runs the best-effort tail of settlement. Failures are
// logged and swallowed; the booking is already financially final.
func (s *service) issueAndNotify(ctx context.Context, booking *Booking) []tickets.Ticket {
	issued, err := s.issuer.IssueForBooking(ctx, issueRequest(booking))
	if err != nil {
		s.log.ErrorWithContext(ctx, "Ticket issuance failed after settlement", err, map[string]interface{}{
			"booking_id":  booking.ID.String(),
			"booking_ref": booking.BookingRef,
		})
		return nil
	}

	s.dispatchNotification(booking, issued)
	return issued
}

// dispatchNotification publishes the ticket notification on its own
// goroutine so the HTTP response never waits on Kafka.
func (s *service) dispatchNotification(booking *Booking, issued []tickets.Ticket) {
	if len(issued) == 0 {
		return
	}

	event, err := s.catalog.GetEventByID(context.Background(), booking.EventID)
	if err != nil {
		s.log.Warn("Skipping ticket notification, event lookup failed",
			"booking_id", booking.ID.String(), "error", err.Error())
		return
	}

	payloads := make([]notifications.TicketPayload, 0, len(issued))
	for i := range issued {
		payloads = append(payloads, notifications.TicketPayload{
			TicketNumber:    issued[i].TicketNumber,
			VerificationURL: s.issuer.VerificationURL(issued[i].VerificationToken),
			ScanCode:        issued[i].ScanCode,
			AttendeeName:    issued[i].AttendeeName,
		})
	}

	notification := &notifications.TicketNotification{
		ID:             uuid.New(),
		RecipientEmail: booking.AttendeeEmail,
		RecipientName:  booking.AttendeeName,
		BookingRef:     booking.BookingRef,
		EventTitle:     event.Title,
		Venue:          event.Venue,
		StartDate:      event.StartDate,
		Tickets:        payloads,
		CreatedAt:      time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.producer.PublishTicketNotification(ctx, notification); err != nil {
			s.log.Warn("Failed to publish ticket notification",
				"booking_ref", booking.BookingRef, "error", err.Error())
		}
	}()
}

// publishReconciliation records a captured payment that lost the inventory
// race so ops can refund it. Best effort; the loss is also logged at ERROR.
func (s *service) publishReconciliation(ctx context.Context, session *checkout.Session, callback payments.CallbackPayload) {
	event := &notifications.ReconciliationEvent{
		ID:               uuid.New(),
		GatewayOrderID:   callback.OrderID,
		GatewayPaymentID: callback.PaymentID,
		EventID:          session.EventID,
		UserID:           session.UserID,
		Amount:           session.Total,
		Currency:         session.Currency,
		Reason:           "OVERSOLD_ATTEMPT",
		OccurredAt:       time.Now(),
	}
	if err := s.producer.PublishReconciliation(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish reconciliation event", err, map[string]interface{}{
			"order_id":   callback.OrderID,
			"payment_id": callback.PaymentID,
		})
	}
}

func (s *service) newPaymentRecord(session *checkout.Session, callback payments.CallbackPayload) *payments.PaymentRecord {
	now := time.Now()
	raw, _ := json.Marshal(callback)
	return &payments.PaymentRecord{
		UserID:           session.UserID,
		Gateway:          "RAZORPAY",
		GatewayOrderID:   callback.OrderID,
		GatewayPaymentID: callback.PaymentID,
		GatewaySignature: callback.Signature,
		Amount:           session.Total,
		Currency:         session.Currency,
		Status:           payments.PaymentStatusCompleted,
		Method:           "ONLINE",
		GatewayResponse:  raw,
		CompletedAt:      &now,
	}
}

func newBookingFromSession(session *checkout.Session) *Booking {
	return &Booking{
		PublicID:      uuid.New(),
		BookingRef:    newBookingRef(session.EventID),
		UserID:        session.UserID,
		EventID:       session.EventID,
		Discount:      decimal.Zero,
		Currency:      session.Currency,
		Status:        StatusPending,
		PaymentStatus: payments.PaymentStatusCompleted,
		AttendeeName:  session.Attendee.Name,
		AttendeeEmail: session.Attendee.Email,
		AttendeePhone: session.Attendee.Phone,
	}
}

// newBookingRef builds the human-facing reference: EVT-<event>-<millis>
func newBookingRef(eventID uuid.UUID) string {
	short := strings.ToUpper(strings.ReplaceAll(eventID.String(), "-", "")[:8])
	return fmt.Sprintf("EVT-%s-%d", short, time.Now().UnixMilli())
}

func issueRequest(booking *Booking) tickets.IssueRequest {
	items := make([]tickets.IssueLineItem, 0, len(booking.LineItems))
	for i := range booking.LineItems {
		items = append(items, tickets.IssueLineItem{
			LineItemID: booking.LineItems[i].ID,
			TierID:     booking.LineItems[i].TierID,
			Quantity:   booking.LineItems[i].Quantity,
		})
	}
	return tickets.IssueRequest{
		BookingID:   booking.ID,
		BookingUUID: booking.PublicID,
		Attendee: tickets.IssueAttendee{
			Name:  booking.AttendeeName,
			Email: booking.AttendeeEmail,
			Phone: booking.AttendeePhone,
		},
		Items: items,
	}
}

func (s *service) settlementResponse(booking *Booking, issued []tickets.Ticket) *SettlementResponse {
	summaries := make([]TicketSummary, 0, len(issued))
	for i := range issued {
		summaries = append(summaries, TicketSummary{
			TicketNumber:    issued[i].TicketNumber,
			VerificationURL: s.issuer.VerificationURL(issued[i].VerificationToken),
			ScanCode:        issued[i].ScanCode,
			AttendeeName:    issued[i].AttendeeName,
		})
	}
	return &SettlementResponse{
		BookingID:     booking.ID.String(),
		BookingRef:    booking.BookingRef,
		Status:        booking.Status.String(),
		PaymentStatus: booking.PaymentStatus.String(),
		Amount:        booking.FinalAmount,
		Currency:      booking.Currency,
		Tickets:       summaries,
	}
}
