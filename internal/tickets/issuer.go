package tickets

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"eventhive/pkg/logger"

	"github.com/google/uuid"
)

// Issuer mints tickets for settled bookings. Ticket numbers, verification
// tokens and scan codes are all pure functions of the booking's identity,
// so a retry or re-send derives the identical set instead of minting new
// units. Issuance failures never unwind the booking - the booking is
// financially final before the issuer runs.
type Issuer interface {
	IssueForBooking(ctx context.Context, req IssueRequest) ([]Ticket, error)
	ReissueForBooking(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error)
	VerifyToken(ctx context.Context, token string) (*VerificationResult, error)
	VerificationURL(token string) string
}

type issuer struct {
	repo    Repository
	secret  []byte
	baseURL string
	log     *logger.Logger
}

// NewIssuer creates a new ticket issuer instance
func NewIssuer(repo Repository, verificationSecret, baseURL string) Issuer {
	return &issuer{
		repo:    repo,
		secret:  []byte(verificationSecret),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.GetDefault(),
	}
}

func (i *issuer) IssueForBooking(ctx context.Context, req IssueRequest) ([]Ticket, error) {
	ticketRows := i.deriveTickets(req)

	if err := i.repo.UpsertTickets(ctx, ticketRows); err != nil {
		return nil, err
	}

	i.log.LogTicketsIssued(ctx, req.BookingID.String(), len(ticketRows))
	return ticketRows, nil
}

// ReissueForBooking returns the already-persisted ticket set for a booking.
// Used by re-send flows; never mints new units.
func (i *issuer) ReissueForBooking(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	ticketRows, err := i.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if len(ticketRows) == 0 {
		return nil, ErrTicketNotFound
	}
	return ticketRows, nil
}

func (i *issuer) VerifyToken(ctx context.Context, token string) (*VerificationResult, error) {
	ticket, err := i.repo.GetByVerificationToken(ctx, token)
	if err != nil {
		if err == ErrTicketNotFound {
			return &VerificationResult{Valid: false}, nil
		}
		return nil, err
	}

	return &VerificationResult{
		Valid:         true,
		TicketNumber:  ticket.TicketNumber,
		BookingID:     ticket.BookingID.String(),
		AttendeeName:  ticket.AttendeeName,
		AttendeeEmail: ticket.AttendeeEmail,
		IssuedAt:      ticket.CreatedAt,
	}, nil
}

// VerificationURL builds the scannable URL embedded in the ticket QR code.
// Only the opaque token is exposed; no internal identifier appears here.
func (i *issuer) VerificationURL(token string) string {
	return fmt.Sprintf("%s/verify-ticket/%s", i.baseURL, token)
}

func (i *issuer) deriveTickets(req IssueRequest) []Ticket {
	var ticketRows []Ticket
	for _, item := range req.Items {
		for seq := 1; seq <= item.Quantity; seq++ {
			number := TicketNumber(req.BookingID, item.LineItemID, seq)
			ticketRows = append(ticketRows, Ticket{
				BookingID:         req.BookingID,
				LineItemID:        item.LineItemID,
				TierID:            item.TierID,
				TicketNumber:      number,
				VerificationToken: i.verificationToken(req.BookingUUID, number),
				ScanCode:          i.scanCode(req.BookingUUID, number),
				AttendeeName:      req.Attendee.Name,
				AttendeeEmail:     req.Attendee.Email,
				AttendeePhone:     req.Attendee.Phone,
			})
		}
	}
	return ticketRows
}

// TicketNumber derives the human-legible unique number for one admission
// unit: TKT-<booking>-<line item>-<sequence>. Short uuid prefixes keep it
// printable on a ticket while staying unique alongside the sequence.
func TicketNumber(bookingID, lineItemID uuid.UUID, seq int) string {
	return fmt.Sprintf("TKT-%s-%s-%d", shortID(bookingID), shortID(lineItemID), seq)
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// verificationToken derives the opaque token embedded in the verification
// URL. Keyed with the app secret so tokens cannot be enumerated from
// visible booking data, yet deterministic so re-issuance reproduces them.
func (i *issuer) verificationToken(bookingUUID uuid.UUID, ticketNumber string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte("verify|" + bookingUUID.String() + "|" + ticketNumber))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

// scanCode derives a 12-digit barcode-scanner-friendly code from the same
// keyed MAC under a different label.
func (i *issuer) scanCode(bookingUUID uuid.UUID, ticketNumber string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte("scan|" + bookingUUID.String() + "|" + ticketNumber))
	sum := mac.Sum(nil)
	code := binary.BigEndian.Uint64(sum[:8]) % 1_000_000_000_000
	return fmt.Sprintf("%012d", code)
}
