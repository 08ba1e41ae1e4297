package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// EmailService delivers ticket notifications to buyers
type EmailService interface {
	SendTickets(ctx context.Context, notification *TicketNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// SMTPEmailService is the SMTP implementation of EmailService
type SMTPEmailService struct {
	config   *SMTPConfig
	template *template.Template
}

const ticketEmailTemplate = `
<h2>Your tickets for {{.EventTitle}}</h2>
<p>Hi {{.RecipientName}},</p>
<p>Your booking <strong>{{.BookingRef}}</strong> is confirmed.</p>
<p>{{.Venue}} &mdash; {{.StartDate.Format "Mon, 02 Jan 2006 15:04"}}</p>
<table border="1" cellpadding="6" cellspacing="0">
	<tr><th>Ticket</th><th>Attendee</th><th>Scan Code</th></tr>
	{{range .Tickets}}
	<tr>
		<td><a href="{{.VerificationURL}}">{{.TicketNumber}}</a></td>
		<td>{{.AttendeeName}}</td>
		<td>{{.ScanCode}}</td>
	</tr>
	{{end}}
</table>
<p>Show the ticket link's QR code at the venue entrance.</p>
`

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if config == nil || config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}

	tmpl, err := template.New("tickets").Parse(ticketEmailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ticket email template: %w", err)
	}

	return &SMTPEmailService{
		config:   config,
		template: tmpl,
	}, nil
}

func (s *SMTPEmailService) SendTickets(ctx context.Context, notification *TicketNotification) error {
	var body bytes.Buffer
	if err := s.template.Execute(&body, notification); err != nil {
		return fmt.Errorf("failed to render ticket email: %w", err)
	}

	subject := fmt.Sprintf("Your tickets for %s", notification.EventTitle)
	msg := s.buildMessage(notification.RecipientEmail, subject, body.String())

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{notification.RecipientEmail}, msg); err != nil {
		return fmt.Errorf("failed to send ticket email: %w", err)
	}

	log.Printf("Ticket email sent to %s for booking %s (%d tickets)",
		notification.RecipientEmail, notification.BookingRef, len(notification.Tickets))

	return nil
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

// logEmailService is used when SMTP is not configured; it logs instead of
// sending so local development does not need a mail server.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return &logEmailService{}
}

func (l *logEmailService) SendTickets(ctx context.Context, notification *TicketNotification) error {
	log.Printf("[email disabled] would send %d tickets for booking %s to %s",
		len(notification.Tickets), notification.BookingRef, notification.RecipientEmail)
	return nil
}
