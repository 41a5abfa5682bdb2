package service

import (
	"context"
	"fmt"
	"time"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultSendGridHost = "https://api.sendgrid.com"
	sendGridMailPath    = "/v3/mail/send"
	displayTimeLayout   = "Mon, 02 Jan 2006 15:04 MST"
)

type emailService struct {
	apiKey string
	host   string
	from   *mail.Email
}

// NewEmailService sends through the SendGrid v3 API. An empty host uses the public endpoint.
func NewEmailService(apiKey, host, fromEmail, fromName string) EmailService {
	if host == "" {
		host = defaultSendGridHost
	}
	return &emailService{
		apiKey: apiKey,
		host:   host,
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

func (s *emailService) SendReservationConfirmed(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation #%d confirmed", r.ID)
	body := fmt.Sprintf("Hello %s,\n\nYour reservation #%d is confirmed.\n\nPickup: %s\nReturn: %s\nEstimated total: %s\n\nBest regards,\nThe Rental Team",
		to.Name, r.ID, r.PickupAt.Format(displayTimeLayout), r.ScheduledReturnAt.Format(displayTimeLayout), FormatCents(r.TotalCents))
	return s.send(ctx, to, subject, body)
}

func (s *emailService) SendReservationCancelled(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation #%d cancelled", r.ID)
	body := fmt.Sprintf("Hello %s,\n\nYour reservation #%d for pickup on %s has been cancelled.\n\nBest regards,\nThe Rental Team",
		to.Name, r.ID, r.PickupAt.Format(displayTimeLayout))
	return s.send(ctx, to, subject, body)
}

func (s *emailService) SendReservationFinalized(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	returned := "-"
	if r.ReturnedAt != nil {
		returned = r.ReturnedAt.Format(displayTimeLayout)
	}
	subject := fmt.Sprintf("Reservation #%d closed", r.ID)
	body := fmt.Sprintf("Hello %s,\n\nThanks for returning the vehicle on %s.\n\nAmount charged: %s\n\nBest regards,\nThe Rental Team",
		to.Name, returned, FormatCents(r.TotalCents))
	return s.send(ctx, to, subject, body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	subject := fmt.Sprintf("Reservation #%d is overdue", r.ID)
	body := fmt.Sprintf("Hello %s,\n\nThe vehicle on reservation #%d was due back on %s. Late returns are charged half the daily rate per started day.\n\nBest regards,\nThe Rental Team",
		to.Name, r.ID, r.ScheduledReturnAt.Format(displayTimeLayout))
	return s.send(ctx, to, subject, body)
}

func (s *emailService) send(ctx context.Context, to *domain.Party, subject, body string) error {
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(to.Name, to.Email), body, "")

	request := sendgrid.GetRequest(s.apiKey, sendGridMailPath, s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	logger.ExternalServiceCall("sendgrid", "mail.send", "to", to.Email, "subject", subject)
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "mail.send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "mail.send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "mail.send", nil, "status", response.StatusCode)
	return nil
}

// logEmailService writes notifications to the log instead of sending them. Used when
// no SendGrid key is configured.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return logEmailService{}
}

func (logEmailService) SendReservationConfirmed(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	logger.InfoContext(ctx, "Email: reservation confirmed", "to", to.Email, "reservation_id", r.ID)
	return nil
}

func (logEmailService) SendReservationCancelled(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	logger.InfoContext(ctx, "Email: reservation cancelled", "to", to.Email, "reservation_id", r.ID)
	return nil
}

func (logEmailService) SendReservationFinalized(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	logger.InfoContext(ctx, "Email: reservation finalized", "to", to.Email, "reservation_id", r.ID, "total_cents", r.TotalCents)
	return nil
}

func (logEmailService) SendOverdueReminder(ctx context.Context, to *domain.Party, r *domain.Reservation) error {
	logger.InfoContext(ctx, "Email: overdue reminder", "to", to.Email, "reservation_id", r.ID,
		"overdue_for", time.Since(r.ScheduledReturnAt).Round(time.Minute).String())
	return nil
}

// FormatCents renders an amount such as 12345 as "$123.45".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
