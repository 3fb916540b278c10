package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/pricing"
)

// Email is one outgoing message.
type Email struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// Mailer delivers a composed email.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type sendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridMailer sends through the SendGrid v3 API.
func NewSendGridMailer(apiKey, fromEmail, fromName string) Mailer {
	return &sendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *sendGridMailer) Send(ctx context.Context, msg Email) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	logger.ExternalServiceCall("SendGrid", "Send", "to", msg.To, "subject", msg.Subject)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		logger.ExternalServiceResult("SendGrid", "Send", err)
		return err
	}
	if resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
		logger.ExternalServiceResult("SendGrid", "Send", err)
		return err
	}
	logger.ExternalServiceResult("SendGrid", "Send", nil, "status", resp.StatusCode)
	return nil
}

type logMailer struct{}

// NewLogMailer only logs emails. It is used when no SendGrid key is configured.
func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) Send(ctx context.Context, msg Email) error {
	logger.InfoContext(ctx, "Email not sent, mailer disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}

type emailService struct {
	mailer Mailer
}

func NewEmailService(mailer Mailer) EmailService {
	return &emailService{mailer: mailer}
}

func (s *emailService) SendWelcome(ctx context.Context, to, name string, role domain.UserRole) error {
	subject := "Welcome to HAZEL"
	action := "browse and rent items from people near you"
	if role == domain.UserRoleOwner {
		action = "list your items and start earning from rentals"
	}
	plain := fmt.Sprintf("Hi %s,\n\nYour HAZEL account is ready. You can now %s.\n\nThe HAZEL Team", name, action)
	body := fmt.Sprintf(`<html><body>
<h2>Welcome to HAZEL, %s!</h2>
<p>Your account is ready. You can now %s.</p>
<p>The HAZEL Team</p>
</body></html>`, html.EscapeString(name), action)

	return s.mailer.Send(ctx, Email{To: to, ToName: name, Subject: subject, PlainText: plain, HTML: body})
}

func (s *emailService) SendReceipt(ctx context.Context, to, name string, receipt *domain.Receipt) error {
	subject := fmt.Sprintf("Your HAZEL receipt %s", receipt.OrderRef)

	var plain, rows strings.Builder
	fmt.Fprintf(&plain, "Hi %s,\n\nThank you for your order %s.\n\n", name, receipt.OrderRef)
	for _, it := range receipt.Items {
		fmt.Fprintf(&plain, "- %s: %d day(s) from %s to %s, %s\n",
			it.ListingTitle, it.RentalDurationDays, it.RentalStartDate, it.RentalEndDate, pricing.FormatCents(it.RentalCostCents))
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d day(s)</td><td>%s to %s</td><td>%s</td></tr>",
			html.EscapeString(it.ListingTitle), it.RentalDurationDays, it.RentalStartDate, it.RentalEndDate, pricing.FormatCents(it.RentalCostCents))
	}
	sum := receipt.Summary
	fmt.Fprintf(&plain, "\nRental cost: %s\nDelivery fee: %s\nService fee (5%%): %s\nTotal: %s\n",
		pricing.FormatCents(sum.RentalCostCents), pricing.FormatCents(sum.DeliveryFeeCents),
		pricing.FormatCents(sum.ServiceFeeCents), pricing.FormatCents(sum.TotalCents))

	body := fmt.Sprintf(`<html><body>
<h2>Rental Confirmed!</h2>
<p>Order <b>%s</b></p>
<table>%s</table>
<p>Rental cost: %s<br>Delivery fee: %s<br>Service fee (5%%): %s<br><b>Total: %s</b></p>
</body></html>`, receipt.OrderRef, rows.String(),
		pricing.FormatCents(sum.RentalCostCents), pricing.FormatCents(sum.DeliveryFeeCents),
		pricing.FormatCents(sum.ServiceFeeCents), pricing.FormatCents(sum.TotalCents))

	return s.mailer.Send(ctx, Email{To: to, ToName: name, Subject: subject, PlainText: plain.String(), HTML: body})
}

func (s *emailService) SendReturnReminder(ctx context.Context, to, name string, tx *domain.Transaction) error {
	subject := fmt.Sprintf("Reminder: %s is due back %s", tx.ListingTitle, tx.RentalEndDate)
	plain := fmt.Sprintf("Hi %s,\n\nYour rental of %s from %s ends on %s. Please arrange the return with the owner.\n",
		name, tx.ListingTitle, tx.OwnerName, tx.RentalEndDate)
	body := fmt.Sprintf(`<html><body>
<h2>Return reminder</h2>
<p>Your rental of <b>%s</b> from %s ends on <b>%s</b>.</p>
<p>Please arrange the return with the owner.</p>
</body></html>`, html.EscapeString(tx.ListingTitle), html.EscapeString(tx.OwnerName), tx.RentalEndDate)

	return s.mailer.Send(ctx, Email{To: to, ToName: name, Subject: subject, PlainText: plain, HTML: body})
}
