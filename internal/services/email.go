package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"voltamax-backend/internal/models"
)

type EmailService struct {
	host       string
	port       string
	user       string
	pass       string
	from       string
	salesEmail string
	devMode    bool
}

func NewEmailService(host, port, user, pass, from, salesEmail string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:       host,
		port:       port,
		user:       user,
		pass:       pass,
		from:       from,
		salesEmail: salesEmail,
		devMode:    devMode,
	}
}

// SendQuoteNotification alerts the sales inbox about a new quote request.
func (s *EmailService) SendQuoteNotification(q *models.QuoteRequest) error {
	subject := fmt.Sprintf("New quote request from %s", q.Name)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 24px; background-color: #f8fafc;">
  <div style="max-width: 520px; margin: 0 auto; background: white; border-radius: 8px; padding: 24px;">
    <h2 style="margin: 0 0 16px; color: #0f172a;">New Quote Request</h2>
    <table style="font-size: 14px; color: #334155;">
      <tr><td style="padding: 4px 12px 4px 0; font-weight: 600;">Name</td><td>%s</td></tr>
      <tr><td style="padding: 4px 12px 4px 0; font-weight: 600;">Email</td><td>%s</td></tr>
      <tr><td style="padding: 4px 12px 4px 0; font-weight: 600;">Company</td><td>%s</td></tr>
      <tr><td style="padding: 4px 12px 4px 0; font-weight: 600;">Quantity</td><td>%d</td></tr>
    </table>
    <p style="font-size: 14px; color: #334155; white-space: pre-wrap;">%s</p>
    <p style="font-size: 12px; color: #94a3b8;">Reference: %s</p>
  </div>
</body>
</html>`, q.Name, q.Email, q.Company, q.Quantity, q.Message, q.ID)

	return s.sendHTML(s.salesEmail, subject, body)
}

// SendWarrantyConfirmation confirms a warranty registration to the customer.
func (s *EmailService) SendWarrantyConfirmation(w *models.WarrantyRegistration) error {
	subject := "Your VoltaMax warranty is registered"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; overflow: hidden;">
    <div style="background: linear-gradient(135deg, #0ea5e9 0%%, #22c55e 100%%); padding: 32px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px; font-weight: 700;">VoltaMax</h1>
      <p style="color: rgba(255,255,255,0.85); margin: 8px 0 0; font-size: 14px;">Power That Lasts</p>
    </div>
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Warranty Registered</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        Your battery with serial number <strong>%s</strong> is covered by our
        %d-year warranty until <strong>%s</strong>. Keep this email as proof of registration.
      </p>
      <p style="color: #94a3b8; font-size: 12px; margin: 16px 0 0;">
        Questions? Reply to this email or write to support@voltamax.energy.
      </p>
    </div>
  </div>
</body>
</html>`, w.Serial, models.WarrantyYears, w.ExpiresAt().Format("January 2, 2006"))

	return s.sendHTML(w.Email, subject, body)
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s", to, subject)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}
