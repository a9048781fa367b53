package services

import (
	"fmt"
	"net/http"

	"hostelhub_go/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Mailer delivers account verification mail through SendGrid.
type Mailer struct {
	key  string
	from *sgmail.Email
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		key:  cfg.SendgridAPIKey,
		from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
	}
}

// SendOTP mails the one-time verification code to a student. In
// development (no API key configured) the code is logged instead so
// signup stays testable without outbound mail.
func (m *Mailer) SendOTP(toName, toEmail, otp string) error {
	if m.key == "" {
		logrus.WithFields(logrus.Fields{
			"email": toEmail,
			"otp":   otp,
		}).Warn("SendGrid not configured, logging OTP instead of emailing")
		return nil
	}

	subject := "Verify your hostel account"
	text := fmt.Sprintf("Your verification code is %s. It expires in one hour.", otp)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>.</p><p>It expires in one hour.</p>",
		toName, otp,
	)

	message := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail(toName, toEmail), text, html)
	client := sendgrid.NewSendClient(m.key)
	res, err := client.Send(message)
	if err != nil {
		logrus.WithError(err).WithField("email", toEmail).Error("Failed to send OTP email")
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		logrus.WithFields(logrus.Fields{
			"email":  toEmail,
			"status": res.StatusCode,
			"body":   res.Body,
		}).Error("SendGrid rejected OTP email")
		return fmt.Errorf("sendgrid responded with status %d", res.StatusCode)
	}
	return nil
}
