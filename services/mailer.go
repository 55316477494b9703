package services

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers the coupon code once a payment is confirmed.
type Mailer interface {
	SendCoupon(email, courseTitle, coupon string) error
}

type SendGridMailer struct {
	APIKey string
	From   string
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{APIKey: apiKey, From: from}
}

func (m *SendGridMailer) SendCoupon(email, courseTitle, coupon string) error {
	if m.APIKey == "" || m.From == "" {
		log.Println("Missing SendGrid config, skipping coupon email")
		return nil
	}

	subject := fmt.Sprintf("Your coupon for %s", courseTitle)
	plainTextContent := fmt.Sprintf(`Thank you for your purchase!

Course: %s

Your coupon code:
%s

Redeem it on the course page to unlock access.`, courseTitle, coupon)

	from := mail.NewEmail("CourseCart", m.From)
	to := mail.NewEmail(email, email)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, plainTextContent)
	client := sendgrid.NewSendClient(m.APIKey)

	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d", response.StatusCode)
	}

	log.Printf("Coupon email sent. Status Code: %d", response.StatusCode)
	return nil
}
