package service

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Recipient is the delivery address for a notification.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// Sender delivers a rendered message to one recipient.
type Sender interface {
	Send(ctx context.Context, to Recipient, subject, body string) error
}

// SendGridSender delivers notifications as email via SendGrid.
type SendGridSender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

// NewSendGridSender creates an email sender using the given API key.
func NewSendGridSender(apiKey, fromName, fromEmail string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SendGridSender) Send(ctx context.Context, to Recipient, subject, body string) error {
	if to.Email == "" {
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail(to.Name, to.Email), body, body)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", to.Email, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// TwilioSender delivers notifications as SMS via Twilio.
type TwilioSender struct {
	client     *twilio.RestClient
	fromNumber string
}

// NewTwilioSender creates an SMS sender using the given account credentials.
func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, fromNumber: fromNumber}
}

func (s *TwilioSender) Send(ctx context.Context, to Recipient, subject, body string) error {
	if to.Phone == "" {
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to.Phone)
	params.SetFrom(s.fromNumber)
	params.SetBody(subject + ": " + body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("sending SMS to %s: %w", to.Phone, err)
	}
	return nil
}

// LogSender writes notifications to the process log. Used when no external
// sender is configured, so local environments still see the traffic.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to Recipient, subject, body string) error {
	log.Printf("[NOTIFICATION] To=%s Subject=%q Body=%q", to.Email, subject, body)
	return nil
}
