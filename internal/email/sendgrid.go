package email

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/metrics"
)

const sendGridHost = "https://api.sendgrid.com"

// SendGridSender sends emails through the SendGrid v3 mail API.
type SendGridSender struct {
	apiKey    string
	fromEmail string
	fromName  string
	host      string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		host:      sendGridHost,
	}
}

func (s *SendGridSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	message := s.buildMessage(req)

	request := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(message)

	logger.ExternalServiceCall("sendgrid", "send", "to", req.To, "subject", req.Subject)
	start := time.Now()
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	metrics.RecordExternalCall("sendgrid", "send", time.Since(start), err)
	logger.ExternalServiceResult("sendgrid", "send", err, "to", req.To)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to send email: %w", err)
	}

	var messageID string
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	return SendResult{MessageID: messageID, SentAt: time.Now().UTC()}, nil
}

func (s *SendGridSender) buildMessage(req SendRequest) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	if req.From != "" {
		message.SetFrom(mail.NewEmail("", req.From))
	} else {
		message.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	}
	message.Subject = req.Subject
	if req.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", req.ReplyTo))
	}

	personalization := mail.NewPersonalization()
	for _, to := range req.To {
		personalization.AddTos(mail.NewEmail("", to))
	}
	message.AddPersonalizations(personalization)

	// SendGrid requires text/plain before text/html
	if req.Text != "" {
		message.AddContent(mail.NewContent("text/plain", req.Text))
	}
	if req.HTML != "" {
		message.AddContent(mail.NewContent("text/html", req.HTML))
	}
	return message
}
