// Package mailer dispatches transactional mail through SendGrid.
package mailer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gamisaur/gccan/internal/config"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends the two message kinds the system produces: an admin reply to a
// feedback submitter, and a new-feedback notice to the institutional inbox.
type Mailer interface {
	SendReply(to, question, reply string) error
	SendFeedbackNotice(submitterEmail, message string) error
}

type sendgridMailer struct {
	client      *sendgrid.Client
	from        *sgmail.Email
	notifyEmail string
}

// NewSendgridMailer creates a Mailer backed by the SendGrid API.
func NewSendgridMailer(cfg config.MailConfig) Mailer {
	return &sendgridMailer{
		client:      sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:        sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		notifyEmail: cfg.NotifyEmail,
	}
}

// SendReply mails an admin's reply back to the feedback submitter. The
// original question is quoted so the recipient has context.
func (m *sendgridMailer) SendReply(to, question, reply string) error {
	subject := "Reply to your GCCAN feedback"
	plain := fmt.Sprintf("Your question:\n%s\n\nOur reply:\n%s", question, reply)
	html := fmt.Sprintf("<p><strong>Your question:</strong></p><p>%s</p><p><strong>Our reply:</strong></p><p>%s</p>", question, reply)

	msg := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", to), plain, html)
	return m.send(msg)
}

// SendFeedbackNotice mails the institutional inbox about a new submission.
func (m *sendgridMailer) SendFeedbackNotice(submitterEmail, message string) error {
	subject := "New feedback submitted"
	plain := fmt.Sprintf("From: %s\n\n%s", submitterEmail, message)
	html := fmt.Sprintf("<p><strong>From:</strong> %s</p><p>%s</p>", submitterEmail, message)

	msg := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", m.notifyEmail), plain, html)
	return m.send(msg)
}

func (m *sendgridMailer) send(msg *sgmail.SGMailV3) error {
	resp, err := m.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		log.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
		return errors.New("mail dispatch failed")
	}
	return nil
}
