package services

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

// EmailMessage is a single outbound email with an optional attachment.
type EmailMessage struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer returns an SMTP mailer, or a mailer that only logs when host is empty.
func NewMailer(host string, port int, user, password, from string) Mailer {
	if strings.TrimSpace(host) == "" {
		return &logMailer{from: from}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

func (m *smtpMailer) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(buildMessage(m.from, msg)); err != nil {
		return errors.Wrapf(err, "send mail to %s", msg.To)
	}
	return nil
}

func buildMessage(from string, msg EmailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if len(msg.Attachment) > 0 {
		data := msg.Attachment
		m.Attach(msg.AttachmentName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		)
	}
	return m
}

type logMailer struct {
	from string
}

func (m *logMailer) Send(_ context.Context, msg EmailMessage) error {
	log.Info().
		Str("from", m.from).
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("attachment", msg.AttachmentName).
		Int("attachment_bytes", len(msg.Attachment)).
		Msg("SMTP not configured, email logged instead of sent")
	return nil
}
