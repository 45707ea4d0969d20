// AngelaMos | 2026
// mailer.go

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type MailgunMailer struct {
	client *mailgun.MailgunImpl
	sender string
}

func NewMailgunMailer(domain, apiKey, sender string) *MailgunMailer {
	return &MailgunMailer{
		client: mailgun.NewMailgun(domain, apiKey),
		sender: sender,
	}
}

func (m *MailgunMailer) Send(ctx context.Context, msg Email) error {
	message := m.client.NewMessage(m.sender, msg.Subject, msg.Text, msg.To)
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, _, err := m.client.Send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", msg.To, err)
	}
	return nil
}

var _ Mailer = (*MailgunMailer)(nil)
