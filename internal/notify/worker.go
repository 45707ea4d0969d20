// AngelaMos | 2026
// worker.go

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Worker turns notification events into emails.
type Worker struct {
	mailer         Mailer
	adminRecipient string
}

func NewWorker(mailer Mailer, adminRecipient string) *Worker {
	return &Worker{mailer: mailer, adminRecipient: adminRecipient}
}

func (w *Worker) Handle(ctx context.Context, routingKey string, body []byte) error {
	emails, err := w.Compose(routingKey, body)
	if err != nil {
		return err
	}

	for _, email := range emails {
		if err := w.mailer.Send(ctx, email); err != nil {
			return err
		}
		slog.InfoContext(ctx, "notification sent",
			"routing_key", routingKey,
			"to", email.To,
			"subject", email.Subject,
		)
	}

	return nil
}

// Compose renders the emails an event produces. Admin copies are skipped
// when no admin recipient is configured.
func (w *Worker) Compose(routingKey string, body []byte) ([]Email, error) {
	switch routingKey {
	case KeyCoursePurchased:
		var evt CoursePurchased
		if err := json.Unmarshal(body, &evt); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, routingKey, err)
		}
		if evt.UserEmail == "" {
			return nil, fmt.Errorf("%w: %s without recipient", ErrMalformed, routingKey)
		}

		emails := make([]Email, 0, 2)
		receipt, err := compose("purchase_receipt", evt.UserEmail, "", evt)
		if err != nil {
			return nil, err
		}
		emails = append(emails, receipt)

		if w.adminRecipient != "" {
			admin, err := compose("purchase_admin", w.adminRecipient, "", evt)
			if err != nil {
				return nil, err
			}
			emails = append(emails, admin)
		}
		return emails, nil

	case KeyContactSubmitted:
		var evt ContactSubmitted
		if err := json.Unmarshal(body, &evt); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, routingKey, err)
		}

		emails := make([]Email, 0, 2)
		if w.adminRecipient != "" {
			admin, err := compose("contact_admin", w.adminRecipient, evt.Email, evt)
			if err != nil {
				return nil, err
			}
			emails = append(emails, admin)
		}
		if evt.Email != "" {
			ack, err := compose("contact_ack", evt.Email, "", evt)
			if err != nil {
				return nil, err
			}
			emails = append(emails, ack)
		}
		return emails, nil

	default:
		return nil, fmt.Errorf("%w: unknown routing key %q", ErrMalformed, routingKey)
	}
}

func compose(name, to, replyTo string, data any) (Email, error) {
	subject, text, err := render(name, data)
	if err != nil {
		return Email{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return Email{To: to, ReplyTo: replyTo, Subject: subject, Text: text}, nil
}
