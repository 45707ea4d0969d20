// AngelaMos | 2026
// service.go

package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/instaiq-backend/internal/notify"
)

const publishTimeout = 3 * time.Second

type Service struct {
	repo      Repository
	publisher notify.Publisher
}

func NewService(repo Repository, publisher notify.Publisher) *Service {
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher}
}

// Submit stores the message and queues the admin and sender emails. A
// broker failure is logged; the stored message still counts as sent.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Message, error) {
	m := &Message{
		ID:      uuid.New().String(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("submit contact: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := s.publisher.Publish(pubCtx, notify.KeyContactSubmitted, notify.ContactSubmitted{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	})
	if err != nil {
		slog.WarnContext(ctx, "contact notification failed",
			"contact_id", m.ID,
			"error", err,
		)
	}

	return m, nil
}

func (s *Service) List(ctx context.Context, page, pageSize int) ([]Message, int, error) {
	return s.repo.List(ctx, page, pageSize)
}
