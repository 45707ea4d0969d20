// AngelaMos | 2026
// repository.go

package contact

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	List(ctx context.Context, page, pageSize int) ([]Message, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Message) error {
	query := `
		INSERT INTO contacts (id, name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}

	return nil
}

func (r *repository) List(ctx context.Context, page, pageSize int) ([]Message, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contacts`); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	query := `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	msgs := []Message{}
	if err := r.db.SelectContext(ctx, &msgs, query, pageSize, (page-1)*pageSize); err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}

	return msgs, total, nil
}
