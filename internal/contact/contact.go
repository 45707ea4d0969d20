// AngelaMos | 2026
// contact.go

package contact

import (
	"time"
)

type Message struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Subject   string    `db:"subject"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

type SubmitRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Email   string `json:"email"   validate:"required,email,max=255"`
	Phone   string `json:"phone"   validate:"omitempty,len=10,numeric"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func ToMessageResponseList(msgs []Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageResponse(m))
	}
	return out
}
