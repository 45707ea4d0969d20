// AngelaMos | 2026
// dto.go

package event

import (
	"time"
)

type CreateEventRequest struct {
	ImageURL    string `json:"image_url"   validate:"omitempty,url,max=2048"`
	Type        string `json:"type"        validate:"omitempty,oneof=happening upcoming expired"`
	Date        string `json:"date"        validate:"required,max=20"`
	Month       string `json:"month"       validate:"required,max=20"`
	Title       string `json:"title"       validate:"required,max=200"`
	Time        string `json:"time"        validate:"required,max=50"`
	Location    string `json:"location"    validate:"required,max=200"`
	Description string `json:"desc"        validate:"required,max=5000"`
}

type UpdateEventRequest struct {
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url,max=2048"`
	Type        *string `json:"type,omitempty"      validate:"omitempty,oneof=happening upcoming expired"`
	Date        *string `json:"date,omitempty"      validate:"omitempty,min=1,max=20"`
	Month       *string `json:"month,omitempty"     validate:"omitempty,min=1,max=20"`
	Title       *string `json:"title,omitempty"     validate:"omitempty,min=1,max=200"`
	Time        *string `json:"time,omitempty"      validate:"omitempty,min=1,max=50"`
	Location    *string `json:"location,omitempty"  validate:"omitempty,min=1,max=200"`
	Description *string `json:"desc,omitempty"      validate:"omitempty,min=1,max=5000"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"image_url"`
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	Month       string    `json:"month"`
	Title       string    `json:"title"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Description string    `json:"desc"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToEventResponse(e *Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		ImageURL:    e.ImageURL,
		Type:        e.Type,
		Date:        e.Date,
		Month:       e.Month,
		Title:       e.Title,
		Time:        e.Time,
		Location:    e.Location,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToEventResponseList(events []Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, ToEventResponse(&events[i]))
	}
	return responses
}
