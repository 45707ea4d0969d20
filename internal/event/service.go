// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

var (
	ErrImageRequired = core.ValidationError("image is required")
	ErrInvalidType   = core.ValidationError("type must be one of [happening upcoming expired]")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, eventType string) ([]Event, error) {
	if eventType != "" && !validType(eventType) {
		return nil, ErrInvalidType
	}
	return s.repo.List(ctx, eventType)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateEventRequest,
	uploadedImage string,
) (*Event, error) {
	image := req.ImageURL
	if uploadedImage != "" {
		image = uploadedImage
	}
	if image == "" {
		return nil, ErrImageRequired
	}

	eventType := req.Type
	if eventType == "" {
		eventType = TypeUpcoming
	}

	e := &Event{
		ID:          uuid.New().String(),
		ImageURL:    image,
		Type:        eventType,
		Date:        strings.TrimSpace(req.Date),
		Month:       strings.TrimSpace(req.Month),
		Title:       strings.TrimSpace(req.Title),
		Time:        strings.TrimSpace(req.Time),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateEventRequest,
	uploadedImage string,
) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	apply(&e.ImageURL, req.ImageURL)
	apply(&e.Type, req.Type)
	apply(&e.Date, req.Date)
	apply(&e.Month, req.Month)
	apply(&e.Title, req.Title)
	apply(&e.Time, req.Time)
	apply(&e.Location, req.Location)
	apply(&e.Description, req.Description)
	if uploadedImage != "" {
		e.ImageURL = uploadedImage
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func validType(t string) bool {
	switch t {
	case TypeHappening, TypeUpcoming, TypeExpired:
		return true
	}
	return false
}
