// AngelaMos | 2026
// handler.go

package event

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/media"
)

const imagePrefix = "events"

type Handler struct {
	service   *Service
	uploader  *media.Uploader
	validator *validator.Validate
}

func NewHandler(service *Service, uploader *media.Uploader) *Handler {
	return &Handler{
		service:   service,
		uploader:  uploader,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{eventID}", h.Get)
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/events", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/", h.Create)
		r.Get("/{eventID}", h.Get)
		r.Put("/{eventID}", h.Update)
		r.Delete("/{eventID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToEventResponseList(events))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToEventResponse(event))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest

	isForm := media.IsMultipart(r)
	if isForm {
		if err := h.uploader.ParseForm(w, r); err != nil {
			core.JSONError(w, err)
			return
		}
		req = createRequestFromForm(r)
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	img, err := h.saveImage(r, isForm)
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.service.Create(r.Context(), req, img.PublicURL())
	if err != nil {
		h.uploader.Discard(r.Context(), img)
		writeError(w, err)
		return
	}

	core.Created(w, ToEventResponse(event))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest

	isForm := media.IsMultipart(r)
	if isForm {
		if err := h.uploader.ParseForm(w, r); err != nil {
			core.JSONError(w, err)
			return
		}
		req = updateRequestFromForm(r)
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id := chi.URLParam(r, "eventID")
	if isForm {
		if _, err := h.service.Get(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
	}

	img, err := h.saveImage(r, isForm)
	if err != nil {
		writeError(w, err)
		return
	}

	event, err := h.service.Update(r.Context(), id, req, img.PublicURL())
	if err != nil {
		h.uploader.Discard(r.Context(), img)
		writeError(w, err)
		return
	}

	core.OK(w, ToEventResponse(event))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) saveImage(r *http.Request, isForm bool) (*media.Image, error) {
	if !isForm {
		return nil, nil
	}
	return h.uploader.SaveImage(r.Context(), r, imagePrefix)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case core.IsAppError(err):
		core.JSONError(w, err)
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "event")
	default:
		core.InternalServerError(w, err)
	}
}

func createRequestFromForm(r *http.Request) CreateEventRequest {
	return CreateEventRequest{
		ImageURL:    r.FormValue("image_url"),
		Type:        r.FormValue("type"),
		Date:        r.FormValue("date"),
		Month:       r.FormValue("month"),
		Title:       r.FormValue("title"),
		Time:        r.FormValue("time"),
		Location:    r.FormValue("location"),
		Description: r.FormValue("desc"),
	}
}

func updateRequestFromForm(r *http.Request) UpdateEventRequest {
	return UpdateEventRequest{
		ImageURL:    formString(r, "image_url"),
		Type:        formString(r, "type"),
		Date:        formString(r, "date"),
		Month:       formString(r, "month"),
		Title:       formString(r, "title"),
		Time:        formString(r, "time"),
		Location:    formString(r, "location"),
		Description: formString(r, "desc"),
	}
}

func formString(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
