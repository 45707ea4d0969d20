// AngelaMos | 2026
// handler.go

package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/media"
)

const imagePrefix = "courses"

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

// RegisterRoutes mounts the public catalog. subroutes lets other packages
// attach routes under /courses, such as purchasing.
func (h *Handler) RegisterRoutes(r chi.Router, subroutes ...func(chi.Router)) {
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{courseID}", h.Get)

		for _, mount := range subroutes {
			mount(r)
		}
	})
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/courses", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/", h.Create)
		r.Post("/reindex", h.Reindex)
		r.Put("/{courseID}", h.Update)
		r.Delete("/{courseID}", h.Delete)
		r.Get("/{courseID}/purchasers", h.Purchasers)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.List(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCourseResponseList(courses))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.service.Get(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToCourseDetailResponse(course))
}

// Create accepts either a JSON body or a multipart form carrying an
// optional image part.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		req CreateCourseRequest
		err error
	)

	isForm := media.IsMultipart(r)
	if isForm {
		if err := h.uploader.ParseForm(w, r); err != nil {
			core.JSONError(w, err)
			return
		}
		req, err = createRequestFromForm(r)
		if err != nil {
			core.JSONError(w, err)
			return
		}
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

	course, err := h.service.Create(r.Context(), req, img.PublicURL())
	if err != nil {
		h.uploader.Discard(r.Context(), img)
		writeError(w, err)
		return
	}

	core.Created(w, ToCourseResponse(course))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var (
		req UpdateCourseRequest
		err error
	)

	isForm := media.IsMultipart(r)
	if isForm {
		if err := h.uploader.ParseForm(w, r); err != nil {
			core.JSONError(w, err)
			return
		}
		req, err = updateRequestFromForm(r)
		if err != nil {
			core.JSONError(w, err)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	id := chi.URLParam(r, "courseID")
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

	course, err := h.service.Update(r.Context(), id, req, img.PublicURL())
	if err != nil {
		h.uploader.Discard(r.Context(), img)
		writeError(w, err)
		return
	}

	core.OK(w, ToCourseResponse(course))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "courseID")); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Purchasers(w http.ResponseWriter, r *http.Request) {
	course, purchasers, err := h.service.Purchasers(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToPurchasersResponse(course, purchasers))
}

func (h *Handler) Reindex(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Reindex(r.Context())
	if err != nil {
		if errors.Is(err, ErrSearchUnavailable) {
			core.JSONError(w, core.NewAppError(
				err,
				"search is not enabled",
				http.StatusServiceUnavailable,
				"SEARCH_DISABLED",
			))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, map[string]int{"indexed": n})
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
		core.NotFound(w, "course")
	default:
		core.InternalServerError(w, err)
	}
}

func createRequestFromForm(r *http.Request) (CreateCourseRequest, error) {
	req := CreateCourseRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		ImageURL:    r.FormValue("image_url"),
	}

	price, err := formPrice(r)
	if err != nil {
		return req, err
	}
	req.Price = price

	if details, ok, err := formDetails(r); err != nil {
		return req, err
	} else if ok {
		req.Details = details
	}

	return req, nil
}

func updateRequestFromForm(r *http.Request) (UpdateCourseRequest, error) {
	var req UpdateCourseRequest

	req.Title = formString(r, "title")
	req.Description = formString(r, "description")
	req.ImageURL = formString(r, "image_url")

	price, err := formPrice(r)
	if err != nil {
		return req, err
	}
	req.Price = price

	if details, ok, err := formDetails(r); err != nil {
		return req, err
	} else if ok {
		req.Details = &details
	}

	return req, nil
}

func formString(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func formPrice(r *http.Request) (*float64, error) {
	raw := strings.TrimSpace(r.FormValue("price"))
	if raw == "" {
		return nil, nil
	}

	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, core.ValidationError("price must be a number")
	}
	return &price, nil
}

// formDetails accepts either a single JSON array value or repeated
// details fields.
func formDetails(r *http.Request) ([]string, bool, error) {
	values, ok := r.MultipartForm.Value["details"]
	if !ok {
		return nil, false, nil
	}

	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var details []string
		if err := json.Unmarshal([]byte(values[0]), &details); err != nil {
			return nil, false, core.ValidationError("details must be a list of strings")
		}
		if details == nil {
			details = []string{}
		}
		return details, true, nil
	}

	details := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			details = append(details, v)
		}
	}
	return details, true, nil
}
