// AngelaMos | 2026
// handler.go

package contact

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

const sentMessage = "Your message has been sent successfully!"

type SubmitResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/contact", h.Submit)
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.With(authenticator, adminOnly).Get("/admin/contacts", h.List)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if _, err := h.service.Submit(r.Context(), req); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, SubmitResponse{Message: sentMessage})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1, 1, 1<<20)
	pageSize := queryInt(r, "page_size", 20, 1, 100)

	msgs, total, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToMessageResponseList(msgs), page, pageSize, total)
}

func queryInt(r *http.Request, key string, def, lo, hi int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return min(max(n, lo), hi)
}
