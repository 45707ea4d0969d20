// AngelaMos | 2026
// handler.go

package purchase

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/middleware"
)

const purchasedMessage = "Course purchased successfully!"

type PurchaseResponse struct {
	Message string `json:"message"`
	Course  string `json:"course"`
}

type ConsistencyResponse struct {
	Consistent bool       `json:"consistent"`
	Mismatches []Mismatch `json:"mismatches"`
}

type ReconcileResponse struct {
	Repaired int `json:"repaired"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CourseRoutes returns the purchase route for mounting under /courses.
// Only the user role may buy; admins are refused.
func (h *Handler) CourseRoutes(
	authenticator func(http.Handler) http.Handler,
) func(chi.Router) {
	return func(r chi.Router) {
		r.With(
			authenticator,
			middleware.RequireRole(middleware.RoleUser),
		).Post("/{courseID}/purchase", h.Purchase)
	}
}

func (h *Handler) RegisterAdminRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin/purchases", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/consistency", h.Consistency)
		r.Post("/reconcile", h.Reconcile)
	})
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Purchase(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "courseID"),
	)
	if err != nil {
		if core.IsAppError(err) {
			core.JSONError(w, err)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PurchaseResponse{
		Message: purchasedMessage,
		Course:  receipt.Course.Title,
	})
}

func (h *Handler) Consistency(w http.ResponseWriter, r *http.Request) {
	mismatches, err := h.service.Consistency(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ConsistencyResponse{
		Consistent: len(mismatches) == 0,
		Mismatches: mismatches,
	})
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	repaired, err := h.service.Reconcile(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ReconcileResponse{Repaired: repaired})
}
