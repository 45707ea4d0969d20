// AngelaMos | 2026
// handler_test.go

package purchase

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/instaiq-backend/internal/middleware"
)

func withIdentity(id, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithIdentity(r.Context(), &middleware.Identity{ID: id, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func purchaseRouter(h *Handler, role string) chi.Router {
	r := chi.NewRouter()
	r.Route("/courses", h.CourseRoutes(withIdentity(learnerID, role)))
	return r
}

func TestPurchaseHandler_Success(t *testing.T) {
	w := newWorld()
	svc, _ := newTestService(w, nil)
	r := purchaseRouter(NewHandler(svc), middleware.RoleUser)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/"+goID+"/purchase", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    PurchaseResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Course purchased successfully!", body.Data.Message)
	assert.Equal(t, "Go Fundamentals", body.Data.Course)
}

func TestPurchaseHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		courseID string
		seed     func(w *world)
		status   int
		code     string
	}{
		{name: "unknown course", courseID: missingID, status: http.StatusNotFound, code: "NOT_FOUND"},
		{
			name:     "already purchased",
			courseID: goID,
			seed:     func(w *world) { w.userSide[pair{learnerID, goID}] = time.Now() },
			status:   http.StatusConflict,
			code:     "ALREADY_PURCHASED",
		},
		{
			name:     "purchaser side only",
			courseID: goID,
			seed:     func(w *world) { w.courseSide[pair{learnerID, goID}] = time.Now() },
			status:   http.StatusConflict,
			code:     "PURCHASE_INCONSISTENT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			if tt.seed != nil {
				tt.seed(w)
			}
			svc, _ := newTestService(w, nil)
			r := purchaseRouter(NewHandler(svc), middleware.RoleUser)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/"+tt.courseID+"/purchase", nil))

			require.Equal(t, tt.status, rec.Code)
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestPurchaseHandler_AdminForbidden(t *testing.T) {
	w := newWorld()
	svc, _ := newTestService(w, nil)
	r := purchaseRouter(NewHandler(svc), middleware.RoleAdmin)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/"+goID+"/purchase", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "user role admin is not authorized to access this route")
	assert.Empty(t, w.userSide)
}
