// AngelaMos | 2026
// recoverer.go

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
				panic(rec)
			}

			slog.Error("panic recovered",
				"panic", rec,
				"path", r.URL.Path,
				"request_id", GetRequestID(r.Context()),
				"stack", string(debug.Stack()),
			)

			core.InternalServerError(w, fmt.Errorf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
