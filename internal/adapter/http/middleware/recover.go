package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Temutjin2k/delivery-fare/internal/adapter/http/response"
	wrap "github.com/Temutjin2k/delivery-fare/pkg/logger/wrapper"
)

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				err := fmt.Errorf("panic: %v", p)
				m.log.Error(wrap.WithAction(r.Context(), "panic_recovered"), "handler panicked", err, "stack", string(debug.Stack()))

				w.Header().Set("Connection", "close")
				response.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
