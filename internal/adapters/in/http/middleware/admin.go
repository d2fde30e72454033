// internal/adapters/in/http/middleware/admin.go
package middleware

import (
	"encoding/json"
	"log"
	"net/http"

	usecase "boutique/internal/application/usecase"
)

// AdminOnly gates a route on the profile role, looked up on EVERY request.
// The admin custom claim inside the session credential is deliberately not
// trusted here: a demoted admin must lose access on their next request, not
// when their cookie expires.
//
// Must run after SessionAuth.
type AdminOnly struct {
	Accounts *usecase.AccountUsecase
}

func (m *AdminOnly) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.Accounts == nil {
			http.Error(w, "admin middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		uid, ok := CurrentUID(r)
		if !ok {
			writeUnauthorized(w)
			return
		}

		if !m.Accounts.IsAdmin(r.Context(), uid) {
			log.Printf("[AdminOnly] denied path=%s uid=%s", r.URL.Path, uid)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
