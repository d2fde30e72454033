// internal/adapters/in/http/middleware/session_auth.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	usecase "boutique/internal/application/usecase"
	sessdom "boutique/internal/domain/session"
)

// context key は string を使わず、衝突回避のため独自型を使用（SA1029 対策）
type ctxKey struct{ name string }

var (
	ctxKeyClaims = ctxKey{name: "sessionClaims"}
	ctxKeyUID    = ctxKey{name: "uid"}
)

// SessionAuth verifies the __session cookie and injects the claims into the
// request context.
//
// All failures answer the same generic 401: the client must not learn whether
// the cookie was absent, malformed, expired or revoked.
type SessionAuth struct {
	Sessions *usecase.SessionUsecase
}

func (m *SessionAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.Sessions == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		claims := m.resolve(r)
		if claims == nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		ctx = context.WithValue(ctx, ctxKeyUID, claims.UID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolve returns verified claims, or nil when the request carries no valid
// session. Never an error.
func (m *SessionAuth) resolve(r *http.Request) *sessdom.Claims {
	cookie, err := r.Cookie(usecase.SessionCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return nil
	}
	claims, _ := m.Sessions.Verify(r.Context(), cookie.Value)
	return claims
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}

// CurrentClaims returns the verified session claims injected by SessionAuth.
func CurrentClaims(r *http.Request) (*sessdom.Claims, bool) {
	v := r.Context().Value(ctxKeyClaims)
	if v == nil {
		return nil, false
	}
	c, ok := v.(*sessdom.Claims)
	if !ok || c == nil {
		return nil, false
	}
	return c, true
}

// CurrentUID returns the verified uid injected by SessionAuth.
func CurrentUID(r *http.Request) (string, bool) {
	v := r.Context().Value(ctxKeyUID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
