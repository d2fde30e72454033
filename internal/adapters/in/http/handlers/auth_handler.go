// internal/adapters/in/http/handlers/auth_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	usecase "boutique/internal/application/usecase"
	sessdom "boutique/internal/domain/session"
)

// AuthHandler は /auth 関連のエンドポイントを担当します。
//
// The error taxonomy here is deliberately flat: every sign-in failure is the
// same 401, and logout always answers 200.
type AuthHandler struct {
	sessions *usecase.SessionUsecase
	accounts *usecase.AccountUsecase
	secure   bool // Secure cookie attribute (production)
}

func NewAuthHandler(sessions *usecase.SessionUsecase, accounts *usecase.AccountUsecase, secure bool) http.Handler {
	return &AuthHandler{sessions: sessions, accounts: accounts, secure: secure}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/session":
		h.createSession(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/auth/verify":
		h.verify(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/auth/logout":
		h.logout(w, r)
	default:
		methodNotAllowed(w)
	}
}

// POST /auth/session
//
//	body: { "idToken": "..." }
//	→ 200 {success:true} + Set-Cookie __session | 401
func (h *AuthHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDToken string `json:"idToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		unauthorized(w)
		return
	}

	cookie, err := h.sessions.Create(r.Context(), body.IDToken)
	if err != nil {
		log.Printf("[AuthHandler] session create failed: %v", err)
		unauthorized(w)
		return
	}

	// the profile doc is created on first sign-in; failure here must not
	// block the login itself
	if h.accounts != nil {
		if claims, _ := h.sessions.Verify(r.Context(), cookie); claims != nil {
			if _, err := h.accounts.EnsureProfile(r.Context(), claims.UID, claims.Email); err != nil {
				log.Printf("[AuthHandler] ensure profile failed (uid=%s): %v", claims.UID, err)
			}
		}
	}

	http.SetCookie(w, sessionCookie(cookie, h.secure))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GET /auth/verify
//
//	→ 200 {uid,email,admin} | 401
func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request) {
	claims := h.currentClaims(r)
	if claims == nil {
		unauthorized(w)
		return
	}

	admin := false
	if h.accounts != nil {
		admin = h.accounts.IsAdmin(r.Context(), claims.UID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"uid":   claims.UID,
		"email": claims.Email,
		"admin": admin,
	})
}

// POST /auth/logout
//
// Always 200, even with no (or a forged) cookie: logout is idempotent and
// leaks nothing. A valid session additionally gets every device revoked.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if claims := h.currentClaims(r); claims != nil {
		if err := h.sessions.RevokeAll(r.Context(), claims.UID); err != nil {
			log.Printf("[AuthHandler] revoke failed (uid=%s): %v", claims.UID, err)
		}
	}

	http.SetCookie(w, clearSessionCookie(h.secure))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) currentClaims(r *http.Request) *sessdom.Claims {
	c, err := r.Cookie(usecase.SessionCookieName)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return nil
	}
	claims, _ := h.sessions.Verify(r.Context(), c.Value)
	return claims
}

// sessionCookie builds the session cookie. Attributes are a contract with
// the hosting CDN and the frontend; change nothing here casually.
func sessionCookie(value string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     usecase.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(sessdom.Lifetime.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func clearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     usecase.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // serializes as Max-Age=0 (delete now)
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
