// internal/adapters/in/http/handlers/newsletter_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	usecase "boutique/internal/application/usecase"
	nldom "boutique/internal/domain/newsletter"
)

// NewsletterHandler は /newsletter のエンドポイントを担当します。
//
// Success and duplicate signups answer identically so the endpoint cannot be
// used to probe which addresses are subscribed.
type NewsletterHandler struct {
	uc *usecase.NewsletterUsecase
}

func NewNewsletterHandler(uc *usecase.NewsletterUsecase) http.Handler {
	return &NewsletterHandler{uc: uc}
}

func (h *NewsletterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var body struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	err := h.uc.Subscribe(r.Context(), body.Email, body.Source)
	switch {
	case errors.Is(err, nldom.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "invalid_email")
	case err != nil:
		log.Printf("[NewsletterHandler] subscribe failed: %v", err)
		internalError(w)
	default:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
