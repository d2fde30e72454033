// internal/adapters/in/http/handlers/payment_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"boutique/internal/adapters/in/http/middleware"
	usecase "boutique/internal/application/usecase"
	paydom "boutique/internal/domain/payment"
)

// PaymentHandler は /payments 関連のエンドポイントを担当します。
//
// Mounted behind SessionAuth; the uid comes from the verified session, never
// from the body.
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) http.Handler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/payments/intent" {
		methodNotAllowed(w)
		return
	}

	uid, ok := middleware.CurrentUID(r)
	if !ok {
		unauthorized(w)
		return
	}

	var body struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	intent, err := h.uc.CreateIntent(r.Context(), uid, body.Amount, body.Currency)
	switch {
	case errors.Is(err, paydom.ErrProviderUnavailable):
		writeError(w, http.StatusServiceUnavailable, "payment_unavailable")
	case errors.Is(err, usecase.ErrPaymentInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_argument")
	case err != nil:
		// surfaced once, never retried here
		log.Printf("[PaymentHandler] intent failed (uid=%s): %v", uid, err)
		writeError(w, http.StatusBadGateway, "payment_failed")
	default:
		writeJSON(w, http.StatusOK, intent)
	}
}
