// internal/adapters/in/http/handlers/order_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	usecase "boutique/internal/application/usecase"
	orderdom "boutique/internal/domain/order"
)

// OrderHandler は /orders 関連のエンドポイントを担当します。
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("[OrderHandler] method=%s path=%s", r.Method, r.URL.Path)

	switch {
	// GET /orders?uid=xxx&limit=n
	case r.Method == http.MethodGet && strings.TrimSuffix(r.URL.Path, "/") == "/orders":
		h.list(w, r)

	// POST /orders  body: { "uid": "..." }  (admin; router-gated)
	case r.Method == http.MethodPost && strings.TrimSuffix(r.URL.Path, "/") == "/orders":
		h.place(w, r)

	// PATCH /orders/{id}  body: { "status": "..." }  (admin; router-gated)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/orders/"):
		h.updateStatus(w, r, strings.TrimPrefix(r.URL.Path, "/orders/"))

	// GET /orders/{id}
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/orders/"):
		h.get(w, r, strings.TrimPrefix(r.URL.Path, "/orders/"))

	default:
		methodNotAllowed(w)
	}
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)

	var (
		items []orderdom.Order
		err   error
	)
	if uid := strings.TrimSpace(r.URL.Query().Get("uid")); uid != "" {
		items, err = h.uc.ListByUser(r.Context(), uid, limit)
	} else {
		items, err = h.uc.List(r.Context(), limit)
	}
	if err != nil {
		log.Printf("[OrderHandler] list failed: %v", err)
		internalError(w)
		return
	}
	if items == nil {
		items = []orderdom.Order{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	o, err := h.uc.Get(r.Context(), id)
	switch {
	case errors.Is(err, usecase.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, usecase.ErrOrderInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_argument")
	case err != nil:
		log.Printf("[OrderHandler] get failed (id=%s): %v", id, err)
		internalError(w)
	default:
		writeJSON(w, http.StatusOK, o)
	}
}

func (h *OrderHandler) place(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UID string `json:"uid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	o, err := h.uc.PlaceForUser(r.Context(), body.UID)
	switch {
	case errors.Is(err, usecase.ErrOrderInvalidArgument), errors.Is(err, orderdom.ErrInvalidOrder):
		// covers empty uid and empty/absent cart
		writeError(w, http.StatusBadRequest, "invalid_argument")
	case err != nil:
		log.Printf("[OrderHandler] place failed (uid=%s): %v", body.UID, err)
		internalError(w)
	default:
		writeJSON(w, http.StatusCreated, o)
	}
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request, id string) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	o, err := h.uc.UpdateStatus(r.Context(), id, body.Status)
	switch {
	case errors.Is(err, usecase.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, orderdom.ErrInvalidOrder), errors.Is(err, usecase.ErrOrderInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_argument")
	case err != nil:
		log.Printf("[OrderHandler] status update failed (id=%s): %v", id, err)
		internalError(w)
	default:
		writeJSON(w, http.StatusOK, o)
	}
}
