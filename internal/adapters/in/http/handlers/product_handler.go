// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	usecase "boutique/internal/application/usecase"
	proddom "boutique/internal/domain/product"
)

const maxImageUploadBytes = 8 << 20 // 8 MiB

// ProductHandler は /products 関連のエンドポイントを担当します。
//
// Reads are public; mutations are mounted behind the admin middleware by the
// router, so no role checks live here.
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) http.Handler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Printf("[ProductHandler] method=%s path=%s", r.Method, r.URL.Path)

	switch {
	// GET /products?limit=n
	case r.Method == http.MethodGet && strings.TrimSuffix(r.URL.Path, "/") == "/products":
		h.list(w, r)

	// POST /products
	case r.Method == http.MethodPost && strings.TrimSuffix(r.URL.Path, "/") == "/products":
		h.create(w, r)

	// POST /products/{id}/image
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/image"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/products/"), "/image")
		h.uploadImage(w, r, strings.Trim(id, "/"))

	// GET /products/{id}
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/products/"):
		h.get(w, r, strings.TrimPrefix(r.URL.Path, "/products/"))

	// PUT /products/{id}
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/products/"):
		h.update(w, r, strings.TrimPrefix(r.URL.Path, "/products/"))

	// DELETE /products/{id}
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/products/"):
		h.delete(w, r, strings.TrimPrefix(r.URL.Path, "/products/"))

	default:
		methodNotAllowed(w)
	}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)
	items, err := h.uc.List(r.Context(), limit)
	if err != nil {
		log.Printf("[ProductHandler] list failed: %v", err)
		internalError(w)
		return
	}
	if items == nil {
		items = []proddom.Product{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.uc.Get(r.Context(), id)
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, usecase.ErrProductInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_argument")
	case err != nil:
		log.Printf("[ProductHandler] get failed (id=%s): %v", id, err)
		internalError(w)
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var p proddom.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	created, err := h.uc.Create(r.Context(), &p)
	switch {
	case errors.Is(err, proddom.ErrInvalidProduct):
		writeError(w, http.StatusBadRequest, "invalid_product")
	case err != nil:
		log.Printf("[ProductHandler] create failed: %v", err)
		internalError(w)
	default:
		writeJSON(w, http.StatusCreated, created)
	}
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var p proddom.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	updated, err := h.uc.Update(r.Context(), id, &p)
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, proddom.ErrInvalidProduct), errors.Is(err, usecase.ErrProductInvalidArgument):
		writeError(w, http.StatusBadRequest, "invalid_product")
	case err != nil:
		log.Printf("[ProductHandler] update failed (id=%s): %v", id, err)
		internalError(w)
	default:
		writeJSON(w, http.StatusOK, updated)
	}
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.uc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrProductInvalidArgument) {
			writeError(w, http.StatusBadRequest, "invalid_argument")
			return
		}
		log.Printf("[ProductHandler] delete failed (id=%s): %v", id, err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// uploadImage accepts multipart/form-data with a "file" part.
func (h *ProductHandler) uploadImage(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_multipart")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file")
		return
	}
	defer file.Close()

	p, err := h.uc.AttachImage(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case err != nil:
		log.Printf("[ProductHandler] image upload failed (id=%s): %v", id, err)
		internalError(w)
	default:
		writeJSON(w, http.StatusOK, p)
	}
}
