package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/djglaser/spookymart-ecommerce/internal/httpx"
)

// Handler serves the product CRUD API.
type Handler struct {
	store *Store
	log   *zap.Logger
}

func NewHandler(store *Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, log: log}
}

// Routes returns the router mounted at /api/products.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products := h.store.List()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"products": products,
			"total":    len(products),
		},
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.store.Get(id)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Not Found", "Product "+id+" not found")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"product": p},
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid product payload: "+err.Error())
		return
	}
	if p.Name == "" || p.Price < 0 {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "name is required and price must be >= 0")
		return
	}
	if p.ID == "" {
		p.ID = "prod-" + uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	h.store.Create(p)
	h.log.Info("product created", zap.String("id", p.ID), zap.String("name", p.Name))
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Product created successfully",
		"data":    map[string]any{"product": p},
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid product payload: "+err.Error())
		return
	}
	p.ID = id
	if err := h.store.Update(p); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Not Found", "Product "+id+" not found")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Internal Server Error", "failed to update product")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product updated successfully",
		"data":    map[string]any{"product": p},
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		httpx.Error(w, http.StatusNotFound, "Not Found", "Product "+id+" not found")
		return
	}
	h.log.Info("product deleted", zap.String("id", id))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product " + id + " deleted successfully",
	})
}
