package orders

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/djglaser/spookymart-ecommerce/internal/httpx"
)

// Handler serves the order API. Creation validates items against the product
// service before anything is persisted.
type Handler struct {
	repo     Repository
	products *ProductClient
	log      *zap.Logger
}

func NewHandler(repo Repository, products *ProductClient, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{repo: repo, products: products, log: log}
}

// Routes returns the router mounted at /api/orders. The collection routes
// live under the trailing slash; the gateway's rewrite depends on that.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.cancel)
	r.Post("/{id}/cancel", h.cancel)
	r.Get("/{id}/status", h.status)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error("list orders failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve orders")
		return
	}
	if list == nil {
		list = []*Order{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  list,
		"total":   len(list),
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid order payload: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Validation Error", err.Error())
		return
	}

	if h.products != nil {
		itemErrs, err := h.products.ValidateItems(r.Context(), req.Items)
		if err != nil {
			h.log.Error("product validation unavailable", zap.Error(err))
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"success": false,
				"error":   "Service Unavailable",
				"message": "Could not validate order items against the product service",
				"service": "product-service",
			})
			return
		}
		if len(itemErrs) > 0 {
			httpx.JSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   "Validation Error",
				"message": "One or more order items are invalid",
				"details": itemErrs,
			})
			return
		}
	}

	o := NewOrder(req)
	if err := h.repo.Create(r.Context(), &o); err != nil {
		h.log.Error("create order failed", zap.Error(err))
		httpx.Error(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create order")
		return
	}
	h.log.Info("order created",
		zap.String("id", o.ID),
		zap.String("customer", o.CustomerEmail),
		zap.Float64("total", o.TotalAmount),
		zap.Int("items", len(o.Items)))
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Order created successfully",
		"order":   o,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, id, err, "retrieve")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order retrieved successfully",
		"order":   o,
	})
}

// UpdateRequest carries the mutable order fields. Only present fields are
// applied.
type UpdateRequest struct {
	Status          *string          `json:"status"`
	CustomerPhone   *string          `json:"customer_phone"`
	ShippingAddress *ShippingAddress `json:"shipping_address"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Bad Request", "invalid order payload: "+err.Error())
		return
	}

	o, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, id, err, "update")
		return
	}

	if req.Status != nil {
		next := strings.ToLower(*req.Status)
		if !ValidStatus(next) {
			httpx.Error(w, http.StatusBadRequest, "Validation Error", "unknown status "+next)
			return
		}
		if !CanTransition(o.Status, next) {
			httpx.Error(w, http.StatusBadRequest, "Validation Error",
				"cannot move order from "+o.Status+" to "+next)
			return
		}
		o.Status = next
	}
	if req.CustomerPhone != nil {
		o.CustomerPhone = *req.CustomerPhone
	}
	if req.ShippingAddress != nil {
		o.ShippingAddress = *req.ShippingAddress
	}

	if err := h.repo.Update(r.Context(), o); err != nil {
		h.respondRepoError(w, id, err, "update")
		return
	}
	h.log.Info("order updated", zap.String("id", id), zap.String("status", o.Status))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order updated successfully",
		"order":   o,
	})
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, id, err, "cancel")
		return
	}
	if !CanTransition(o.Status, StatusCancelled) {
		httpx.Error(w, http.StatusBadRequest, "Validation Error",
			"order in status "+o.Status+" can no longer be cancelled")
		return
	}
	o.Status = StatusCancelled
	if err := h.repo.Update(r.Context(), o); err != nil {
		h.respondRepoError(w, id, err, "cancel")
		return
	}
	h.log.Info("order cancelled", zap.String("id", id))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Order " + id + " cancelled successfully",
		"order":   o,
	})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.respondRepoError(w, id, err, "retrieve status for")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"order_id":   o.ID,
		"status":     o.Status,
		"created_at": o.CreatedAt,
	})
}

func (h *Handler) respondRepoError(w http.ResponseWriter, id string, err error, verb string) {
	if errors.Is(err, ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Not Found", "Order "+id+" not found")
		return
	}
	h.log.Error("order repository error", zap.String("id", id), zap.Error(err))
	httpx.Error(w, http.StatusInternalServerError, "Internal Server Error", "Failed to "+verb+" order "+id)
}
