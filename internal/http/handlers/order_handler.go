package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/taipei-trip/internal/domain"
	"github.com/diagnosis/taipei-trip/internal/http/middleware"
	"github.com/diagnosis/taipei-trip/internal/http/response"
	"github.com/diagnosis/taipei-trip/internal/service"
)

type OrderHandler struct {
	Orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

func (h *OrderHandler) submit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r)

	var in domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.Orders.Submit(r.Context(), claims.ID, &in)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	// The payment payload is returned for accepted and declined charges
	// alike; the client inspects its status field.
	response.Data(w, result)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r)
	number := chi.URLParam(r, "number")

	detail, err := h.Orders.Fetch(r.Context(), number, claims.ID)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, detail)
}
