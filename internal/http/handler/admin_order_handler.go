package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/http/middleware"
	"github.com/sorgulen/tjenesteportal/internal/orderapi"
)

// AdminOrderHandler serves the admin order listing. Every call passes the
// caller's own bearer token through to the order API, so the portal never
// holds privileges of its own.
type AdminOrderHandler struct {
	orders *orderapi.Client
	logger *zap.Logger
}

func NewAdminOrderHandler(orders *orderapi.Client, logger *zap.Logger) *AdminOrderHandler {
	return &AdminOrderHandler{
		orders: orders,
		logger: logger,
	}
}

// List returns the orders, optionally narrowed by status, service and a
// free-text search
func (h *AdminOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing access token")
		return
	}

	filter, ok := parseOrderFilter(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.List(r.Context(), token)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		respondJSON(w, http.StatusBadGateway, domain.ErrorResponse{
			Error:   "Bad Gateway",
			Message: "Kunne ikke hente bestillinger",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.FilterOrders(orders, filter))
}

// Stats returns per-status counts over the full listing
func (h *AdminOrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing access token")
		return
	}

	orders, err := h.orders.List(r.Context(), token)
	if err != nil {
		h.logger.Error("failed to list orders for stats", zap.Error(err))
		respondJSON(w, http.StatusBadGateway, domain.ErrorResponse{
			Error:   "Bad Gateway",
			Message: "Kunne ikke hente bestillinger",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.CountStats(orders))
}

// UpdateStatus forwards a status change to the order API. An upstream
// failure is passed back as 502 so the client can roll back its
// optimistic update.
func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing access token")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing order id")
		return
	}

	var req domain.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	status := domain.OrderStatus(req.Status)
	if err := h.orders.UpdateStatus(r.Context(), token, id, status); err != nil {
		if errors.Is(err, orderapi.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		h.logger.Error("failed to update order status",
			zap.String("order_id", id),
			zap.Error(err),
		)
		respondJSON(w, http.StatusBadGateway, domain.ErrorResponse{
			Error:   "Bad Gateway",
			Message: "Oppdatering feilet",
		})
		return
	}

	h.logger.Info("order status updated",
		zap.String("order_id", id),
		zap.String("status", req.Status),
	)
	respondJSON(w, http.StatusOK, map[string]string{
		"id":     id,
		"status": req.Status,
	})
}

// parseOrderFilter reads the filter query parameters, rejecting invalid
// enum values
func parseOrderFilter(w http.ResponseWriter, r *http.Request) (domain.OrderFilter, bool) {
	q := r.URL.Query()
	filter := domain.OrderFilter{Search: q.Get("q")}

	if status := q.Get("status"); status != "" {
		s := domain.OrderStatus(status)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return domain.OrderFilter{}, false
		}
		filter.Status = s
	}
	if service := q.Get("service"); service != "" {
		st := domain.ServiceType(service)
		if !st.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid service filter")
			return domain.OrderFilter{}, false
		}
		filter.Service = st
	}
	return filter, true
}
