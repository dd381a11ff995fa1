package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/booking"
	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/orderapi"
	"github.com/sorgulen/tjenesteportal/internal/pricing"
)

// OrderHandler serves the public order surface: submission and the live
// price estimate
type OrderHandler struct {
	orders *orderapi.Client
	logger *zap.Logger
}

func NewOrderHandler(orders *orderapi.Client, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// Create accepts a public order submission, validates it and forwards it
// to the order API
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	req.ExtraInfo = strings.TrimSpace(req.ExtraInfo)

	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if req.PreferredDatetime != "" {
		if _, err := booking.ParseDatetime(req.PreferredDatetime); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid preferred_datetime")
			return
		}
	}

	order, err := h.orders.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to forward order", zap.Error(err))
		respondJSON(w, http.StatusBadGateway, domain.ErrorResponse{
			Error:   "Bad Gateway",
			Message: "Bestillingen kunne ikke sendes. Prøv igjen senere.",
		})
		return
	}

	h.logger.Info("order created",
		zap.String("ref", order.ShortRef()),
		zap.String("service_type", string(order.ServiceType)),
	)
	respondJSON(w, http.StatusCreated, domain.CreateOrderResponse{
		Order: *order,
		Ref:   order.ShortRef(),
	})
}

// Estimate computes the price estimate for the query parameters. The
// computation is local and side-effect free.
func (h *OrderHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := pricing.Input{
		ServiceType: domain.ServiceType(q.Get("service")),
		Address:     q.Get("address"),
		ExtraInfo:   q.Get("extra_info"),
	}
	if raw := q.Get("datetime"); raw != "" {
		dt, err := booking.ParseDatetime(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid datetime")
			return
		}
		in.Datetime = &dt
	}

	est, err := pricing.Compute(in)
	switch {
	case errors.Is(err, pricing.ErrServiceRequired):
		respondJSON(w, http.StatusOK, domain.EstimateResponse{
			Factors: []string{},
			Message: "Velg tjeneste for prisberegning",
		})
		return
	case errors.Is(err, pricing.ErrUnknownService):
		respondWithError(w, http.StatusBadRequest, "Unknown service type")
		return
	case err != nil:
		h.logger.Error("failed to compute estimate", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute estimate")
		return
	}

	resp := domain.EstimateResponse{
		ServiceType: string(in.ServiceType),
		Price:       est.Total,
		Factors:     est.Factors,
	}
	if len(est.Factors) == 0 {
		resp.Factors = []string{}
		resp.Message = "Basispris for valgt tjeneste"
	}
	respondJSON(w, http.StatusOK, resp)
}
