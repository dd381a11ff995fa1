package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/config"
	"github.com/sorgulen/tjenesteportal/internal/http/handler"
	"github.com/sorgulen/tjenesteportal/internal/http/middleware"
	"github.com/sorgulen/tjenesteportal/internal/orderapi"
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	orderAPI          *orderapi.Client
	authMiddleware    *middleware.Auth
	rateLimiter       *middleware.RateLimiter
	orderHandler      *handler.OrderHandler
	adminOrderHandler *handler.AdminOrderHandler
	authHandler       *handler.AuthHandler
	weatherHandler    *handler.WeatherHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	orderAPI *orderapi.Client,
	authMiddleware *middleware.Auth,
	rateLimiter *middleware.RateLimiter,
	orderHandler *handler.OrderHandler,
	adminOrderHandler *handler.AdminOrderHandler,
	authHandler *handler.AuthHandler,
	weatherHandler *handler.WeatherHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		orderAPI:          orderAPI,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		orderHandler:      orderHandler,
		adminOrderHandler: adminOrderHandler,
		authHandler:       authHandler,
		weatherHandler:    weatherHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Readiness probe: the portal is only useful when the order API answers
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := rt.orderAPI.Ping(r.Context()); err != nil {
			rt.logger.Error("Order API health check failed", zap.Error(err))
			checks["order_api"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["order_api"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/orders", rt.orderHandler.Create)
		r.Get("/orders/estimate", rt.orderHandler.Estimate)
		r.Get("/weather", rt.weatherHandler.Current)
		r.Get("/weather/advice", rt.weatherHandler.Advice)

		// Auth
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/logout", rt.authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Get("/auth/me", rt.authHandler.Me)

			// Admin order listing
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)

				r.Route("/admin/orders", func(r chi.Router) {
					r.Get("/", rt.adminOrderHandler.List)
					r.Get("/stats", rt.adminOrderHandler.Stats)
					r.Patch("/{id}", rt.adminOrderHandler.UpdateStatus)
				})
			})
		})
	})

	return r
}
